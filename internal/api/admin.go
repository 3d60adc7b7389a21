package api

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/fpang/social-content-toolkit/internal/store"
)

// GET /api/users
func (h *handlers) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.ListUsers(r.Context())
	if err != nil {
		httpError(w, r, http.StatusInternalServerError, "Failed to fetch users from database.", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// GET /api/templates
func (h *handlers) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.Store.ListTemplates(r.Context())
	if err != nil {
		httpError(w, r, http.StatusInternalServerError, "Failed to fetch templates.", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, templates)
}

// POST /api/templates
func (h *handlers) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var t store.Template
	if !decodeJSON(w, r, maxAdminBodyBytes, &t) {
		return
	}
	t.ID = ""

	created, err := h.Store.PutTemplate(r.Context(), t)
	if err != nil {
		if errors.Is(err, store.ErrIncompleteTemplate) {
			httpError(w, r, http.StatusBadRequest, "Missing required fields for template.")
			return
		}
		httpError(w, r, http.StatusInternalServerError, "Failed to add template.", err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// DELETE /api/templates/{id}
func (h *handlers) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeleteTemplate(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpError(w, r, http.StatusNotFound, "Template not found.")
			return
		}
		httpError(w, r, http.StatusInternalServerError, "Failed to delete template.", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, messageResponse{Message: "Template deleted successfully."})
}

// GET /api/blacklist
func (h *handlers) handleListBlacklist(w http.ResponseWriter, r *http.Request) {
	names, err := h.Store.ListBlacklist(r.Context())
	if err != nil {
		httpError(w, r, http.StatusInternalServerError, "Failed to fetch blacklist.", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, names)
}

// POST /api/blacklist
//
// Body: {"username": "..."}
func (h *handlers) handleBlockUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
	}
	if !decodeJSON(w, r, maxAdminBodyBytes, &body) {
		return
	}
	if err := h.Store.AddToBlacklist(r.Context(), body.Username); err != nil {
		if errors.Is(err, store.ErrEmptyUsername) {
			httpError(w, r, http.StatusBadRequest, "Username is required.")
			return
		}
		httpError(w, r, http.StatusInternalServerError, "Failed to block user.", err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, messageResponse{Message: "User blocked successfully."})
}

// DELETE /api/blacklist/{username}
func (h *handlers) handleUnblockUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if unescaped, err := url.PathUnescape(username); err == nil {
		username = unescaped
	}
	if err := h.Store.RemoveFromBlacklist(r.Context(), username); err != nil {
		if errors.Is(err, store.ErrEmptyUsername) {
			httpError(w, r, http.StatusBadRequest, "Username is required.")
			return
		}
		httpError(w, r, http.StatusInternalServerError, "Failed to unblock user.", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, messageResponse{Message: "User unblocked successfully."})
}
