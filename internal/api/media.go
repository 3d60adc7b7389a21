package api

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/fpang/social-content-toolkit/internal/chat"
	"github.com/fpang/social-content-toolkit/internal/download"
)

type photoResponse struct {
	MIMEType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
	URL      string `json:"url,omitempty"`
}

// mediaError maps photo and video generation failures to responses.
func mediaError(w http.ResponseWriter, r *http.Request, kind string, err error) {
	switch {
	case errors.Is(err, chat.ErrNoAPIKey):
		httpError(w, r, http.StatusServiceUnavailable, kind+" generation is not configured.")
	case errors.Is(err, chat.ErrInvalidRequest):
		httpError(w, r, http.StatusBadRequest, err.Error())
	default:
		httpError(w, r, http.StatusBadGateway, "Failed to generate "+kind+". Please try again.", err.Error())
	}
}

// POST /api/photo
//
// Body: chat.PhotoRequest. Returns the image inline, or a presigned URL
// when a media bucket is configured.
func (h *handlers) handlePhoto(w http.ResponseWriter, r *http.Request) {
	var req chat.PhotoRequest
	if !decodeJSON(w, r, maxMediaBodyBytes, &req) {
		return
	}

	photo, err := h.Generator.GenerateImage(r.Context(), req)
	if err != nil {
		mediaError(w, r, "Photo", err)
		return
	}

	if h.Publisher != nil {
		url, err := h.Publisher.Publish(r.Context(), photo.Data, photo.MIMEType)
		if err != nil {
			httpError(w, r, http.StatusInternalServerError, "Failed to store generated photo.", err.Error())
			return
		}
		respondJSON(w, http.StatusOK, photoResponse{URL: url})
		return
	}

	respondJSON(w, http.StatusOK, photoResponse{
		MIMEType: photo.MIMEType,
		Data:     base64.StdEncoding.EncodeToString(photo.Data),
	})
}

// POST /api/video
//
// Body: chat.VideoRequest. Blocks until the video is ready.
func (h *handlers) handleVideo(w http.ResponseWriter, r *http.Request) {
	var req chat.VideoRequest
	if !decodeJSON(w, r, maxAdminBodyBytes, &req) {
		return
	}

	uri, err := h.Generator.GenerateVideo(r.Context(), req)
	if err != nil {
		mediaError(w, r, "Video", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"uri": uri})
}

type downloadRequest struct {
	Platform download.Platform `json:"platform"`
	URL      string            `json:"url"`
}

type downloadResponse struct {
	Thumbnails []download.Thumbnail `json:"thumbnails,omitempty"`
	Media      *download.Media      `json:"media,omitempty"`
}

// POST /api/download
//
// Body: {"platform": "...", "url": "..."}. The thumbnail platform is
// answered locally; every other platform goes through the extraction
// service.
func (h *handlers) handleDownload(w http.ResponseWriter, r *http.Request) {
	var req downloadRequest
	if !decodeJSON(w, r, maxAdminBodyBytes, &req) {
		return
	}
	if err := download.ValidateURL(req.Platform, req.URL); err != nil {
		httpError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if req.Platform == download.PlatformThumbnail {
		id, err := download.YouTubeID(req.URL)
		if err != nil {
			httpError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		respondJSON(w, http.StatusOK, downloadResponse{Thumbnails: download.Thumbnails(id)})
		return
	}

	media, err := h.Downloader.Fetch(r.Context(), req.Platform, req.URL)
	if err != nil {
		var svcErr *download.ServiceError
		switch {
		case errors.As(err, &svcErr):
			httpError(w, r, http.StatusBadGateway, svcErr.Error())
		case errors.Is(err, download.ErrNoMedia):
			httpError(w, r, http.StatusNotFound, "No download URL found.")
		default:
			httpError(w, r, http.StatusBadGateway, "Failed to fetch media. Please check the URL and try again.", err.Error())
		}
		return
	}
	zerolog.Ctx(r.Context()).Info().Str("platform", string(req.Platform)).Str("filename", media.Filename).Msg("Media link resolved")
	respondJSON(w, http.StatusOK, downloadResponse{Media: media})
}

// GET /api/thumbnails?url=...
func (h *handlers) handleThumbnails(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if err := download.ValidateURL(download.PlatformThumbnail, rawURL); err != nil {
		httpError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	id, err := download.YouTubeID(rawURL)
	if err != nil {
		httpError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, downloadResponse{Thumbnails: download.Thumbnails(id)})
}
