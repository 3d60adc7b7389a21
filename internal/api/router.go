// Package api serves the content tools over HTTP: text generation, photo
// and video generation, the media download proxy, and the admin endpoints
// for users, templates and the blacklist.
//
// The same router runs behind the local web server and inside Lambda via
// the API Gateway v2 adapter.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/fpang/social-content-toolkit/internal/chat"
	"github.com/fpang/social-content-toolkit/internal/download"
	"github.com/fpang/social-content-toolkit/internal/prompt"
	"github.com/fpang/social-content-toolkit/internal/store"
	"github.com/fpang/social-content-toolkit/internal/tools"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "social-content-toolkit"

// ContentGenerator is implemented by *chat.Generator.
type ContentGenerator interface {
	Generate(ctx context.Context, compiled prompt.Compiled, p prompt.Params, d tools.Descriptor) (chat.Result, error)
	GenerateImage(ctx context.Context, req chat.PhotoRequest) (*chat.Photo, error)
	GenerateVideo(ctx context.Context, req chat.VideoRequest) (string, error)
}

// MediaResolver is implemented by *download.Client.
type MediaResolver interface {
	Fetch(ctx context.Context, p download.Platform, rawURL string) (*download.Media, error)
}

// PhotoPublisher is implemented by *s3util.Publisher.
type PhotoPublisher interface {
	Publish(ctx context.Context, data []byte, mimeType string) (string, error)
}

// Deps are the collaborators behind the handlers. Publisher may be nil,
// in which case photos are returned inline as base64.
type Deps struct {
	Generator  ContentGenerator
	Store      store.AdminStore
	Downloader MediaResolver
	Publisher  PhotoPublisher

	AllowedOrigins     []string
	OriginVerifySecret string
}

type handlers struct {
	Deps
}

// NewRouter builds the API router with its middleware chain.
func NewRouter(deps Deps) chi.Router {
	h := &handlers{Deps: deps}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(WithLogging)
	r.Use(chimiddleware.Recoverer)
	r.Use(WithMetrics)
	r.Use(WithCORS(deps.AllowedOrigins))
	r.Use(WithOriginVerify(deps.OriginVerifySecret))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.handleHealth)
		r.Get("/tools", h.handleTools)
		r.Post("/generate", h.handleGenerate)

		r.Post("/photo", h.handlePhoto)
		r.Post("/video", h.handleVideo)
		r.Post("/download", h.handleDownload)
		r.Get("/thumbnails", h.handleThumbnails)

		r.Get("/users", h.handleListUsers)
		r.Route("/templates", func(r chi.Router) {
			r.Get("/", h.handleListTemplates)
			r.Post("/", h.handleCreateTemplate)
			r.Delete("/{id}", h.handleDeleteTemplate)
		})
		r.Route("/blacklist", func(r chi.Router) {
			r.Get("/", h.handleListBlacklist)
			r.Post("/", h.handleBlockUser)
			r.Delete("/{username}", h.handleUnblockUser)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpError(w, r, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}
