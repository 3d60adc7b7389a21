package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fpang/social-content-toolkit/internal/chat"
	"github.com/fpang/social-content-toolkit/internal/download"
	"github.com/fpang/social-content-toolkit/internal/filehandler"
	"github.com/fpang/social-content-toolkit/internal/prompt"
	"github.com/fpang/social-content-toolkit/internal/tools"
)

// GET /api/health
func (h *handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": ServiceName,
	})
}

type toolInfo struct {
	tools.Descriptor
	Tones []prompt.Tone `json:"tones"`
}

type toolsResponse struct {
	Tools             []toolInfo                `json:"tools"`
	QuickTones        []string                  `json:"quickTones"`
	Lengths           []prompt.Length           `json:"lengths"`
	Languages         []prompt.Language         `json:"languages"`
	Goals             []prompt.Goal             `json:"goals"`
	Stances           []prompt.Stance           `json:"stances"`
	Parties           []prompt.Party            `json:"parties"`
	ImageStyles       []chat.ImageStyle         `json:"imageStyles"`
	AspectRatios      []filehandler.AspectRatio `json:"aspectRatios"`
	VideoResolutions  []chat.VideoResolution    `json:"videoResolutions"`
	VideoAspectRatios []chat.VideoAspectRatio   `json:"videoAspectRatios"`
	Platforms         []download.Platform       `json:"platforms"`
}

// GET /api/tools
func (h *handlers) handleTools(w http.ResponseWriter, r *http.Request) {
	all := tools.All()
	infos := make([]toolInfo, 0, len(all))
	for _, d := range all {
		tones := prompt.TonesFor(d.ID)
		if tones == nil {
			tones = []prompt.Tone{}
		}
		infos = append(infos, toolInfo{Descriptor: d, Tones: tones})
	}
	respondJSON(w, http.StatusOK, toolsResponse{
		Tools:             infos,
		QuickTones:        prompt.QuickTones[:],
		Lengths:           prompt.Lengths,
		Languages:         prompt.Languages,
		Goals:             prompt.Goals,
		Stances:           prompt.Stances,
		Parties:           prompt.Parties,
		ImageStyles:       chat.ImageStyles,
		AspectRatios:      filehandler.AspectRatios,
		VideoResolutions:  []chat.VideoResolution{chat.ResolutionSD, chat.ResolutionHD},
		VideoAspectRatios: []chat.VideoAspectRatio{chat.VideoLandscape, chat.VideoPortrait},
		Platforms:         download.Platforms,
	})
}

// POST /api/generate
//
// Body: prompt.Request. Returns chat.Result.
func (h *handlers) handleGenerate(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var req prompt.Request
	if !decodeJSON(w, r, maxMediaBodyBytes, &req) {
		return
	}

	p, err := req.Params()
	if err != nil {
		httpError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	d, err := tools.Lookup(p.Tool)
	if err != nil {
		httpError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if !p.HasInput() {
		httpError(w, r, http.StatusBadRequest, "Please enter some content or upload an image.")
		return
	}
	if err := p.Validate(); err != nil {
		httpError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	username := strings.TrimSpace(req.Username)
	if username != "" && h.Store != nil {
		banned, err := h.Store.IsBlacklisted(r.Context(), username)
		if err != nil {
			httpError(w, r, http.StatusInternalServerError, "Failed to check account status.", err.Error())
			return
		}
		if banned {
			logger.Warn().Str("username", username).Str("tool", string(d.ID)).Msg("Blocked generation for blacklisted user")
			httpError(w, r, http.StatusForbidden, "Your account has been blocked.")
			return
		}
	}

	compiled := prompt.Compile(p, d)
	logger.Debug().
		Str("tool", string(d.ID)).
		Int("promptLength", len(compiled)).
		Bool("hasImage", p.Image != nil).
		Msg("Generating content")

	result, err := h.Generator.Generate(r.Context(), compiled, p, d)
	if err != nil {
		var genErr *chat.GenerationError
		switch {
		case errors.As(err, &genErr):
			httpError(w, r, http.StatusBadGateway, genErr.Error(), err.Error())
		case errors.Is(err, prompt.ErrInvalidParams):
			httpError(w, r, http.StatusBadRequest, err.Error())
		default:
			httpError(w, r, http.StatusInternalServerError, "Generation failed.", err.Error())
		}
		return
	}

	if username != "" && h.Store != nil && !result.Placeholder && len(result.Items) > 0 {
		if err := h.Store.RecordGeneration(r.Context(), username, d.ID, len(result.Items)); err != nil {
			logger.Error().Err(err).Str("username", username).Msg("Failed to record generation usage")
		}
	}

	respondJSON(w, http.StatusOK, result)
}
