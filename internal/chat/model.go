package chat

import (
	"os"
	"time"

	"github.com/fpang/social-content-toolkit/internal/config"
	"github.com/fpang/social-content-toolkit/internal/sanitize"
)

// Gemini Model IDs
//
// | Model Name               | API Model ID                  | Use Case                        |
// |--------------------------|-------------------------------|---------------------------------|
// | Gemini 2.5 Flash         | gemini-2.5-flash              | Text generation (default)       |
// | Gemini 2.5 Pro           | gemini-2.5-pro                | Stable, high-reasoning tasks    |
// | Gemini 2.5 Flash Image   | gemini-2.5-flash-image        | Image generation from reference |
// | Imagen 4                 | imagen-4.0-generate-001       | Text-to-image                   |
// | Veo 3.1 Fast (Preview)   | veo-3.1-fast-generate-preview | Text-to-video                   |
const (
	// ModelGemini25Flash is stable, balanced performance.
	ModelGemini25Flash = "gemini-2.5-flash"

	// ModelGemini25Pro is stable, for high-reasoning tasks.
	ModelGemini25Pro = "gemini-2.5-pro"

	// ModelGemini25FlashImage edits or restyles a reference image.
	ModelGemini25FlashImage = "gemini-2.5-flash-image"

	// ModelImagen4 generates images from text alone.
	ModelImagen4 = "imagen-4.0-generate-001"

	// ModelVeo31Fast generates short videos from text.
	ModelVeo31Fast = "veo-3.1-fast-generate-preview"
)

// DefaultModelName is the default Gemini model to use.
// Can be overridden via GEMINI_MODEL environment variable.
const DefaultModelName = ModelGemini25Flash

// DefaultPollInterval is how often a video operation is polled.
const DefaultPollInterval = 10 * time.Second

// GetModelName returns the Gemini text model to use, resolved from:
// 1. GEMINI_MODEL environment variable (if set)
// 2. Default: gemini-2.5-flash
func GetModelName() string {
	if env := os.Getenv("GEMINI_MODEL"); env != "" {
		return env
	}
	return DefaultModelName
}

// Models selects the model used for each kind of generation.
// Empty fields fall back to the package defaults.
type Models struct {
	Text  string
	Image string
	Photo string // text-to-image (Imagen)
	Video string
}

func (m Models) withDefaults() Models {
	if m.Text == "" {
		m.Text = GetModelName()
	}
	if m.Image == "" {
		m.Image = ModelGemini25FlashImage
	}
	if m.Photo == "" {
		m.Photo = ModelImagen4
	}
	if m.Video == "" {
		m.Video = ModelVeo31Fast
	}
	return m
}

// OptionsFromConfig builds generator options from resolved configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Models: Models{
			Text:  cfg.Gemini.Model,
			Image: cfg.Gemini.ImageModel,
			Photo: cfg.Gemini.ImagenModel,
			Video: cfg.Gemini.VideoModel,
		},
		PollInterval: cfg.Gemini.VideoPollInterval,
		Sanitizer:    sanitize.New(cfg.DenylistTerms()),
	}
}
