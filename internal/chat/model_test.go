package chat

import (
	"testing"
	"time"

	"github.com/fpang/social-content-toolkit/internal/config"
)

func TestGetModelName(t *testing.T) {
	t.Setenv("GEMINI_MODEL", "")
	if got := GetModelName(); got != DefaultModelName {
		t.Errorf("GetModelName() = %q, want %q", got, DefaultModelName)
	}
	t.Setenv("GEMINI_MODEL", ModelGemini25Pro)
	if got := GetModelName(); got != ModelGemini25Pro {
		t.Errorf("GetModelName() = %q, want %q", got, ModelGemini25Pro)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Gemini.Model = ModelGemini25Pro
	cfg.Gemini.VideoPollInterval = 3 * time.Second
	cfg.Sanitizer.ExtraTerms = []string{"frobnicate"}

	opts := OptionsFromConfig(cfg)
	if opts.Models.Text != ModelGemini25Pro || opts.Models.Photo != ModelImagen4 || opts.Models.Video != ModelVeo31Fast {
		t.Errorf("models = %+v", opts.Models)
	}
	if opts.PollInterval != 3*time.Second {
		t.Errorf("poll interval = %v", opts.PollInterval)
	}
	if got := opts.Sanitizer.Sanitize("please frobnicate badword1"); got != "please **** ****" {
		t.Errorf("sanitized = %q", got)
	}
}
