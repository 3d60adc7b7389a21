package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/go-cmp/cmp"
)

var configEnvVars = []string{
	PathEnv, "GEMINI_MODEL", "GEMINI_IMAGE_MODEL", "IMAGEN_MODEL", "VEO_MODEL",
	"PORT", "VIDEO_POLL_INTERVAL", "DOWNLOADER_BASE_URL", "ALLOWED_ORIGINS",
	"ORIGIN_VERIFY_SECRET", "MEDIA_BUCKET_NAME", "ADMIN_TABLE_NAME",
	"ADMIN_DB_CLUSTER_ARN", "ADMIN_DB_SECRET_ARN", "ADMIN_DB_NAME",
}

// isolate clears config env vars and points XDG lookups at an empty directory.
func isolate(t *testing.T) {
	t.Helper()
	for _, k := range configEnvVars {
		t.Setenv(k, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_DIRS", t.TempDir())
	xdg.Reload()
	t.Cleanup(xdg.Reload)
}

func writeFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Defaults()
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	isolate(t)
	path := writeFile(t, `
[gemini]
model = "gemini-2.5-pro"
video_poll_interval = "3s"

[server]
port = 9000
allowed_origins = ["https://app.example.com"]

[admin]
table_name = "admin-from-file"

[sanitizer]
extra_terms = ["spamword"]
`)
	t.Setenv("PORT", "9100")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Source != path {
		t.Errorf("Source = %q, want %q", cfg.Source, path)
	}
	if cfg.Gemini.Model != "gemini-2.5-pro" {
		t.Errorf("file should override default model, got %q", cfg.Gemini.Model)
	}
	if cfg.Gemini.ImageModel != DefaultImageModel {
		t.Errorf("unset file key should keep default, got %q", cfg.Gemini.ImageModel)
	}
	if cfg.Gemini.VideoPollInterval != 3*time.Second {
		t.Errorf("poll interval = %s", cfg.Gemini.VideoPollInterval)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("env should override file port, got %d", cfg.Server.Port)
	}
	if diff := cmp.Diff([]string{"https://a.example.com", "https://b.example.com"}, cfg.Server.AllowedOrigins); diff != "" {
		t.Errorf("origins mismatch (-want +got):\n%s", diff)
	}
	if cfg.Admin.TableName != "admin-from-file" {
		t.Errorf("table = %q", cfg.Admin.TableName)
	}

	terms := cfg.DenylistTerms()
	if terms[len(terms)-1] != "spamword" || len(terms) < 2 {
		t.Errorf("DenylistTerms = %v", terms)
	}
}

func TestLoad_PathFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv(PathEnv, writeFile(t, "[download]\nbase_url = \"http://localhost:9000\"\n"))

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Download.BaseURL != "http://localhost:9000" {
		t.Errorf("BaseURL = %q", cfg.Download.BaseURL)
	}
}

func TestLoad_XDGSearch(t *testing.T) {
	isolate(t)
	home := t.TempDir()
	dir := filepath.Join(home, "social-content-toolkit")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[gemini]\nvideo_model = \"veo-x\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XDG_CONFIG_HOME", home)
	xdg.Reload()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Gemini.VideoModel != "veo-x" {
		t.Errorf("VideoModel = %q, want veo-x", cfg.Gemini.VideoModel)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
	}{
		{name: "bad toml", file: "[gemini\nmodel = 1"},
		{name: "bad port", env: map[string]string{"PORT": "eighty"}},
		{name: "port out of range", env: map[string]string{"PORT": "70000"}},
		{name: "bad poll interval", env: map[string]string{"VIDEO_POLL_INTERVAL": "soon"}},
		{name: "zero poll interval", env: map[string]string{"VIDEO_POLL_INTERVAL": "0s"}},
		{name: "incomplete database", env: map[string]string{"ADMIN_DB_CLUSTER_ARN": "arn:cluster"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeFile(t, tt.file)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}
