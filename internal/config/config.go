// Package config resolves runtime settings from built-in defaults, an
// optional .env file, an optional TOML file, and environment variables,
// in that order of increasing precedence.
//
// The TOML file is taken from the explicit path passed to Load, then
// $SOCIAL_TOOLKIT_CONFIG, then the XDG config search path
// (social-content-toolkit/config.toml).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/fpang/social-content-toolkit/internal/assets"
)

const (
	// PathEnv names the environment variable holding an explicit config file path.
	PathEnv = "SOCIAL_TOOLKIT_CONFIG"

	xdgRelPath = "social-content-toolkit/config.toml"
)

// Defaults for values that have one.
const (
	DefaultModel             = "gemini-2.5-flash"
	DefaultImageModel        = "gemini-2.5-flash-image"
	DefaultImagenModel       = "imagen-4.0-generate-001"
	DefaultVideoModel        = "veo-3.1-fast-generate-preview"
	DefaultPort              = 8080
	DefaultVideoPollInterval = 10 * time.Second
	DefaultDownloaderURL     = "https://api.cobalt.tools"
)

// Config is the resolved runtime configuration.
type Config struct {
	Gemini    GeminiConfig    `toml:"gemini"`
	Server    ServerConfig    `toml:"server"`
	Download  DownloadConfig  `toml:"download"`
	Media     MediaConfig     `toml:"media"`
	Admin     AdminConfig     `toml:"admin"`
	Sanitizer SanitizerConfig `toml:"sanitizer"`

	// Source is the TOML file that was read, or "" when none was.
	Source string `toml:"-"`
}

type GeminiConfig struct {
	Model             string        `toml:"model"`
	ImageModel        string        `toml:"image_model"`
	ImagenModel       string        `toml:"imagen_model"`
	VideoModel        string        `toml:"video_model"`
	VideoPollInterval time.Duration `toml:"video_poll_interval"`
}

type ServerConfig struct {
	Port               int      `toml:"port"`
	AllowedOrigins     []string `toml:"allowed_origins"`
	OriginVerifySecret string   `toml:"origin_verify_secret"`
}

type DownloadConfig struct {
	BaseURL string `toml:"base_url"`
}

// MediaConfig names the S3 bucket for generated photos. Empty keeps
// photos inline in API responses.
type MediaConfig struct {
	Bucket string `toml:"bucket"`
}

// AdminConfig selects the admin store: a DynamoDB table, an Aurora cluster
// through the RDS Data API, or (neither set) the in-memory store.
type AdminConfig struct {
	TableName  string `toml:"table_name"`
	ClusterARN string `toml:"cluster_arn"`
	SecretARN  string `toml:"secret_arn"`
	Database   string `toml:"database"`
}

// SanitizerConfig extends the embedded denylist.
type SanitizerConfig struct {
	ExtraTerms []string `toml:"extra_terms"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() *Config {
	return &Config{
		Gemini: GeminiConfig{
			Model:             DefaultModel,
			ImageModel:        DefaultImageModel,
			ImagenModel:       DefaultImagenModel,
			VideoModel:        DefaultVideoModel,
			VideoPollInterval: DefaultVideoPollInterval,
		},
		Server: ServerConfig{
			Port:           DefaultPort,
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173", "http://localhost:8080"},
		},
		Download: DownloadConfig{BaseURL: DefaultDownloaderURL},
	}
}

// Load resolves the configuration. path may be empty.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Msg("Failed to read .env file, ignoring it")
		}
	} else {
		log.Debug().Msg("Loaded .env file")
	}

	if path == "" {
		path = os.Getenv(PathEnv)
	}
	if path == "" {
		if found, err := xdg.SearchConfigFile(xdgRelPath); err == nil {
			path = found
		}
	}
	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Debug().
		Str("source", cfg.Source).
		Str("model", cfg.Gemini.Model).
		Int("port", cfg.Server.Port).
		Bool("admin_dynamo", cfg.Admin.TableName != "").
		Bool("admin_dataapi", cfg.Admin.ClusterARN != "").
		Msg("Configuration loaded")
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		log.Warn().Str("file", path).Interface("keys", undecoded).Msg("Unknown keys in config file")
	}
	c.Source = path
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Gemini.Model, "GEMINI_MODEL")
	setString(&c.Gemini.ImageModel, "GEMINI_IMAGE_MODEL")
	setString(&c.Gemini.ImagenModel, "IMAGEN_MODEL")
	setString(&c.Gemini.VideoModel, "VEO_MODEL")
	setString(&c.Download.BaseURL, "DOWNLOADER_BASE_URL")
	setString(&c.Server.OriginVerifySecret, "ORIGIN_VERIFY_SECRET")
	setString(&c.Media.Bucket, "MEDIA_BUCKET_NAME")
	setString(&c.Admin.TableName, "ADMIN_TABLE_NAME")
	setString(&c.Admin.ClusterARN, "ADMIN_DB_CLUSTER_ARN")
	setString(&c.Admin.SecretARN, "ADMIN_DB_SECRET_ARN")
	setString(&c.Admin.Database, "ADMIN_DB_NAME")

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("VIDEO_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid VIDEO_POLL_INTERVAL %q: %w", v, err)
		}
		c.Gemini.VideoPollInterval = d
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}
	return nil
}

// Validate checks values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Server.Port)
	}
	if c.Gemini.VideoPollInterval <= 0 {
		return fmt.Errorf("video poll interval must be positive, got %s", c.Gemini.VideoPollInterval)
	}
	if c.Admin.ClusterARN != "" && (c.Admin.SecretARN == "" || c.Admin.Database == "") {
		return errors.New("admin database requires cluster ARN, secret ARN and database name")
	}
	return nil
}

// DenylistTerms returns the embedded denylist plus any configured extra terms.
func (c *Config) DenylistTerms() []string {
	return append(assets.Denylist(), c.Sanitizer.ExtraTerms...)
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
