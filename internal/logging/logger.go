// Package logging configures the global zerolog logger and emits the
// structured cold-start summary for Lambda.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LevelEnv names the environment variable that selects the log level.
const LevelEnv = "GEMINI_LOG_LEVEL"

// Init configures the global logger for terminal use: human-readable
// console output on stderr. GEMINI_LOG_LEVEL controls the log level:
// debug, info, warn, error (default: info).
func Init() {
	InitWithWriter(zerolog.ConsoleWriter{Out: os.Stderr})
}

// InitJSON configures the global logger to write structured JSON to
// stderr, which CloudWatch ingests line by line.
func InitJSON() {
	InitWithWriter(os.Stderr)
}

// InitWithWriter sets the global level from GEMINI_LOG_LEVEL and routes
// the global logger to w.
func InitWithWriter(w io.Writer) {
	zerolog.SetGlobalLevel(ParseLevel(os.Getenv(LevelEnv)))
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Truncate shortens s to at most n bytes for log fields, marking the cut.
func Truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n] + "...(truncated)"
}
