package cli

import (
	"errors"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/fpang/social-content-toolkit/internal/auth"
)

// ValidationMessage returns the operator-facing message for a key
// validation failure.
func ValidationMessage(err error) string {
	var validationErr *auth.ValidationError
	if !errors.As(err, &validationErr) {
		return "Unexpected error during API key validation"
	}
	switch validationErr.Type {
	case auth.ErrTypeNoKey:
		return "No API key configured. Set GEMINI_API_KEY or store it GPG-encrypted in ~/.social-content-toolkit"
	case auth.ErrTypeInvalidKey:
		return "Invalid API key. Please check your API key and try again"
	case auth.ErrTypeNetworkError:
		return "Network error. Please check your internet connection"
	case auth.ErrTypeQuotaExceeded:
		return "API quota exceeded. Please try again later or check your usage limits"
	default:
		return "API key validation failed"
	}
}

// HandleValidationError logs err with its message and exits.
func HandleValidationError(err error) {
	log.Fatal().Err(err).Msg(ValidationMessage(err))
	os.Exit(1)
}
