package cli

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/fpang/social-content-toolkit/internal/auth"
	"github.com/fpang/social-content-toolkit/internal/chat"
	"github.com/fpang/social-content-toolkit/internal/config"
)

// InitGenerator resolves the API key and creates a Generator from cfg.
// A missing key is not fatal: the Generator runs in placeholder mode.
// When validate is set and a key exists, the key is checked with a minimal
// request first and a failure exits with a message for the failure kind.
func InitGenerator(ctx context.Context, cfg *config.Config, validate bool) *chat.Generator {
	apiKey, err := auth.GetAPIKey()
	if err != nil {
		log.Warn().Err(err).Msg("Continuing without a Gemini API key")
		apiKey = ""
	}

	if validate && apiKey != "" {
		client, err := chat.NewGeminiClient(ctx, apiKey)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create Gemini client")
		}
		if err := auth.ValidateAPIKey(ctx, client, cfg.Gemini.Model); err != nil {
			HandleValidationError(err)
		}
		log.Info().Msg("API key validation complete - ready for operations")
	}

	gen, err := chat.NewGenerator(ctx, apiKey, chat.OptionsFromConfig(cfg))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create generator")
	}
	return gen
}
