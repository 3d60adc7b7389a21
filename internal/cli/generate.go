// Package cli holds helpers shared by the terminal front ends: generator
// setup, interactive prompts, the image picker and result formatting.
package cli

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/fpang/social-content-toolkit/internal/chat"
	"github.com/fpang/social-content-toolkit/internal/prompt"
	"github.com/fpang/social-content-toolkit/internal/tools"
)

// Generator is implemented by *chat.Generator.
type Generator interface {
	Generate(ctx context.Context, compiled prompt.Compiled, p prompt.Params, d tools.Descriptor) (chat.Result, error)
}

// Run resolves, validates and compiles req, then generates with gen.
// The returned descriptor is valid whenever the tool lookup succeeded.
func Run(ctx context.Context, gen Generator, req prompt.Request) (tools.Descriptor, chat.Result, error) {
	p, err := req.Params()
	if err != nil {
		return tools.Descriptor{}, chat.Result{}, err
	}
	d, err := tools.Lookup(p.Tool)
	if err != nil {
		return tools.Descriptor{}, chat.Result{}, err
	}
	if !p.HasInput() {
		return d, chat.Result{}, prompt.ErrEmptyInput
	}
	if err := p.Validate(); err != nil {
		return d, chat.Result{}, err
	}

	compiled := prompt.Compile(p, d)
	log.Debug().
		Str("tool", string(d.ID)).
		Int("promptLength", len(compiled)).
		Bool("hasImage", p.Image != nil).
		Msg("Generating content")

	res, err := gen.Generate(ctx, compiled, p, d)
	return d, res, err
}
