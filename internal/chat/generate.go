// Package chat sends compiled prompts to the Gemini API and turns the
// model's replies into sanitized results. It also generates photos
// (Gemini image / Imagen) and videos (Veo) for the media tools.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fpang/social-content-toolkit/internal/assets"
	"github.com/fpang/social-content-toolkit/internal/auth"
	"github.com/fpang/social-content-toolkit/internal/jsonutil"
	"github.com/fpang/social-content-toolkit/internal/metrics"
	"github.com/fpang/social-content-toolkit/internal/prompt"
	"github.com/fpang/social-content-toolkit/internal/sanitize"
	"github.com/fpang/social-content-toolkit/internal/tools"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

const (
	temperature = 0.9
	topP        = 0.9
)

var (
	// ErrEmptyResponse means the reply contained no JSON object.
	ErrEmptyResponse = errors.New("model response contained no JSON object")

	// ErrMalformedResponse means the extracted JSON object did not parse.
	ErrMalformedResponse = errors.New("model response JSON could not be parsed")

	// ErrUpstream means the request to the model failed.
	ErrUpstream = errors.New("generation request failed")

	// ErrNoAPIKey is returned by photo and video generation when no key is configured.
	ErrNoAPIKey = errors.New("Gemini API key is not configured")
)

// GenerationError is the caller-facing failure for a text generation.
// Its message is generic; errors.Is reaches the sentinel (ErrEmptyResponse,
// ErrMalformedResponse or ErrUpstream) and the underlying cause.
type GenerationError struct {
	Noun  string
	Kind  error
	Cause error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("Failed to generate %ss. Please try again.", e.Noun)
}

func (e *GenerationError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// Result is the ordered list of generated strings. Five are requested but
// the count is not guaranteed; an empty list means nothing usable came back.
type Result struct {
	Items       []string `json:"items"`
	Placeholder bool     `json:"placeholder"`
}

// Options configures a Generator.
type Options struct {
	Models       Models
	PollInterval time.Duration
	Sanitizer    *sanitize.Sanitizer // nil uses sanitize.Default()
}

// Generator issues generation requests. It holds no mutable state and is
// safe for concurrent use.
type Generator struct {
	models       modelAPI // nil in placeholder mode
	ops          operationsAPI
	names        Models
	pollInterval time.Duration
	sanitizer    *sanitize.Sanitizer
}

// NewGenerator creates a Generator. An empty apiKey yields a Generator in
// placeholder mode: text generation returns fixed strings and media
// generation returns ErrNoAPIKey.
func NewGenerator(ctx context.Context, apiKey string, opts Options) (*Generator, error) {
	if apiKey == "" {
		log.Warn().Msg("No Gemini API key configured; text generation will return placeholder output")
		return newGenerator(nil, nil, opts), nil
	}
	client, err := NewGeminiClient(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	return newGenerator(client.Models, client.Operations, opts), nil
}

func newGenerator(models modelAPI, ops operationsAPI, opts Options) *Generator {
	g := &Generator{
		models:       models,
		ops:          ops,
		names:        opts.Models.withDefaults(),
		pollInterval: opts.PollInterval,
		sanitizer:    opts.Sanitizer,
	}
	if g.pollInterval <= 0 {
		g.pollInterval = DefaultPollInterval
	}
	if g.sanitizer == nil {
		g.sanitizer = sanitize.Default()
	}
	return g
}

// Placeholder reports whether the Generator has no API key.
func (g *Generator) Placeholder() bool {
	return g.models == nil
}

// TextModel returns the model used for text generation.
func (g *Generator) TextModel() string {
	return g.names.Text
}

// Generate sends one request for the compiled prompt and returns the
// sanitized strings found under the descriptor's result key. An image in
// p is forwarded only when the tool accepts images.
func (g *Generator) Generate(ctx context.Context, compiled prompt.Compiled, p prompt.Params, d tools.Descriptor) (Result, error) {
	start := time.Now()

	if g.models == nil {
		log.Error().Str("tool", string(d.ID)).Msg("Gemini API key is missing; returning placeholder output")
		res := Result{
			Items: []string{
				fmt.Sprintf("This is a mock %s because the API key is missing.", d.Noun),
				fmt.Sprintf("Here is another example %s.", d.Noun),
			},
			Placeholder: true,
		}
		recordGeneration(d.ID, "placeholder", start, len(res.Items))
		return res, nil
	}

	text := compiled.String()
	var imagePart *genai.Part
	if p.Image != nil && d.AcceptsImage {
		data, err := p.Image.Decode()
		if err != nil {
			return Result{}, fmt.Errorf("%w: %v", prompt.ErrInvalidParams, err)
		}
		text += assets.RenderImageContext(d.Noun)
		imagePart = &genai.Part{InlineData: &genai.Blob{MIMEType: p.Image.MIMEType, Data: data}}
	}

	parts := []*genai.Part{{Text: text}}
	if imagePart != nil {
		parts = append(parts, imagePart)
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](temperature),
		TopP:             genai.Ptr[float32](topP),
		ResponseMIMEType: "application/json",
		ResponseSchema:   resultSchema(d.ResultKey),
	}

	log.Debug().
		Str("tool", string(d.ID)).
		Str("model", g.names.Text).
		Int("prompt_length", len(text)).
		Bool("with_image", imagePart != nil).
		Msg("Sending generation request to Gemini")

	resp, err := g.models.GenerateContent(ctx, g.names.Text, contents, config)
	if err != nil {
		valErr := auth.ClassifyError(err)
		log.Error().
			Err(err).
			Str("tool", string(d.ID)).
			Stringer("error_type", valErr.Type).
			Dur("duration", time.Since(start)).
			Msg("Gemini generation request failed")
		recordGeneration(d.ID, "upstream_error", start, 0)
		return Result{}, &GenerationError{Noun: d.Noun, Kind: ErrUpstream, Cause: err}
	}

	raw := responseText(resp)
	items, err := parseItems(raw, d.ResultKey)
	if err != nil {
		kind := ErrMalformedResponse
		result := "malformed"
		if errors.Is(err, ErrEmptyResponse) {
			kind = ErrEmptyResponse
			result = "empty"
		}
		log.Error().
			Err(err).
			Str("tool", string(d.ID)).
			Str("response_preview", truncate(raw, 200)).
			Msg("Could not parse Gemini response")
		recordGeneration(d.ID, result, start, 0)
		return Result{}, &GenerationError{Noun: d.Noun, Kind: kind, Cause: err}
	}

	for i, item := range items {
		items[i] = g.sanitizer.Sanitize(item)
	}

	if len(items) == 0 {
		items = []string{}
		log.Warn().Str("tool", string(d.ID)).Str("key", d.ResultKey).Msg("Gemini response had no items under the result key")
	}
	log.Info().
		Str("tool", string(d.ID)).
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("Generation complete")
	recordGeneration(d.ID, "success", start, len(items))

	return Result{Items: items}, nil
}

// resultSchema describes {key: [string]}.
func resultSchema(key string) *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			key: {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{key},
	}
}

// responseText concatenates the non-thought text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// parseItems extracts the string array under key. A missing key or a
// non-array value yields nil without error; non-string elements are skipped.
func parseItems(raw, key string) ([]string, error) {
	obj := jsonutil.ExtractObject(jsonutil.StripMarkdownFences(raw))
	if obj == "" {
		return nil, ErrEmptyResponse
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(obj), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	value, ok := fields[key]
	if !ok {
		return nil, nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(value, &elems); err != nil {
		return nil, nil
	}

	items := make([]string, 0, len(elems))
	for _, el := range elems {
		var s string
		if err := json.Unmarshal(el, &s); err == nil {
			items = append(items, s)
		}
	}
	return items, nil
}

func recordGeneration(tool tools.ID, result string, start time.Time, items int) {
	metrics.New(metrics.Namespace).
		Dimension("Tool", string(tool)).
		Dimension("Result", result).
		Metric("GenerationLatencyMs", float64(time.Since(start).Milliseconds()), metrics.UnitMilliseconds).
		Metric("GenerationItems", float64(items), metrics.UnitCount).
		Count("GenerationCount").
		Flush()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
