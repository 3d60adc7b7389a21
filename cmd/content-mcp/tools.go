package main

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"github.com/fpang/social-content-toolkit/internal/cli"
	"github.com/fpang/social-content-toolkit/internal/prompt"
	"github.com/fpang/social-content-toolkit/internal/tools"
)

type toolHandlers struct {
	gen cli.Generator
}

type generateInput struct {
	Tool       string `json:"tool" jsonschema:"content tool id, e.g. caption, comment, hashtag, ad-copy"`
	Content    string `json:"content" jsonschema:"what the post or reply is about"`
	ToneLevel  *int   `json:"toneLevel,omitempty" jsonschema:"quick-mode tone level from 0 (Formal) to 3 (Funny and Witty)"`
	Political  bool   `json:"political,omitempty" jsonschema:"quick mode: use the political discourse tone"`
	Stance     string `json:"stance,omitempty" jsonschema:"political stance: In Favor, Opposed or Neutral"`
	Party      string `json:"party,omitempty" jsonschema:"political party the stance is written from"`
	Advanced   bool   `json:"advanced,omitempty" jsonschema:"use tone, goal, context and brand voice instead of the tone level"`
	Tone       string `json:"tone,omitempty" jsonschema:"advanced-mode tone"`
	Goal       string `json:"goal,omitempty" jsonschema:"advanced-mode goal"`
	Context    string `json:"context,omitempty" jsonschema:"advanced-mode background context"`
	BrandVoice string `json:"brandVoice,omitempty" jsonschema:"advanced-mode brand voice"`
	Length     string `json:"length,omitempty" jsonschema:"short, medium or long"`
	Language   string `json:"language,omitempty" jsonschema:"output language"`
	UseEmojis  bool   `json:"useEmojis,omitempty" jsonschema:"include emojis"`
}

func (in generateInput) request() prompt.Request {
	return prompt.Request{
		Content:    in.Content,
		Tool:       in.Tool,
		Length:     in.Length,
		Language:   in.Language,
		UseEmojis:  in.UseEmojis,
		Advanced:   in.Advanced,
		Tone:       in.Tone,
		Context:    in.Context,
		BrandVoice: in.BrandVoice,
		Goal:       in.Goal,
		ToneLevel:  in.ToneLevel,
		Political:  in.Political,
		Stance:     in.Stance,
		Party:      in.Party,
	}
}

type generateOutput struct {
	Tool        string   `json:"tool"`
	Items       []string `json:"items"`
	Placeholder bool     `json:"placeholder"`
}

func (h *toolHandlers) generate(ctx context.Context, _ *mcp.CallToolRequest, in generateInput) (*mcp.CallToolResult, generateOutput, error) {
	d, res, err := cli.Run(ctx, h.gen, in.request())
	if err != nil {
		log.Warn().Err(err).Str("tool", in.Tool).Msg("generate_content failed")
		return nil, generateOutput{}, err
	}

	out := generateOutput{Tool: string(d.ID), Items: res.Items, Placeholder: res.Placeholder}
	if out.Items == nil {
		out.Items = []string{}
	}
	text := strings.Join(out.Items, "\n\n")
	if text == "" {
		text = "No " + d.Noun + "s were generated. Try rephrasing the content."
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, out, nil
}

type listToolsInput struct{}

type toolSummary struct {
	ID           string   `json:"id"`
	Noun         string   `json:"noun"`
	AcceptsImage bool     `json:"acceptsImage"`
	Political    bool     `json:"politicalDiscourse"`
	Tones        []string `json:"tones"`
}

type listToolsOutput struct {
	Tools      []toolSummary `json:"tools"`
	QuickTones []string      `json:"quickTones"`
	Lengths    []string      `json:"lengths"`
	Languages  []string      `json:"languages"`
	Goals      []string      `json:"goals"`
	Stances    []string      `json:"stances"`
	Parties    []string      `json:"parties"`
}

func (h *toolHandlers) listTools(_ context.Context, _ *mcp.CallToolRequest, _ listToolsInput) (*mcp.CallToolResult, listToolsOutput, error) {
	out := listToolsOutput{
		QuickTones: prompt.QuickTones[:],
		Lengths:    toStrings(prompt.Lengths),
		Languages:  toStrings(prompt.Languages),
		Goals:      toStrings(prompt.Goals),
		Stances:    toStrings(prompt.Stances),
		Parties:    toStrings(prompt.Parties),
	}
	for _, d := range tools.All() {
		out.Tools = append(out.Tools, toolSummary{
			ID:           string(d.ID),
			Noun:         d.Noun,
			AcceptsImage: d.AcceptsImage,
			Political:    d.PoliticalDiscourse,
			Tones:        toStrings(prompt.TonesFor(d.ID)),
		})
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, listToolsOutput{}, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, out, nil
}

func toStrings[T ~string](values []T) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, string(v))
	}
	return out
}
