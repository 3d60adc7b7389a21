package prompt

import (
	"fmt"
	"strings"

	"github.com/fpang/social-content-toolkit/internal/tools"
)

// Request is the flat wire form of Params used by the HTTP API, the CLI
// and the MCP server. Enum fields accept the literal value or a
// case-insensitive match; lengths also accept "short", "medium", "long".
type Request struct {
	Content    string `json:"content"`
	Tool       string `json:"tool"`
	Image      *Image `json:"image,omitempty"`
	Length     string `json:"length,omitempty"`
	Language   string `json:"language,omitempty"`
	UseEmojis  bool   `json:"useEmojis"`
	Advanced   bool   `json:"isAdvancedMode"`
	Tone       string `json:"tone,omitempty"`
	Context    string `json:"context,omitempty"`
	BrandVoice string `json:"brandVoice,omitempty"`
	Goal       string `json:"goal,omitempty"`
	ToneLevel  *int   `json:"toneSliderLevel,omitempty"`
	Political  bool   `json:"isPoliticalQuickToggle,omitempty"`
	Stance     string `json:"stance,omitempty"`
	Party      string `json:"politicalParty,omitempty"`
	Username   string `json:"username,omitempty"`
}

// Params converts the request, parsing enum literals. Stance and party
// are only carried over when the resolved tone is political.
func (r Request) Params() (Params, error) {
	p := Params{
		Content:   r.Content,
		Tool:      tools.ID(strings.ToLower(strings.TrimSpace(r.Tool))),
		Image:     r.Image,
		UseEmojis: r.UseEmojis,
	}

	var err error
	if p.Length, err = ParseLength(r.Length); err != nil {
		return Params{}, err
	}
	if p.Language, err = parseEnum("language", r.Language, Languages); err != nil {
		return Params{}, err
	}

	if r.Advanced {
		adv := AdvancedMode{Context: r.Context, BrandVoice: r.BrandVoice}
		if adv.Tone, err = parseEnum("tone", r.Tone, Tones); err != nil {
			return Params{}, err
		}
		if adv.Goal, err = parseEnum("goal", r.Goal, Goals); err != nil {
			return Params{}, err
		}
		p.Mode = adv
	} else {
		p.Mode = QuickMode{Level: r.ToneLevel, Political: r.Political}
	}

	if p.Political() && r.Stance != "" {
		s, err := parseEnum("stance", r.Stance, Stances)
		if err != nil {
			return Params{}, err
		}
		p.Stance = &s
		if p.Party, err = parseEnum("political party", r.Party, Parties); err != nil {
			return Params{}, err
		}
	}

	return p.Defaults(), nil
}

// ParseLength accepts a Length literal or its first word.
func ParseLength(s string) (Length, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	for _, l := range Lengths {
		word, _, _ := strings.Cut(string(l), " ")
		if strings.EqualFold(s, string(l)) || strings.EqualFold(s, word) {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: unknown length %q", ErrInvalidParams, s)
}

// ParseTone parses a tone name.
func ParseTone(s string) (Tone, error) { return parseEnum("tone", s, Tones) }

// ParseStance parses a stance name.
func ParseStance(s string) (Stance, error) { return parseEnum("stance", s, Stances) }

// ParseParty parses a political party name.
func ParseParty(s string) (Party, error) { return parseEnum("political party", s, Parties) }

// ParseGoal parses a goal name.
func ParseGoal(s string) (Goal, error) { return parseEnum("goal", s, Goals) }

// ParseLanguage parses a language name.
func ParseLanguage(s string) (Language, error) { return parseEnum("language", s, Languages) }

// parseEnum matches s case-insensitively against values. An empty s is
// returned as the zero value so Defaults can fill it.
func parseEnum[T ~string](kind, s string, values []T) (T, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	for _, v := range values {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: unknown %s %q", ErrInvalidParams, kind, s)
}
