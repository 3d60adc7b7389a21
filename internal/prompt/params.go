package prompt

import (
	"encoding/base64"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/fpang/social-content-toolkit/internal/tools"
)

// Tone is the literal tone name sent to the model in advanced mode.
type Tone string

const (
	ToneFriendly      Tone = "Friendly"
	ToneFunny         Tone = "Funny"
	ToneFormal        Tone = "Formal"
	ToneEmotional     Tone = "Emotional"
	TonePolitical     Tone = "Political"
	ToneIslamic       Tone = "Islamic"
	ToneSupportive    Tone = "Supportive"
	ToneDisagreeing   Tone = "Disagreeing"
	ToneWitty         Tone = "Witty"
	ToneInspirational Tone = "Inspirational"
	TonePersuasive    Tone = "Persuasive"
	ToneUrgent        Tone = "Urgent"
	ToneDramatic      Tone = "Dramatic"
	ToneEducational   Tone = "Educational"
)

// Length is the requested output size.
type Length string

const (
	LengthShort  Length = "Short (1-10 words)"
	LengthMedium Length = "Medium (11-30 words)"
	LengthLong   Length = "Long (30+ words)"
)

// Language is the output language.
type Language string

const (
	LanguageEnglish Language = "English"
	LanguageBengali Language = "Bengali"
)

// Goal is the primary objective stated in the advanced criteria block.
type Goal string

const (
	GoalEngagement      Goal = "Engagement"
	GoalHumor           Goal = "Humor"
	GoalEmotionalImpact Goal = "Emotional Impact"
	GoalEducation       Goal = "Education"
	GoalSales           Goal = "Sales"
)

// Stance is the political alignment relative to the post's topic.
type Stance string

const (
	StanceInFavor Stance = "In Favor"
	StanceOpposed Stance = "Opposed"
	StanceNeutral Stance = "Neutral"
)

// Party is the political party whose perspective a stance is written from.
type Party string

const (
	PartyNone         Party = "None / General"
	PartyAwamiLeague  Party = "Awami League"
	PartyBNP          Party = "BNP (Bangladesh Nationalist Party)"
	PartyJatiya       Party = "Jatiya Party"
	PartyJamaatShibir Party = "Jamaat/Shibir"
	PartyNCP          Party = "NCP"
)

var (
	Tones     = []Tone{ToneFriendly, ToneFunny, ToneFormal, ToneEmotional, TonePolitical, ToneIslamic, ToneSupportive, ToneDisagreeing, ToneWitty, ToneInspirational, TonePersuasive, ToneUrgent, ToneDramatic, ToneEducational}
	Lengths   = []Length{LengthShort, LengthMedium, LengthLong}
	Languages = []Language{LanguageEnglish, LanguageBengali}
	Goals     = []Goal{GoalEngagement, GoalHumor, GoalEmotionalImpact, GoalEducation, GoalSales}
	Stances   = []Stance{StanceInFavor, StanceOpposed, StanceNeutral}
	Parties   = []Party{PartyNone, PartyAwamiLeague, PartyBNP, PartyJatiya, PartyJamaatShibir, PartyNCP}
)

// QuickTones is the quick-mode tone vocabulary, indexed by slider level.
var QuickTones = [...]string{"Formal", "Polite and Professional", "Friendly and Casual", "Funny and Witty"}

// DefaultToneLevel is used when a quick-mode request carries no level.
const DefaultToneLevel = 2

var (
	captionTones = []Tone{ToneFriendly, ToneFunny, ToneFormal, ToneEmotional, TonePolitical, ToneIslamic}
	commentTones = []Tone{ToneFriendly, ToneFunny, ToneSupportive, ToneDisagreeing, ToneFormal, ToneEmotional, TonePolitical, ToneIslamic}
	bioTones     = []Tone{ToneFriendly, ToneFunny, ToneFormal, ToneWitty, ToneInspirational}
	adCopyTones  = []Tone{ToneFriendly, ToneFunny, ToneFormal, TonePersuasive, ToneUrgent}
	contentTones = []Tone{ToneFriendly, ToneFunny, ToneDramatic, ToneEducational, ToneInspirational}
)

// TonesFor returns the advanced-mode tones offered for a tool. The
// hashtag tool has none.
func TonesFor(id tools.ID) []Tone {
	switch id {
	case tools.Caption, tools.Idea, tools.YouTubeDesc:
		return captionTones
	case tools.Comment:
		return commentTones
	case tools.Bio:
		return bioTones
	case tools.AdCopy, tools.YouTubeTitle:
		return adCopyTones
	case tools.ReelScript, tools.TikTokIdea:
		return contentTones
	default:
		return nil
	}
}

// Image is an attached image: a MIME type and base64 payload.
type Image struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// Decode returns the raw image bytes. A data URL prefix is tolerated.
func (img Image) Decode() ([]byte, error) {
	data := img.Data
	if i := strings.Index(data, ";base64,"); i >= 0 && strings.HasPrefix(data, "data:") {
		data = data[i+len(";base64,"):]
	}
	b, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return b, nil
}

// Mode is either QuickMode or AdvancedMode.
type Mode interface {
	isMode()
}

// QuickMode exposes a single 4-level tone slider plus a political toggle.
type QuickMode struct {
	Level     *int // nil means DefaultToneLevel
	Political bool
}

// AdvancedMode exposes the full tone enum, free-form context, brand voice and goal.
type AdvancedMode struct {
	Tone       Tone
	Context    string
	BrandVoice string
	Goal       Goal
}

func (QuickMode) isMode()    {}
func (AdvancedMode) isMode() {}

// Params describes one generation request.
type Params struct {
	Content   string
	Tool      tools.ID
	Image     *Image
	Mode      Mode
	Length    Length
	Language  Language
	UseEmojis bool

	// Stance and Party are only meaningful when the resolved tone is political.
	Stance *Stance
	Party  Party
}

var (
	// ErrInvalidParams is wrapped by every validation failure.
	ErrInvalidParams = errors.New("invalid generation parameters")

	// ErrInvalidToneLevel is returned for a quick-mode level outside 0..3.
	ErrInvalidToneLevel = fmt.Errorf("%w: tone level must be between 0 and %d", ErrInvalidParams, len(QuickTones)-1)

	// ErrEmptyInput is returned by callers that require content or an image.
	ErrEmptyInput = fmt.Errorf("%w: content or image is required", ErrInvalidParams)
)

// Defaults fills zero-valued fields with the values the UI starts with.
func (p Params) Defaults() Params {
	if p.Mode == nil {
		p.Mode = QuickMode{}
	}
	if p.Length == "" {
		p.Length = LengthMedium
	}
	if p.Language == "" {
		p.Language = LanguageEnglish
	}
	if adv, ok := p.Mode.(AdvancedMode); ok {
		if adv.Tone == "" {
			adv.Tone = ToneFriendly
		}
		if adv.Goal == "" {
			adv.Goal = GoalEngagement
		}
		p.Mode = adv
	}
	return p
}

// Political reports whether the resolved tone is political.
func (p Params) Political() bool {
	switch m := p.Mode.(type) {
	case AdvancedMode:
		return m.Tone == TonePolitical
	case QuickMode:
		return m.Political
	}
	return false
}

// HasInput reports whether there is content or an attached image to work from.
func (p Params) HasInput() bool {
	return strings.TrimSpace(p.Content) != "" || (p.Image != nil && p.Image.Data != "")
}

// Validate checks enum membership and structural invariants. It does not
// require non-empty content; see HasInput.
func (p Params) Validate() error {
	switch m := p.Mode.(type) {
	case nil:
	case QuickMode:
		if m.Level != nil && (*m.Level < 0 || *m.Level >= len(QuickTones)) {
			return ErrInvalidToneLevel
		}
	case AdvancedMode:
		if !slices.Contains(Tones, m.Tone) {
			return fmt.Errorf("%w: unknown tone %q", ErrInvalidParams, m.Tone)
		}
		if m.Goal != "" && !slices.Contains(Goals, m.Goal) {
			return fmt.Errorf("%w: unknown goal %q", ErrInvalidParams, m.Goal)
		}
	}
	if p.Length != "" && !slices.Contains(Lengths, p.Length) {
		return fmt.Errorf("%w: unknown length %q", ErrInvalidParams, p.Length)
	}
	if p.Language != "" && !slices.Contains(Languages, p.Language) {
		return fmt.Errorf("%w: unknown language %q", ErrInvalidParams, p.Language)
	}
	if p.Stance != nil {
		if !slices.Contains(Stances, *p.Stance) {
			return fmt.Errorf("%w: unknown stance %q", ErrInvalidParams, *p.Stance)
		}
		if !p.Political() {
			return fmt.Errorf("%w: stance requires a political tone", ErrInvalidParams)
		}
	}
	if p.Party != "" {
		if !slices.Contains(Parties, p.Party) {
			return fmt.Errorf("%w: unknown political party %q", ErrInvalidParams, p.Party)
		}
		if p.Stance == nil && p.Party != PartyNone {
			return fmt.Errorf("%w: political party requires a stance", ErrInvalidParams)
		}
	}
	if p.Image != nil {
		if p.Image.MIMEType == "" {
			return fmt.Errorf("%w: image mimeType is required", ErrInvalidParams)
		}
		if _, err := p.Image.Decode(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}
	}
	return nil
}
