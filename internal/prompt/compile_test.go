package prompt

import (
	"strings"
	"testing"

	"github.com/fpang/social-content-toolkit/internal/tools"
)

func mustLookup(t *testing.T, id tools.ID) tools.Descriptor {
	t.Helper()
	d, err := tools.Lookup(id)
	if err != nil {
		t.Fatalf("lookup %s: %v", id, err)
	}
	return d
}

func intPtr(i int) *int { return &i }

func stancePtr(s Stance) *Stance { return &s }

func TestCompile_PersonaAndContract(t *testing.T) {
	d := mustLookup(t, tools.Caption)
	got := Compile(Params{Content: "Sunset at the beach", Tool: tools.Caption}, d).String()

	wantPrefix := "You are an expert Facebook post caption generator. Your task is to generate 5 distinct captions based on the following criteria.\n"
	if !strings.HasPrefix(got, wantPrefix) {
		t.Errorf("unexpected header:\n%s", got)
	}
	if !strings.Contains(got, `Post Content/Topic: "Sunset at the beach"`) {
		t.Error("missing topic frame")
	}
	wantSuffix := "Return the output as a JSON object with a key \"captions\" which is an array of 5 caption strings.\n"
	if !strings.HasSuffix(got, wantSuffix) {
		t.Errorf("missing output contract, got tail:\n%s", got[len(got)-200:])
	}
	if !strings.Contains(got, `"human touch"`) {
		t.Error("missing human touch rule")
	}
}

func TestCompile_Hashtag(t *testing.T) {
	d := mustLookup(t, tools.Hashtag)
	modes := []Mode{
		QuickMode{},
		QuickMode{Level: intPtr(3), Political: true},
		AdvancedMode{Tone: ToneFunny, Context: "ctx", BrandVoice: "bv", Goal: GoalSales},
	}
	for _, mode := range modes {
		for _, emojis := range []bool{true, false} {
			got := Compile(Params{Content: "travel", Tool: tools.Hashtag, Mode: mode, UseEmojis: emojis}, d).String()

			if !strings.Contains(got, "2.  **Tone:** Generate a mix of popular and niche hashtags.\n") {
				t.Errorf("hashtag tone instruction missing for mode %T", mode)
			}
			if !strings.Contains(got, "4.  **Emojis:** Do not include any emojis.\n") {
				t.Errorf("hashtag must never include emojis (useEmojis=%v)", emojis)
			}
			if !strings.Contains(got, "Hashtags must start with '#', contain no spaces") {
				t.Error("missing hashtag format rule")
			}
			if strings.Contains(got, "human touch") {
				t.Error("hashtag prompt must not contain human touch rule")
			}
			if strings.Contains(got, "Advanced Criteria") {
				t.Error("hashtag prompt must not contain advanced criteria")
			}
			if strings.Contains(got, "The tone should be") {
				t.Error("hashtag prompt must not contain a tone sentence")
			}
		}
	}
}

func TestCompile_QuickToneVocabulary(t *testing.T) {
	d := mustLookup(t, tools.Comment)
	tests := []struct {
		level *int
		want  string
	}{
		{intPtr(0), "Formal"},
		{intPtr(1), "Polite and Professional"},
		{intPtr(2), "Friendly and Casual"},
		{intPtr(3), "Funny and Witty"},
		{nil, "Friendly and Casual"},
		{intPtr(7), "Friendly and Casual"},
		{intPtr(-1), "Friendly and Casual"},
	}
	for _, tt := range tests {
		got := Compile(Params{Content: "x", Mode: QuickMode{Level: tt.level}}, d).String()
		want := "2.  **Tone:** The tone should be " + tt.want + ".\n"
		if !strings.Contains(got, want) {
			t.Errorf("level %v: expected %q in prompt", tt.level, want)
		}
	}
}

func TestCompile_QuickPoliticalOverridesLevel(t *testing.T) {
	d := mustLookup(t, tools.Caption)
	got := Compile(Params{Content: "x", Mode: QuickMode{Level: intPtr(0), Political: true}}, d).String()
	if !strings.Contains(got, "The tone should be Political.") {
		t.Error("quick political toggle should force Political tone")
	}
}

func TestCompile_AdvancedToneAndCriteria(t *testing.T) {
	d := mustLookup(t, tools.AdCopy)
	p := Params{
		Content: "Handmade leather wallets",
		Mode:    AdvancedMode{Tone: TonePersuasive, BrandVoice: "Gen Z", Goal: GoalSales},
	}
	got := Compile(p, d).String()

	for _, want := range []string{
		"The tone should be Persuasive.",
		"**Ad Copy Structure:**",
		"- **Additional Context:** None\n",
		"- **Brand Voice:** Gen Z\n",
		"- **Goal:** The primary goal of the ad copys is Sales.\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in prompt", want)
		}
	}
}

func TestCompile_Length(t *testing.T) {
	tests := []struct {
		tool   tools.ID
		length Length
		want   string
	}{
		{tools.Hashtag, LengthShort, "approximately 5-10 hashtags."},
		{tools.Hashtag, LengthMedium, "approximately 10-20 hashtags."},
		{tools.Hashtag, LengthLong, "approximately 20-30+ hashtags."},
		{tools.Bio, LengthShort, "approximately 1-10 words."},
		{tools.Bio, LengthMedium, "approximately 11-30 words."},
		{tools.Bio, LengthLong, "approximately more than 30 words."},
	}
	for _, tt := range tests {
		got := Compile(Params{Content: "x", Length: tt.length}, mustLookup(t, tt.tool)).String()
		if !strings.Contains(got, tt.want) {
			t.Errorf("%s/%s: expected %q", tt.tool, tt.length, tt.want)
		}
	}
}

func TestCompile_Emojis(t *testing.T) {
	d := mustLookup(t, tools.Bio)
	on := Compile(Params{Content: "x", UseEmojis: true}, d).String()
	if !strings.Contains(on, "Include relevant emojis.") {
		t.Error("expected emoji inclusion")
	}
	off := Compile(Params{Content: "x"}, d).String()
	if !strings.Contains(off, "Do not include any emojis.") {
		t.Error("expected emoji exclusion")
	}
}

func TestCompile_StanceAndParty(t *testing.T) {
	d := mustLookup(t, tools.Caption)

	opposed := Params{
		Content: "New policy",
		Mode:    AdvancedMode{Tone: TonePolitical, Goal: GoalEngagement},
		Stance:  stancePtr(StanceOpposed),
		Party:   PartyBNP,
	}
	got := Compile(opposed, d).String()
	if !strings.Contains(got, "7.  **Political Topics:**") {
		t.Error("missing political discourse instruction")
	}
	if !strings.Contains(got, "stance that is **Opposed** the post's topic.") {
		t.Error("missing Opposed stance clause")
	}
	if !strings.Contains(got, "perspective of the **BNP (Bangladesh Nationalist Party)** political party.") {
		t.Error("missing BNP party clause")
	}

	neutral := opposed
	neutral.Stance = stancePtr(StanceNeutral)
	got = Compile(neutral, d).String()
	if !strings.Contains(got, "stance that is **Neutral**") {
		t.Error("missing Neutral stance clause")
	}
	if strings.Contains(got, "perspective of the") {
		t.Error("neutral stance must not emit a party clause")
	}

	none := opposed
	none.Party = PartyNone
	if strings.Contains(Compile(none, d).String(), "perspective of the") {
		t.Error("party None must not emit a party clause")
	}
}

func TestCompile_StanceRequiresPoliticalTone(t *testing.T) {
	d := mustLookup(t, tools.Comment)
	p := Params{
		Content: "x",
		Mode:    AdvancedMode{Tone: ToneFunny, Goal: GoalHumor},
		Stance:  stancePtr(StanceInFavor),
	}
	got := Compile(p, d).String()
	if strings.Contains(got, "Political Stance") {
		t.Error("stance clause emitted for non-political tone")
	}
	if !strings.Contains(got, "Political Topics") {
		t.Error("comment prompt always carries the discourse instruction")
	}
}

func TestCompile_NoDiscourseForOtherTools(t *testing.T) {
	d := mustLookup(t, tools.Bio)
	p := Params{Content: "x", Mode: QuickMode{Political: true}, Stance: stancePtr(StanceInFavor)}
	got := Compile(p, d).String()
	if strings.Contains(got, "Political Topics") || strings.Contains(got, "Political Stance") {
		t.Error("bio prompt must not carry political instructions")
	}
}

func TestCompile_StructureLines(t *testing.T) {
	tests := map[tools.ID]string{
		tools.Idea:         "**Idea Format:**",
		tools.TikTokIdea:   "**Idea Format:**",
		tools.ReelScript:   "**Script Structure:**",
		tools.YouTubeTitle: "**Title Style:**",
	}
	for id, want := range tests {
		if !strings.Contains(Compile(Params{Content: "x"}, mustLookup(t, id)).String(), want) {
			t.Errorf("%s: expected %q", id, want)
		}
	}
	if strings.Contains(Compile(Params{Content: "x"}, mustLookup(t, tools.Bio)).String(), "Structure") {
		t.Error("bio has no structure line")
	}
}

func TestCompile_Deterministic(t *testing.T) {
	d := mustLookup(t, tools.YouTubeDesc)
	p := Params{Content: "Go generics", Mode: AdvancedMode{Tone: ToneFormal, Goal: GoalEducation}, Language: LanguageBengali}
	if Compile(p, d) != Compile(p, d) {
		t.Error("Compile must be deterministic")
	}
}
