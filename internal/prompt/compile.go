// Package prompt turns a generation request into the instruction text sent
// to the model.
//
// Compile is a pure function of Params and a tools.Descriptor. It never
// performs I/O and never fails: invalid input is rejected earlier by
// Params.Validate, and the few remaining gaps (an undefined quick-mode
// level) resolve to documented defaults.
package prompt

import (
	"fmt"
	"strings"

	"github.com/fpang/social-content-toolkit/internal/tools"
)

// Compiled is the final prompt text for one generation call.
type Compiled string

func (c Compiled) String() string { return string(c) }

// Compile builds the prompt for p using the descriptor's persona, framing
// and structure. The result ends with the JSON output contract.
func Compile(p Params, d tools.Descriptor) Compiled {
	p = p.Defaults()
	noun := d.Noun
	tone, political := resolveTone(p.Mode, d)

	var b strings.Builder

	fmt.Fprintf(&b, "You are an expert %s. Your task is to generate 5 distinct %ss based on the following criteria.\n", d.Persona, noun)

	if d.IsHashtag() {
		b.WriteString("\n**IMPORTANT RULE: Hashtags must start with '#', contain no spaces, and be relevant to the topic.**\n")
	} else {
		fmt.Fprintf(&b, "\n**IMPORTANT RULE: Your highest priority is to generate %ss with a \"human touch\". They must sound natural, authentic, and not robotic. Use conversational language, varied sentence structures, and avoid generic phrases.**\n", noun)
	}

	if d.Structure != "" {
		fmt.Fprintf(&b, "\n%s\n", d.Structure)
	}

	fmt.Fprintf(&b, "\n%s\n", d.Frame(p.Content))

	b.WriteString("\n**Instructions:**\n")
	fmt.Fprintf(&b, "1.  **Language:** Generate the %ss in %s.\n", noun, p.Language)
	fmt.Fprintf(&b, "2.  **Tone:** %s\n", tone)
	fmt.Fprintf(&b, "3.  **Length:** Generate a list of %ss. The total number of %ss should be approximately %s.\n", noun, noun, lengthInstruction(p.Length, d))
	fmt.Fprintf(&b, "4.  **Emojis:** %s\n", emojiInstruction(p.UseEmojis, d))
	fmt.Fprintf(&b, "5.  **Variety:** Ensure the %ss are unique and varied.\n", noun)
	b.WriteString("6.  **Filter:** Do not use any profane, offensive, or inappropriate language.\n")

	if d.PoliticalDiscourse {
		fmt.Fprintf(&b, "7.  **Political Topics:** Generate constructive and respectful %ss. Avoid inflammatory language, personal attacks, and hate speech.\n", noun)
		if political && p.Stance != nil {
			fmt.Fprintf(&b, "8.  **Political Stance:** %s\n", stanceInstruction(noun, *p.Stance, p.Party))
		}
	}

	if adv, ok := p.Mode.(AdvancedMode); ok && !d.IsHashtag() {
		b.WriteString("\n**Advanced Criteria:**\n")
		fmt.Fprintf(&b, "- **Additional Context:** %s\n", orNone(adv.Context))
		fmt.Fprintf(&b, "- **Brand Voice:** %s\n", orNone(adv.BrandVoice))
		fmt.Fprintf(&b, "- **Goal:** The primary goal of the %ss is %s.\n", noun, adv.Goal)
	}

	fmt.Fprintf(&b, "\nReturn the output as a JSON object with a key %q which is an array of 5 %s strings.\n", d.ResultKey, noun)

	return Compiled(b.String())
}

// resolveTone is the single place a Mode becomes a tone instruction. The
// second result reports whether the tone is political.
func resolveTone(mode Mode, d tools.Descriptor) (string, bool) {
	if d.IsHashtag() {
		return "Generate a mix of popular and niche hashtags.", false
	}
	switch m := mode.(type) {
	case AdvancedMode:
		return fmt.Sprintf("The tone should be %s.", m.Tone), m.Tone == TonePolitical
	case QuickMode:
		if m.Political {
			return "The tone should be Political.", true
		}
		return fmt.Sprintf("The tone should be %s.", QuickTones[quickLevel(m.Level)]), false
	default:
		return fmt.Sprintf("The tone should be %s.", QuickTones[DefaultToneLevel]), false
	}
}

// quickLevel returns the slider index, defaulting undefined or
// out-of-range levels to DefaultToneLevel so Compile stays total.
func quickLevel(level *int) int {
	if level == nil || *level < 0 || *level >= len(QuickTones) {
		return DefaultToneLevel
	}
	return *level
}

func lengthInstruction(l Length, d tools.Descriptor) string {
	if d.IsHashtag() {
		switch l {
		case LengthShort:
			return "5-10 hashtags"
		case LengthLong:
			return "20-30+ hashtags"
		default:
			return "10-20 hashtags"
		}
	}
	switch l {
	case LengthShort:
		return "1-10 words"
	case LengthLong:
		return "more than 30 words"
	default:
		return "11-30 words"
	}
}

func emojiInstruction(useEmojis bool, d tools.Descriptor) string {
	if useEmojis && !d.IsHashtag() {
		return "Include relevant emojis."
	}
	return "Do not include any emojis."
}

// stanceInstruction names the stance and, unless the stance is neutral or
// no party is chosen, the party whose perspective it is written from.
func stanceInstruction(noun string, stance Stance, party Party) string {
	s := fmt.Sprintf("The %ss must strictly reflect a stance that is **%s** the post's topic.", noun, stance)
	if stance != StanceNeutral && party != "" && party != PartyNone {
		s += fmt.Sprintf(" This stance should be from the perspective of the **%s** political party.", party)
	}
	return s
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "None"
	}
	return s
}
