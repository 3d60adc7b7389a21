// Package tools holds the static registry of content-generation tools.
//
// Each tool is a row in a table: the noun the model is asked to produce,
// the JSON key the array comes back under, the expert persona, and the
// framing used to present the user's content. Adding a tool means adding
// a row, not a new branch in the prompt compiler.
package tools

import (
	"fmt"
	"strings"
)

// ID identifies a content-generation tool.
type ID string

const (
	Caption      ID = "caption"
	Comment      ID = "comment"
	Hashtag      ID = "hashtag"
	Bio          ID = "bio"
	Idea         ID = "idea"
	AdCopy       ID = "ad-copy"
	YouTubeTitle ID = "youtube-title"
	YouTubeDesc  ID = "youtube-desc"
	ReelScript   ID = "reel-script"
	TikTokIdea   ID = "tiktok-idea"
)

// Descriptor describes how a tool is presented to the model.
type Descriptor struct {
	ID        ID     `json:"id"`
	Noun      string `json:"noun"`      // singular, e.g. "caption"
	ResultKey string `json:"resultKey"` // JSON key of the returned array
	Persona   string `json:"persona"`

	// TopicFrame is a fmt template with a single %s for the user's content.
	TopicFrame string `json:"-"`

	// Structure is an optional format instruction emitted after the rule line.
	Structure string `json:"-"`

	// AcceptsImage is true when an attached image is forwarded to the model.
	AcceptsImage bool `json:"acceptsImage"`

	// PoliticalDiscourse enables the discourse and stance instructions.
	PoliticalDiscourse bool `json:"politicalDiscourse"`
}

// Frame renders the topic line for content.
func (d Descriptor) Frame(content string) string {
	return fmt.Sprintf(d.TopicFrame, content)
}

// IsHashtag reports whether the descriptor is the hashtag tool, which
// has its own format rule and ignores tone, emojis and advanced criteria.
func (d Descriptor) IsHashtag() bool {
	return d.ID == Hashtag
}

const ideaFormat = "**Idea Format:** Generate a mix of ideas, such as listicles, how-to guides, questions for the audience, and myth-busting topics."

// order is the display order returned by All.
var order = []ID{Caption, Comment, Hashtag, Bio, Idea, AdCopy, YouTubeTitle, YouTubeDesc, ReelScript, TikTokIdea}

var registry = map[ID]Descriptor{
	Caption: {
		Noun:               "caption",
		ResultKey:          "captions",
		Persona:            "Facebook post caption generator",
		TopicFrame:         `Post Content/Topic: "%s"`,
		AcceptsImage:       true,
		PoliticalDiscourse: true,
	},
	Comment: {
		Noun:               "comment",
		ResultKey:          "comments",
		Persona:            "Facebook post comment generator",
		TopicFrame:         `Post Content to comment on: "%s"`,
		AcceptsImage:       true,
		PoliticalDiscourse: true,
	},
	Hashtag: {
		Noun:       "hashtag",
		ResultKey:  "hashtags",
		Persona:    "social media hashtag expert",
		TopicFrame: `Topic: "%s"`,
	},
	Bio: {
		Noun:       "bio",
		ResultKey:  "bios",
		Persona:    "social media profile bio expert",
		TopicFrame: `Information about the user/brand: "%s"`,
	},
	Idea: {
		Noun:       "content idea",
		ResultKey:  "ideas",
		Persona:    "creative content strategist",
		TopicFrame: `Topic for content ideas: "%s"`,
		Structure:  ideaFormat,
	},
	AdCopy: {
		Noun:         "ad copy",
		ResultKey:    "ad_copies",
		Persona:      "expert direct response copywriter",
		TopicFrame:   `Product/Service to advertise: "%s"`,
		Structure:    "**Ad Copy Structure:** Each ad copy should include a compelling Headline, persuasive Body text, and a clear Call to Action (CTA). Format each as a single string.",
		AcceptsImage: true,
	},
	YouTubeTitle: {
		Noun:       "YouTube title",
		ResultKey:  "titles",
		Persona:    "YouTube SEO and clickbait expert",
		TopicFrame: `Video Topic: "%s"`,
		Structure:  "**Title Style:** Generate high-CTR, catchy titles optimized for clicks (Clickbait but honest).",
	},
	YouTubeDesc: {
		Noun:       "YouTube description",
		ResultKey:  "descriptions",
		Persona:    "YouTube SEO expert",
		TopicFrame: `Video Topic/Title: "%s"`,
	},
	ReelScript: {
		Noun:       "short video script",
		ResultKey:  "scripts",
		Persona:    "viral short video scriptwriter",
		TopicFrame: `Video Concept: "%s"`,
		Structure:  "**Script Structure:** Provide a short script with a Hook, Body, and CTA. Keep it concise for short-form video.",
	},
	TikTokIdea: {
		Noun:       "TikTok concept",
		ResultKey:  "ideas",
		Persona:    "TikTok trend analyst",
		TopicFrame: `Niche/Topic: "%s"`,
		Structure:  ideaFormat,
	},
}

// UnknownToolError is returned by Lookup for an unregistered tool id.
type UnknownToolError struct {
	ID string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q (valid: %s)", e.ID, strings.Join(Names(), ", "))
}

// Lookup returns the descriptor registered for id.
func Lookup(id ID) (Descriptor, error) {
	d, ok := registry[id]
	if !ok {
		return Descriptor{}, &UnknownToolError{ID: string(id)}
	}
	d.ID = id
	return d, nil
}

// All returns every registered descriptor in display order.
func All() []Descriptor {
	out := make([]Descriptor, 0, len(order))
	for _, id := range order {
		d, _ := Lookup(id)
		out = append(out, d)
	}
	return out
}

// Names returns the registered tool ids in display order.
func Names() []string {
	out := make([]string, len(order))
	for i, id := range order {
		out[i] = string(id)
	}
	return out
}
