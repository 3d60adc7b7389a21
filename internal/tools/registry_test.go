package tools

import (
	"errors"
	"strings"
	"testing"
)

func TestLookup_AllToolsRegistered(t *testing.T) {
	tests := []struct {
		id        ID
		noun      string
		resultKey string
	}{
		{Caption, "caption", "captions"},
		{Comment, "comment", "comments"},
		{Hashtag, "hashtag", "hashtags"},
		{Bio, "bio", "bios"},
		{Idea, "content idea", "ideas"},
		{AdCopy, "ad copy", "ad_copies"},
		{YouTubeTitle, "YouTube title", "titles"},
		{YouTubeDesc, "YouTube description", "descriptions"},
		{ReelScript, "short video script", "scripts"},
		{TikTokIdea, "TikTok concept", "ideas"},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			d, err := Lookup(tt.id)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.ID != tt.id {
				t.Errorf("ID = %q, want %q", d.ID, tt.id)
			}
			if d.Noun != tt.noun {
				t.Errorf("Noun = %q, want %q", d.Noun, tt.noun)
			}
			if d.ResultKey != tt.resultKey {
				t.Errorf("ResultKey = %q, want %q", d.ResultKey, tt.resultKey)
			}
			if d.Persona == "" {
				t.Error("Persona is empty")
			}
			if !strings.Contains(d.TopicFrame, "%s") {
				t.Errorf("TopicFrame %q has no content placeholder", d.TopicFrame)
			}
		})
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("limerick")
	if err == nil {
		t.Fatal("expected error for unknown tool")
	}
	var unknown *UnknownToolError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected *UnknownToolError, got %T", err)
	}
	if unknown.ID != "limerick" {
		t.Errorf("ID = %q, want limerick", unknown.ID)
	}
	if !strings.Contains(err.Error(), "caption") {
		t.Errorf("error should list valid tools, got %q", err.Error())
	}
}

func TestAll_StableOrder(t *testing.T) {
	all := All()
	if len(all) != 10 {
		t.Fatalf("expected 10 tools, got %d", len(all))
	}
	if all[0].ID != Caption || all[9].ID != TikTokIdea {
		t.Errorf("unexpected order: first=%s last=%s", all[0].ID, all[9].ID)
	}
}

func TestFrame(t *testing.T) {
	d, _ := Lookup(Bio)
	got := d.Frame("coffee lover")
	want := `Information about the user/brand: "coffee lover"`
	if got != want {
		t.Errorf("Frame = %q, want %q", got, want)
	}
}

func TestImageAndPoliticalFlags(t *testing.T) {
	for _, d := range All() {
		wantImage := d.ID == Caption || d.ID == Comment || d.ID == AdCopy
		if d.AcceptsImage != wantImage {
			t.Errorf("%s: AcceptsImage = %v, want %v", d.ID, d.AcceptsImage, wantImage)
		}
		wantPolitical := d.ID == Caption || d.ID == Comment
		if d.PoliticalDiscourse != wantPolitical {
			t.Errorf("%s: PoliticalDiscourse = %v, want %v", d.ID, d.PoliticalDiscourse, wantPolitical)
		}
	}
}

func TestLookup_ReturnsCopy(t *testing.T) {
	d, _ := Lookup(Caption)
	d.Persona = "mutated"
	again, _ := Lookup(Caption)
	if again.Persona == "mutated" {
		t.Error("Lookup must not expose the registry entry for mutation")
	}
}
