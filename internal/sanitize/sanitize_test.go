package sanitize

import "testing"

func TestSanitize_WholeWords(t *testing.T) {
	s := New([]string{"badword1", "badword2", "offensiveword"})

	tests := []struct {
		in, want string
	}{
		{"this is badword1 here", "this is **** here"},
		{"BADWORD1!", "****!"},
		{"BadWord2, and offensiveword.", "****, and ****."},
		{"badword1s are fine", "badword1s are fine"},
		{"xbadword1", "xbadword1"},
		{"nothing to see", "nothing to see"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := s.Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	s := Default()
	inputs := []string{
		"badword1 badword2 offensiveword",
		"a **** b",
		"Clean text 🎉",
		"badword1badword1",
	}
	for _, in := range inputs {
		once := s.Sanitize(in)
		if twice := s.Sanitize(once); twice != once {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestSanitize_QuotesMetacharacters(t *testing.T) {
	s := New([]string{"a.b", ""})
	if got := s.Sanitize("axb"); got != "axb" {
		t.Errorf("dot must be literal, got %q", got)
	}
	if got := s.Sanitize("say a.b now"); got != "say **** now" {
		t.Errorf("got %q", got)
	}
}

func TestSanitize_NoTerms(t *testing.T) {
	var nilSan *Sanitizer
	if got := nilSan.Sanitize("badword1"); got != "badword1" {
		t.Errorf("nil sanitizer changed text: %q", got)
	}
	if got := New(nil).Sanitize("badword1"); got != "badword1" {
		t.Errorf("empty sanitizer changed text: %q", got)
	}
}

func TestDefault_UsesEmbeddedList(t *testing.T) {
	if got := Default().Sanitize("offensiveword"); got != Mask {
		t.Errorf("default denylist not applied: %q", got)
	}
}
