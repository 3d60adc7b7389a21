// Package sanitize masks denylisted terms in generated text.
package sanitize

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/fpang/social-content-toolkit/internal/assets"
)

// Mask replaces every matched term.
const Mask = "****"

// Sanitizer replaces whole-word, case-insensitive matches of its terms
// with Mask. The zero value and a Sanitizer with no terms pass text
// through unchanged. Safe for concurrent use.
type Sanitizer struct {
	re *regexp.Regexp
}

// New compiles a Sanitizer for terms. Empty terms are ignored; longer
// terms are tried first so overlapping entries mask the longest match.
func New(terms []string) *Sanitizer {
	var cleaned []string
	seen := make(map[string]bool)
	for _, t := range terms {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		cleaned = append(cleaned, regexp.QuoteMeta(t))
	}
	if len(cleaned) == 0 {
		return &Sanitizer{}
	}
	sort.SliceStable(cleaned, func(i, j int) bool { return len(cleaned[i]) > len(cleaned[j]) })
	return &Sanitizer{re: regexp.MustCompile(`(?i)\b(?:` + strings.Join(cleaned, "|") + `)\b`)}
}

// Sanitize returns text with every denylisted whole word masked.
func (s *Sanitizer) Sanitize(text string) string {
	if s == nil || s.re == nil {
		return text
	}
	return s.re.ReplaceAllLiteralString(text, Mask)
}

var (
	defaultOnce sync.Once
	defaultSan  *Sanitizer
)

// Default returns the Sanitizer built from the embedded denylist.
func Default() *Sanitizer {
	defaultOnce.Do(func() {
		defaultSan = New(assets.Denylist())
	})
	return defaultSan
}
