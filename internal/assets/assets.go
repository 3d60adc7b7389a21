// Package assets provides embedded static assets for the application.
package assets

import (
	"bufio"
	_ "embed"
	"encoding/json"
	"strings"
)

// denylistText is the default sanitizer term list, one term per line.
//
//go:embed data/denylist.txt
var denylistText string

// templatesJSON seeds the admin template list (caption and comment starters).
//
//go:embed data/templates.json
var templatesJSON []byte

// SeedTemplate is one entry of the embedded template list.
type SeedTemplate struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Prompt   string `json:"prompt"`
	Category string `json:"category"`
}

// Denylist returns the embedded sanitizer terms. Blank lines and lines
// starting with # are skipped.
func Denylist() []string {
	var terms []string
	scanner := bufio.NewScanner(strings.NewReader(denylistText))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		terms = append(terms, line)
	}
	return terms
}

// SeedTemplates returns the embedded default templates. The JSON is
// compiled into the binary, so a decode failure is a build defect.
func SeedTemplates() []SeedTemplate {
	var out []SeedTemplate
	if err := json.Unmarshal(templatesJSON, &out); err != nil {
		panic("assets: malformed templates.json: " + err.Error())
	}
	return out
}
