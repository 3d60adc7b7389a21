// Package jsonutil provides utilities for extracting and parsing JSON from
// LLM responses that may be wrapped in markdown code fences or embedded in prose.
package jsonutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoJSON is returned when the text contains no JSON object.
	ErrNoJSON = errors.New("no JSON content found")

	// ErrInvalidJSON wraps unmarshal failures of the extracted object.
	ErrInvalidJSON = errors.New("invalid JSON")
)

// StripMarkdownFences removes ```json ... ``` or ``` ... ``` wrapping from text.
// Returns the content between the fences, or the original text if no fences are found.
func StripMarkdownFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	lines := strings.Split(text, "\n")
	if len(lines) < 3 {
		return text
	}

	startIdx := 1 // skip the opening ``` line
	endIdx := len(lines) - 1

	// Find the closing ```
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) == "```" {
			endIdx = i
			break
		}
	}

	return strings.Join(lines[startIdx:endIdx], "\n")
}

// ExtractObject returns the first top-level balanced {...} substring of
// text that is valid JSON. Braces inside JSON strings are ignored and
// objects nested in an earlier candidate are never considered on their
// own. When no candidate is valid, the first balanced one is returned so
// the caller can report the parse error. When the first { never closes,
// the span from it to the last } is returned. Returns "" if text has no {.
func ExtractObject(text string) string {
	first := ""
	for start := strings.IndexByte(text, '{'); start >= 0; {
		end := matchBrace(text, start)
		if end < 0 {
			break
		}
		candidate := text[start : end+1]
		if json.Valid([]byte(candidate)) {
			return candidate
		}
		if first == "" {
			first = candidate
		}
		next := strings.IndexByte(text[end+1:], '{')
		if next < 0 {
			break
		}
		start = end + 1 + next
	}
	if first != "" {
		return first
	}

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}
	if end := strings.LastIndexByte(text, '}'); end > start {
		return text[start : end+1]
	}
	return text[start:]
}

// matchBrace returns the index of the } closing the { at start, or -1.
func matchBrace(text string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// ParseJSON strips markdown fences from raw LLM response text, extracts the
// first JSON object, and unmarshals it into the provided type T.
//
// Errors wrap ErrNoJSON when nothing object-like is present and
// ErrInvalidJSON when the extracted text does not parse.
func ParseJSON[T any](raw string) (T, error) {
	var zero T
	jsonStr := ExtractObject(StripMarkdownFences(raw))
	if jsonStr == "" {
		return zero, fmt.Errorf("%w (raw length: %d)", ErrNoJSON, len(raw))
	}

	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		// Include a truncated preview in the error for debugging
		preview := jsonStr
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		return zero, fmt.Errorf("%w: %v (text: %s)", ErrInvalidJSON, err, preview)
	}
	return result, nil
}
