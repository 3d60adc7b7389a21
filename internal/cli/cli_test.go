package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/fpang/social-content-toolkit/internal/auth"
	"github.com/fpang/social-content-toolkit/internal/chat"
	"github.com/fpang/social-content-toolkit/internal/prompt"
	"github.com/fpang/social-content-toolkit/internal/tools"
)

type stubGenerator struct {
	calls    int
	compiled prompt.Compiled
	result   chat.Result
}

func (s *stubGenerator) Generate(_ context.Context, compiled prompt.Compiled, _ prompt.Params, _ tools.Descriptor) (chat.Result, error) {
	s.calls++
	s.compiled = compiled
	return s.result, nil
}

func TestRun(t *testing.T) {
	gen := &stubGenerator{result: chat.Result{Items: []string{"a", "b"}}}
	d, res, err := Run(context.Background(), gen, prompt.Request{Tool: "Hashtag", Content: "sunset hike"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ID != tools.Hashtag {
		t.Errorf("tool = %q", d.ID)
	}
	if diff := cmp.Diff([]string{"a", "b"}, res.Items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(string(gen.compiled), "sunset hike") {
		t.Errorf("compiled prompt does not carry the content: %q", gen.compiled)
	}
}

func TestRun_Rejects(t *testing.T) {
	level := 7
	tests := []struct {
		name string
		req  prompt.Request
		want error
	}{
		{"empty input", prompt.Request{Tool: "caption"}, prompt.ErrEmptyInput},
		{"bad level", prompt.Request{Tool: "caption", Content: "x", ToneLevel: &level}, prompt.ErrInvalidToneLevel},
		{"bad tone", prompt.Request{Tool: "bio", Content: "x", Advanced: true, Tone: "Sarcastic"}, prompt.ErrInvalidParams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &stubGenerator{}
			_, _, err := Run(context.Background(), gen, tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if gen.calls != 0 {
				t.Error("generator must not be called for invalid input")
			}
		})
	}

	_, _, err := Run(context.Background(), &stubGenerator{}, prompt.Request{Tool: "limerick", Content: "x"})
	var unknown *tools.UnknownToolError
	if !errors.As(err, &unknown) {
		t.Errorf("expected UnknownToolError, got %v", err)
	}
}

func TestWriteResult_Text(t *testing.T) {
	d, _ := tools.Lookup(tools.Caption)
	var buf bytes.Buffer
	if err := WriteResult(&buf, d, chat.Result{Items: []string{"first", "second"}}, false); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "1. first\n2. second\n" {
		t.Errorf("output = %q", buf.String())
	}

	buf.Reset()
	WriteResult(&buf, d, chat.Result{}, false)
	if !strings.Contains(buf.String(), "No captions were generated") {
		t.Errorf("empty output = %q", buf.String())
	}
}

func TestWriteResult_JSON(t *testing.T) {
	d, _ := tools.Lookup(tools.Hashtag)
	var buf bytes.Buffer
	if err := WriteResult(&buf, d, chat.Result{}, true); err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	items, ok := doc[d.ResultKey].([]any)
	if !ok || len(items) != 0 {
		t.Errorf("%s = %v, want empty array", d.ResultKey, doc[d.ResultKey])
	}
}

func TestPromptForContent(t *testing.T) {
	d, _ := tools.Lookup(tools.Caption)
	in := strings.NewReader("line one\r\nline two\n\nignored\n")
	var out bytes.Buffer

	got := PromptForContent(in, &out, d)
	if got != "line one\nline two" {
		t.Errorf("content = %q", got)
	}
	if !strings.Contains(out.String(), "captions") {
		t.Errorf("prompt should name the tool noun: %q", out.String())
	}

	if got := PromptForContent(strings.NewReader(""), &out, d); got != "" {
		t.Errorf("EOF content = %q, want empty", got)
	}
}

func TestImageFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.png")
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 3))); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	img, err := ImageFromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.MIMEType != "image/png" {
		t.Errorf("MIMEType = %q", img.MIMEType)
	}
	data, err := img.Decode()
	if err != nil || !bytes.Equal(data, buf.Bytes()) {
		t.Errorf("round-tripped data differs (err=%v)", err)
	}

	if _, err := ImageFromFile(filepath.Join(t.TempDir(), "notes.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidationMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&auth.ValidationError{Type: auth.ErrTypeInvalidKey}, "Invalid API key"},
		{&auth.ValidationError{Type: auth.ErrTypeQuotaExceeded}, "quota exceeded"},
		{&auth.ValidationError{Type: auth.ErrTypeNetworkError}, "Network error"},
		{errors.New("boom"), "Unexpected error"},
	}
	for _, tt := range tests {
		if got := ValidationMessage(tt.err); !strings.Contains(got, tt.want) {
			t.Errorf("ValidationMessage(%v) = %q, want it to contain %q", tt.err, got, tt.want)
		}
	}
}
