package assets

import (
	"bytes"
	_ "embed"
	"text/template"
)

// Prompt fragments used outside the main prompt compiler.

//go:embed prompts/photo.txt
var photoPromptTemplate string

//go:embed prompts/image-context.txt
var imageContextTemplate string

// Pre-parsed templates. template.Must panics on malformed templates,
// catching errors at program startup rather than at call time.
var (
	photoPromptTmpl  = template.Must(template.New("photo").Parse(photoPromptTemplate))
	imageContextTmpl = template.Must(template.New("image-context").Parse(imageContextTemplate))
)

// RenderPhotoPrompt appends the chosen style to a photo prompt.
func RenderPhotoPrompt(prompt, style string) string {
	return renderTemplate(photoPromptTmpl, struct{ Prompt, Style string }{prompt, style})
}

// RenderImageContext renders the sentence appended to a text prompt when
// an image is attached. noun is the tool's singular generation noun.
func RenderImageContext(noun string) string {
	return renderTemplate(imageContextTmpl, struct{ Noun string }{noun})
}

func renderTemplate(tmpl *template.Template, data any) string {
	var buf bytes.Buffer
	// Execution errors are not expected with these templates; return
	// whatever was rendered.
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}
