package cli

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fpang/social-content-toolkit/internal/chat"
	"github.com/fpang/social-content-toolkit/internal/filehandler"
	"github.com/fpang/social-content-toolkit/internal/prompt"
	"github.com/fpang/social-content-toolkit/internal/tools"
)

// WriteResult prints res as a numbered list, or as the JSON object the
// model was asked for when asJSON is set.
func WriteResult(w io.Writer, d tools.Descriptor, res chat.Result, asJSON bool) error {
	if asJSON {
		items := res.Items
		if items == nil {
			items = []string{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{d.ResultKey: items, "placeholder": res.Placeholder})
	}

	if len(res.Items) == 0 {
		_, err := fmt.Fprintf(w, "No %ss were generated. Try rephrasing your content.\n", d.Noun)
		return err
	}
	if res.Placeholder {
		fmt.Fprintln(w, "(placeholder output: no Gemini API key configured)")
	}
	for i, item := range res.Items {
		if _, err := fmt.Fprintf(w, "%d. %s\n", i+1, item); err != nil {
			return err
		}
	}
	return nil
}

// ImageFromFile loads a reference image from disk in the wire form used
// by generation requests.
func ImageFromFile(path string) (*prompt.Image, error) {
	media, err := filehandler.LoadImageFile(path)
	if err != nil {
		return nil, err
	}
	return &prompt.Image{
		MIMEType: media.MIMEType,
		Data:     base64.StdEncoding.EncodeToString(media.Data),
	}, nil
}
