package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fpang/social-content-toolkit/internal/assets"
	"github.com/fpang/social-content-toolkit/internal/filehandler"
	"github.com/fpang/social-content-toolkit/internal/metrics"
	"github.com/fpang/social-content-toolkit/internal/prompt"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// ImageStyle is a visual style appended to photo prompts.
type ImageStyle string

const (
	StylePhotorealistic   ImageStyle = "Photorealistic"
	StyleCinematic        ImageStyle = "Cinematic"
	StyleAnime            ImageStyle = "Anime"
	StyleFantasyArt       ImageStyle = "Fantasy Art"
	Style3DModel          ImageStyle = "3D Model"
	StyleYouTubeThumbnail ImageStyle = "YouTube Thumbnail"
)

// ImageStyles lists the supported styles in display order.
var ImageStyles = []ImageStyle{StylePhotorealistic, StyleCinematic, StyleAnime, StyleFantasyArt, Style3DModel, StyleYouTubeThumbnail}

var (
	// ErrInvalidRequest is wrapped by every photo and video validation failure.
	ErrInvalidRequest = errors.New("invalid media request")

	// ErrEmptyPrompt is returned when a media request has no prompt text.
	ErrEmptyPrompt = fmt.Errorf("%w: prompt is required", ErrInvalidRequest)
)

// PhotoRequest describes one photo generation.
type PhotoRequest struct {
	Prompt      string                  `json:"prompt"`
	Style       ImageStyle              `json:"style"`
	AspectRatio filehandler.AspectRatio `json:"aspectRatio"`
	Reference   *prompt.Image           `json:"referenceImage,omitempty"`
}

// Photo is a generated image.
type Photo struct {
	Data     []byte
	MIMEType string
}

// GenerateImage produces one image. With a reference image the Gemini
// image model restyles it; otherwise Imagen generates from text alone.
// Auto and Original aspect ratios resolve to the reference image's
// nearest supported ratio, or 1:1 without one.
func (g *Generator) GenerateImage(ctx context.Context, req PhotoRequest) (*Photo, error) {
	if g.models == nil {
		return nil, ErrNoAPIKey
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, ErrEmptyPrompt
	}
	if !req.AspectRatio.Valid() {
		return nil, fmt.Errorf("%w: unsupported aspect ratio %q", ErrInvalidRequest, req.AspectRatio)
	}

	text := req.Prompt
	if req.Style != "" {
		text = assets.RenderPhotoPrompt(req.Prompt, string(req.Style))
	}

	var ref []byte
	if req.Reference != nil {
		data, err := req.Reference.Decode()
		if err != nil {
			return nil, fmt.Errorf("%w: invalid reference image: %v", ErrInvalidRequest, err)
		}
		ref = data
	}

	aspect := req.AspectRatio
	if aspect.IsDeferred() {
		aspect = filehandler.AspectSquare
		if ref != nil {
			if info, err := filehandler.InspectImage(ref); err != nil {
				log.Warn().Err(err).Msg("Could not read reference image dimensions, using 1:1")
			} else {
				aspect = info.AspectRatio()
			}
		}
	}

	start := time.Now()
	var (
		photo *Photo
		err   error
		model string
	)
	if ref != nil {
		model = g.names.Image
		photo, err = g.editImage(ctx, model, text, req.Reference.MIMEType, ref, aspect)
	} else {
		model = g.names.Photo
		photo, err = g.imagen(ctx, model, text, aspect)
	}

	result := "success"
	if err != nil {
		result = "error"
	}
	metrics.New(metrics.Namespace).
		Dimension("Model", model).
		Dimension("Result", result).
		Metric("PhotoLatencyMs", float64(time.Since(start).Milliseconds()), metrics.UnitMilliseconds).
		Count("PhotoCount").
		Flush()

	if err != nil {
		log.Error().Err(err).Str("model", model).Msg("Photo generation failed")
		return nil, err
	}
	log.Info().
		Str("model", model).
		Str("aspect_ratio", string(aspect)).
		Int("bytes", len(photo.Data)).
		Dur("duration", time.Since(start)).
		Msg("Photo generated")
	return photo, nil
}

func (g *Generator) editImage(ctx context.Context, model, text, mimeType string, ref []byte, aspect filehandler.AspectRatio) (*Photo, error) {
	parts := []*genai.Part{
		{InlineData: &genai.Blob{MIMEType: mimeType, Data: ref}},
		{Text: text},
	}
	config := &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{AspectRatio: string(aspect)},
	}

	resp, err := g.models.GenerateContent(ctx, model, []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, config)
	if err != nil {
		return nil, fmt.Errorf("image generation request failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, errors.New("image generation failed: no image data found in response")
	}

	var textReply string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return &Photo{Data: part.InlineData.Data, MIMEType: part.InlineData.MIMEType}, nil
		}
		if textReply == "" && part.Text != "" {
			textReply = part.Text
		}
	}
	if textReply != "" {
		return nil, fmt.Errorf("model returned text instead of image: %q", textReply)
	}
	return nil, errors.New("image generation failed: no image data found in response")
}

func (g *Generator) imagen(ctx context.Context, model, text string, aspect filehandler.AspectRatio) (*Photo, error) {
	resp, err := g.models.GenerateImages(ctx, model, text, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: "image/jpeg",
		AspectRatio:    string(aspect),
	})
	if err != nil {
		return nil, fmt.Errorf("image generation request failed: %w", err)
	}
	if resp == nil || len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil ||
		len(resp.GeneratedImages[0].Image.ImageBytes) == 0 {
		return nil, errors.New("image generation succeeded but no image data was returned")
	}
	img := resp.GeneratedImages[0].Image
	mimeType := img.MIMEType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return &Photo{Data: img.ImageBytes, MIMEType: mimeType}, nil
}
