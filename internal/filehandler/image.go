package filehandler

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"time"

	"github.com/evanoberholster/imagemeta"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/webp"
)

// ImageInfo describes a reference image: its pixel dimensions and
// whatever EXIF data could be read.
//
// Dimensions come from the standard image decoders (JPEG, PNG, and
// WebP via golang.org/x/image). EXIF is read with evanoberholster/imagemeta,
// which also understands HEIC containers that the decoders do not.
type ImageInfo struct {
	Width  int
	Height int
	Format string

	DateTaken   time.Time
	HasDate     bool
	CameraMake  string
	CameraModel string
}

// InspectImage reads dimensions and EXIF metadata from in-memory image bytes.
// A missing EXIF block is not an error; undecodable dimensions are.
func InspectImage(data []byte) (*ImageInfo, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read image dimensions: %w", err)
	}

	info := &ImageInfo{
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: format,
	}

	exifData, err := imagemeta.Decode(bytes.NewReader(data))
	if err != nil {
		log.Debug().Err(err).Str("format", format).Msg("No EXIF metadata in reference image")
		return info, nil
	}

	if taken := exifData.DateTimeOriginal(); !taken.IsZero() {
		info.DateTaken = taken
		info.HasDate = true
	}
	info.CameraMake = strings.TrimSpace(exifData.Make)
	info.CameraModel = strings.TrimSpace(exifData.Model)

	log.Debug().
		Int("width", info.Width).
		Int("height", info.Height).
		Str("format", format).
		Bool("has_date", info.HasDate).
		Msg("Reference image inspected")

	return info, nil
}

// Camera returns "Make Model", or "" when neither is known.
func (i *ImageInfo) Camera() string {
	return strings.TrimSpace(i.CameraMake + " " + i.CameraModel)
}

// AspectRatio returns the supported aspect ratio nearest the image's shape.
func (i *ImageInfo) AspectRatio() AspectRatio {
	return NearestAspectRatio(i.Width, i.Height)
}
