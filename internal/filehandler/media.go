// Package filehandler loads local images and inspects reference images
// passed to the generators.
//
// Images are read fully into memory because the Gemini API receives them
// inline; MaxImageBytes bounds what is accepted.
package filehandler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// MaxImageBytes is the largest image accepted for inline upload.
const MaxImageBytes = 20 << 20

// SupportedImageExtensions defines the file extensions that are supported for image upload.
var SupportedImageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".heic": "image/heic",
	".heif": "image/heif",
}

// MediaFile is an image loaded from disk.
type MediaFile struct {
	Path     string
	MIMEType string
	Size     int64
	Data     []byte
	Info     *ImageInfo // nil when dimensions could not be decoded (e.g. HEIC)
}

// LoadImageFile reads an image from disk, checks its extension and size,
// and inspects it. Inspection failures are logged and leave Info nil.
func LoadImageFile(filePath string) (*MediaFile, error) {
	log.Debug().Str("path", filePath).Msg("Loading image file")

	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", filePath)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", filePath)
	}
	if info.Size() > MaxImageBytes {
		return nil, fmt.Errorf("image is too large: %d bytes (max %d)", info.Size(), MaxImageBytes)
	}

	mimeType, err := GetMIMEType(filepath.Ext(filePath))
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	media := &MediaFile{
		Path:     filePath,
		MIMEType: mimeType,
		Size:     info.Size(),
		Data:     data,
	}

	if imgInfo, err := InspectImage(data); err != nil {
		log.Warn().Err(err).Msg("Failed to inspect image, continuing without dimensions")
	} else {
		media.Info = imgInfo
	}

	log.Info().
		Str("path", filePath).
		Str("mime_type", mimeType).
		Int64("size_bytes", info.Size()).
		Msg("Image file loaded successfully")

	return media, nil
}

// GetMIMEType returns the MIME type for a given file extension.
func GetMIMEType(ext string) (string, error) {
	if mimeType, ok := SupportedImageExtensions[strings.ToLower(ext)]; ok {
		return mimeType, nil
	}
	return "", fmt.Errorf("unsupported file extension: %s", ext)
}

// IsImage returns true if the file extension corresponds to a supported image.
func IsImage(ext string) bool {
	_, ok := SupportedImageExtensions[strings.ToLower(ext)]
	return ok
}

// IsSupportedMIMEType reports whether mimeType is one of the supported image types.
func IsSupportedMIMEType(mimeType string) bool {
	for _, m := range SupportedImageExtensions {
		if strings.EqualFold(m, mimeType) {
			return true
		}
	}
	return false
}
