package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ncruces/zenity"

	"github.com/fpang/social-content-toolkit/internal/filehandler"
)

// ErrPickCanceled is returned when the file dialog is dismissed.
var ErrPickCanceled = errors.New("image selection canceled")

// PickImage opens the native file dialog filtered to supported images.
func PickImage() (string, error) {
	patterns := make([]string, 0, len(filehandler.SupportedImageExtensions))
	for ext := range filehandler.SupportedImageExtensions {
		patterns = append(patterns, "*"+ext)
	}
	sort.Strings(patterns)
	selected, err := zenity.SelectFile(
		zenity.Title("Select an image"),
		zenity.FileFilters{
			{Name: "Images", Patterns: patterns, CaseFold: true},
		},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", ErrPickCanceled
		}
		return "", fmt.Errorf("file picker failed: %w", err)
	}
	return strings.TrimSpace(selected), nil
}
