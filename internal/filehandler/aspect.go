package filehandler

import "math"

// AspectRatio is an output aspect ratio accepted by the image models.
type AspectRatio string

const (
	AspectAuto              AspectRatio = "Auto"
	AspectSquare            AspectRatio = "1:1"
	AspectPortrait          AspectRatio = "3:4"
	AspectPortraitLarge     AspectRatio = "9:16"
	AspectLandscape         AspectRatio = "16:9"
	AspectLandscapeStandard AspectRatio = "4:3"
	AspectOriginal          AspectRatio = "Original"
)

// candidates is ordered; on a tie the earlier entry wins.
var candidates = []struct {
	ratio AspectRatio
	value float64
}{
	{AspectSquare, 1},
	{AspectPortrait, 3.0 / 4.0},
	{AspectPortraitLarge, 9.0 / 16.0},
	{AspectLandscape, 16.0 / 9.0},
	{AspectLandscapeStandard, 4.0 / 3.0},
}

// NearestAspectRatio returns the concrete ratio closest to width/height.
// Non-positive dimensions yield AspectSquare.
func NearestAspectRatio(width, height int) AspectRatio {
	if width <= 0 || height <= 0 {
		return AspectSquare
	}
	target := float64(width) / float64(height)
	best := candidates[0]
	bestDiff := math.Abs(target - best.value)
	for _, c := range candidates[1:] {
		if d := math.Abs(target - c.value); d < bestDiff {
			best, bestDiff = c, d
		}
	}
	return best.ratio
}

// IsDeferred reports whether the ratio must be resolved from a reference
// image (Auto, Original, or unset).
func (a AspectRatio) IsDeferred() bool {
	return a == "" || a == AspectAuto || a == AspectOriginal
}

// Valid reports whether a is a concrete ratio or a deferred one.
func (a AspectRatio) Valid() bool {
	if a.IsDeferred() {
		return true
	}
	for _, c := range candidates {
		if c.ratio == a {
			return true
		}
	}
	return false
}

// AspectRatios lists every accepted value in display order.
var AspectRatios = []AspectRatio{
	AspectAuto, AspectSquare, AspectPortrait, AspectPortraitLarge,
	AspectLandscape, AspectLandscapeStandard, AspectOriginal,
}
