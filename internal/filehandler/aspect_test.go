package filehandler

import "testing"

func TestNearestAspectRatio(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		want          AspectRatio
	}{
		{"square", 1000, 1000, AspectSquare},
		{"phone portrait", 1080, 1920, AspectPortraitLarge},
		{"classic portrait", 3000, 4000, AspectPortrait},
		{"widescreen", 1920, 1080, AspectLandscape},
		{"classic landscape", 4000, 3000, AspectLandscapeStandard},
		{"near square", 1050, 1000, AspectSquare},
		{"panorama", 6000, 1000, AspectLandscape},
		{"zero height", 100, 0, AspectSquare},
		{"negative width", -5, 10, AspectSquare},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NearestAspectRatio(tt.width, tt.height); got != tt.want {
				t.Errorf("NearestAspectRatio(%d, %d) = %q, want %q", tt.width, tt.height, got, tt.want)
			}
		})
	}
}

func TestAspectRatio_Deferred(t *testing.T) {
	for _, a := range []AspectRatio{"", AspectAuto, AspectOriginal} {
		if !a.IsDeferred() {
			t.Errorf("%q should be deferred", a)
		}
	}
	if AspectSquare.IsDeferred() {
		t.Error("1:1 should not be deferred")
	}
}

func TestAspectRatio_Valid(t *testing.T) {
	for _, a := range []AspectRatio{AspectAuto, AspectSquare, AspectLandscapeStandard} {
		if !a.Valid() {
			t.Errorf("%q should be valid", a)
		}
	}
	if AspectRatio("2:1").Valid() {
		t.Error("2:1 should not be valid")
	}
}
