// Package download resolves social media links into direct media URLs.
//
// URLs are checked against a per-platform host allowlist before anything
// leaves the process. YouTube thumbnails are derived locally from the video
// ID; every other platform is resolved through a Cobalt-compatible
// extraction service (see Client).
package download

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Platform names a download source.
type Platform string

const (
	PlatformThumbnail Platform = "thumbnail"
	PlatformYouTube   Platform = "youtube"
	PlatformAudio     Platform = "audio"
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformTwitter   Platform = "twitter"
	PlatformPinterest Platform = "pinterest"
)

var (
	// ErrUnsupportedPlatform is returned for platform names not in the allowlist.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrInvalidURL is returned when a URL is malformed or its host does not
	// belong to the requested platform.
	ErrInvalidURL = errors.New("invalid URL for platform")
)

var youtubeHosts = []string{"youtube.com", "youtu.be"}

var platformHosts = map[Platform][]string{
	PlatformThumbnail: youtubeHosts,
	PlatformYouTube:   youtubeHosts,
	PlatformAudio:     youtubeHosts,
	PlatformFacebook:  {"facebook.com", "fb.watch", "fb.com"},
	PlatformInstagram: {"instagram.com", "instagr.am"},
	PlatformTikTok:    {"tiktok.com"},
	PlatformTwitter:   {"twitter.com", "x.com"},
	PlatformPinterest: {"pinterest.com", "pin.it"},
}

// Platforms lists every supported platform in display order.
var Platforms = []Platform{
	PlatformThumbnail, PlatformFacebook, PlatformInstagram, PlatformYouTube,
	PlatformTikTok, PlatformTwitter, PlatformPinterest, PlatformAudio,
}

// AudioOnly reports whether downloads for p should request the audio track.
func (p Platform) AudioOnly() bool {
	return p == PlatformAudio
}

// DefaultFilename is used when the extraction service does not name the file.
func (p Platform) DefaultFilename() string {
	if p.AudioOnly() {
		return "audio.mp3"
	}
	return "video.mp4"
}

// ValidateURL checks that rawURL is an http(s) URL whose host is one of the
// platform's domains or a subdomain of one.
func ValidateURL(p Platform, rawURL string) error {
	hosts, ok := platformHosts[p]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedPlatform, p)
	}

	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Hostname() == "" {
		return fmt.Errorf("%w: %s", ErrInvalidURL, p)
	}

	host := strings.ToLower(u.Hostname())
	for _, domain := range hosts {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidURL, p)
}

var youtubeIDPattern = regexp.MustCompile(`^.*(youtu.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*).*`)

// YouTubeID extracts the 11-character video ID from a YouTube link.
func YouTubeID(rawURL string) (string, error) {
	m := youtubeIDPattern.FindStringSubmatch(strings.TrimSpace(rawURL))
	if m == nil || len(m[2]) != 11 {
		return "", fmt.Errorf("%w: no YouTube video ID", ErrInvalidURL)
	}
	return m[2], nil
}

// Thumbnail is one still image published for a YouTube video.
type Thumbnail struct {
	Quality    string `json:"quality"`
	URL        string `json:"url"`
	Resolution string `json:"resolution"`
}

// Thumbnails returns the standard thumbnail sizes for a video ID,
// largest first.
func Thumbnails(videoID string) []Thumbnail {
	base := "https://img.youtube.com/vi/" + videoID
	return []Thumbnail{
		{Quality: "maxres", URL: base + "/maxresdefault.jpg", Resolution: "1280x720"},
		{Quality: "hq", URL: base + "/hqdefault.jpg", Resolution: "480x360"},
		{Quality: "sd", URL: base + "/mqdefault.jpg", Resolution: "320x180"},
	}
}
