package download

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fpang/social-content-toolkit/internal/logging"
)

const (
	// DefaultBaseURL is the public Cobalt instance.
	DefaultBaseURL = "https://api.cobalt.tools"

	defaultTimeout = 30 * time.Second

	// maxResponseBytes bounds the extraction service response.
	maxResponseBytes = 1 << 20
)

// ErrNoMedia is returned when the service answers without any usable link.
var ErrNoMedia = errors.New("no download URL found")

// ServiceError is an error reported by the extraction service itself.
type ServiceError struct {
	Text string
}

func (e *ServiceError) Error() string {
	if e.Text == "" {
		return "could not fetch media"
	}
	return e.Text
}

// Media is a resolved direct download.
type Media struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// Client talks to a Cobalt-compatible extraction API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a Client for baseURL, or DefaultBaseURL when empty.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

type fetchRequest struct {
	URL         string `json:"url"`
	IsAudioOnly bool   `json:"isAudioOnly,omitempty"`
}

type fetchResponse struct {
	Status   string `json:"status"`
	Text     string `json:"text"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Audio    string `json:"audio"`
	Picker   []struct {
		URL string `json:"url"`
	} `json:"picker"`
}

// Fetch resolves a post URL into a direct media link. The response fields
// are consulted in order: url, the first picker entry, then audio.
func (c *Client) Fetch(ctx context.Context, p Platform, rawURL string) (*Media, error) {
	body, err := json.Marshal(fetchRequest{URL: strings.TrimSpace(rawURL), IsAudioOnly: p.AudioOnly()})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	startTime := time.Now()
	httpResp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)
	if err != nil {
		log.Debug().Int("statusCode", 0).Dur("duration", duration).Err(err).Msg("Download API response")
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer httpResp.Body.Close()

	log.Debug().Str("platform", string(p)).Int("statusCode", httpResp.StatusCode).Dur("duration", duration).Msg("Download API response")

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var resp fetchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		if httpResp.StatusCode/100 != 2 {
			return nil, fmt.Errorf("download API returned status %d", httpResp.StatusCode)
		}
		return nil, fmt.Errorf("parse response: %w (body: %s)", err, logging.Truncate(string(raw), 200))
	}

	if resp.Status == "error" {
		log.Warn().Str("platform", string(p)).Str("text", resp.Text).Msg("Download API reported an error")
		return nil, &ServiceError{Text: resp.Text}
	}

	switch {
	case resp.URL != "":
		filename := resp.Filename
		if filename == "" {
			filename = p.DefaultFilename()
		}
		return &Media{URL: resp.URL, Filename: filename}, nil
	case len(resp.Picker) > 0 && resp.Picker[0].URL != "":
		return &Media{URL: resp.Picker[0].URL, Filename: p.DefaultFilename()}, nil
	case resp.Audio != "":
		return &Media{URL: resp.Audio, Filename: "audio.mp3"}, nil
	}
	return nil, ErrNoMedia
}
