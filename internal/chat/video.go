package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fpang/social-content-toolkit/internal/metrics"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// VideoResolution is the output resolution of a generated video.
type VideoResolution string

const (
	ResolutionSD VideoResolution = "720p"
	ResolutionHD VideoResolution = "1080p"
)

// VideoAspectRatio is the output aspect ratio of a generated video.
type VideoAspectRatio string

const (
	VideoLandscape VideoAspectRatio = "16:9"
	VideoPortrait  VideoAspectRatio = "9:16"
)

// VideoRequest describes one video generation.
type VideoRequest struct {
	Prompt      string           `json:"prompt"`
	Resolution  VideoResolution  `json:"resolution"`
	AspectRatio VideoAspectRatio `json:"aspectRatio"`
}

// GenerateVideo starts a Veo generation and polls the long-running
// operation until it finishes or ctx is done. It returns the URI of the
// first generated video.
func (g *Generator) GenerateVideo(ctx context.Context, req VideoRequest) (string, error) {
	if g.models == nil {
		return "", ErrNoAPIKey
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return "", ErrEmptyPrompt
	}
	if req.Resolution == "" {
		req.Resolution = ResolutionSD
	}
	if req.AspectRatio == "" {
		req.AspectRatio = VideoLandscape
	}
	if req.Resolution != ResolutionSD && req.Resolution != ResolutionHD {
		return "", fmt.Errorf("%w: unsupported resolution %q", ErrInvalidRequest, req.Resolution)
	}
	if req.AspectRatio != VideoLandscape && req.AspectRatio != VideoPortrait {
		return "", fmt.Errorf("%w: unsupported aspect ratio %q", ErrInvalidRequest, req.AspectRatio)
	}

	start := time.Now()
	uri, polls, err := g.runVideo(ctx, req)

	result := "success"
	if err != nil {
		result = "error"
	}
	metrics.New(metrics.Namespace).
		Dimension("Model", g.names.Video).
		Dimension("Result", result).
		Metric("VideoLatencyMs", float64(time.Since(start).Milliseconds()), metrics.UnitMilliseconds).
		Metric("VideoPolls", float64(polls), metrics.UnitCount).
		Count("VideoCount").
		Flush()

	if err != nil {
		log.Error().Err(err).Str("model", g.names.Video).Int("polls", polls).Msg("Video generation failed")
		return "", err
	}
	log.Info().
		Str("model", g.names.Video).
		Int("polls", polls).
		Dur("duration", time.Since(start)).
		Msg("Video generated")
	return uri, nil
}

func (g *Generator) runVideo(ctx context.Context, req VideoRequest) (string, int, error) {
	op, err := g.models.GenerateVideos(ctx, g.names.Video, req.Prompt, nil, &genai.GenerateVideosConfig{
		NumberOfVideos: 1,
		Resolution:     string(req.Resolution),
		AspectRatio:    string(req.AspectRatio),
	})
	if err != nil {
		return "", 0, fmt.Errorf("video generation request failed: %w", err)
	}
	if op == nil {
		return "", 0, errors.New("video generation returned no operation")
	}
	log.Debug().Str("operation", op.Name).Msg("Video operation started")

	ticker := time.NewTicker(g.pollInterval)
	defer ticker.Stop()

	polls := 0
	for !op.Done {
		select {
		case <-ctx.Done():
			return "", polls, fmt.Errorf("video generation cancelled: %w", ctx.Err())
		case <-ticker.C:
		}
		polls++
		next, err := g.ops.GetVideosOperation(ctx, op, nil)
		if err != nil {
			return "", polls, fmt.Errorf("failed while polling for video generation status: %w", err)
		}
		if next == nil {
			return "", polls, errors.New("video operation poll returned no operation")
		}
		op = next
		log.Debug().Str("operation", op.Name).Int("poll", polls).Bool("done", op.Done).Msg("Polled video operation")
	}

	if len(op.Error) > 0 {
		return "", polls, fmt.Errorf("video generation failed: %v", op.Error["message"])
	}
	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 ||
		op.Response.GeneratedVideos[0].Video == nil || op.Response.GeneratedVideos[0].Video.URI == "" {
		return "", polls, errors.New("video generation finished, but no download link was found")
	}
	return op.Response.GeneratedVideos[0].Video.URI, polls, nil
}
