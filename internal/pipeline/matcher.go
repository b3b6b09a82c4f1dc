package pipeline

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// durationMatcher linearly remaps a clip's timeline so its playback length
// approaches the paired voiceover's duration. Clips are silent at this point,
// so only the video timeline is stretched.
type durationMatcher struct {
	ffmpeg   *FFmpeg
	minSpeed float64
	maxSpeed float64
}

func NewDurationMatcher(ffmpeg *FFmpeg, minSpeed, maxSpeed float64) Matcher {
	if minSpeed <= 0 {
		minSpeed = 0.5
	}
	if maxSpeed <= 0 {
		maxSpeed = 2.0
	}
	return &durationMatcher{ffmpeg: ffmpeg, minSpeed: minSpeed, maxSpeed: maxSpeed}
}

// clampSpeed bounds the playback-speed multiplier. When the natural ratio
// falls outside the bounds the output only approximates the target duration;
// that deviation is accepted, not an error.
func clampSpeed(current, target, minSpeed, maxSpeed float64) float64 {
	if target <= 0 || current <= 0 {
		return 1
	}
	speed := current / target
	if speed < minSpeed {
		return minSpeed
	}
	if speed > maxSpeed {
		return maxSpeed
	}
	return speed
}

func (m *durationMatcher) Match(ctx context.Context, clipPath string, targetDuration float64, outPath string) (float64, error) {
	current, err := m.ffmpeg.ProbeDuration(ctx, clipPath)
	if err != nil {
		return 0, err
	}
	speed := clampSpeed(current, targetDuration, m.minSpeed, m.maxSpeed)

	err = m.ffmpeg.Run(ctx,
		"-i", clipPath,
		"-vf", fmt.Sprintf("setpts=PTS/%.6f", speed),
		"-an",
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "23",
		"-r", "30",
		"-pix_fmt", "yuv420p",
		"-y", outPath,
	)
	if err != nil {
		return 0, errors.Wrap(err, "time remap")
	}
	return speed, nil
}
