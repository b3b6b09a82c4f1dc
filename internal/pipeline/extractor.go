package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
)

// clipExtractor cuts fixed-length windows out of the source video. The
// window length is fixed regardless of script length; the duration matcher
// reconciles the difference later.
type clipExtractor struct {
	ffmpeg         *FFmpeg
	windowSec      float64
	frameSampleSec float64
}

func NewClipExtractor(ffmpeg *FFmpeg, windowSec, frameSampleSec float64) Extractor {
	if windowSec <= 0 {
		windowSec = 10
	}
	if frameSampleSec <= 0 {
		frameSampleSec = 0.5
	}
	return &clipExtractor{
		ffmpeg:         ffmpeg,
		windowSec:      windowSec,
		frameSampleSec: frameSampleSec,
	}
}

// Extract cuts a silent, re-encoded window starting at startTime. Clips are
// normalized to one encoding profile here so concat at stitch time needs no
// re-encode negotiation.
func (e *clipExtractor) Extract(ctx context.Context, source string, startTime float64, outPath string) error {
	if startTime < 0 {
		return errors.Wrapf(ErrOutOfRange, "negative start time %.2f", startTime)
	}
	sourceDuration, err := e.ffmpeg.ProbeDuration(ctx, source)
	if err != nil {
		return err
	}
	if startTime >= sourceDuration {
		return errors.Wrapf(ErrOutOfRange, "window start %.2fs beyond source end %.2fs", startTime, sourceDuration)
	}

	err = e.ffmpeg.Run(ctx,
		"-ss", fmt.Sprintf("%.3f", startTime),
		"-i", source,
		"-t", fmt.Sprintf("%.3f", e.windowSec),
		"-an",
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "23",
		"-r", "30",
		"-pix_fmt", "yuv420p",
		"-y", outPath,
	)
	if err != nil {
		os.Remove(outPath)
		return err
	}
	return nil
}

// SampleFrames writes one JPEG per sample interval and returns the paths in
// frame order.
func (e *clipExtractor) SampleFrames(ctx context.Context, clipPath, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, errors.Wrap(err, "create frame dir")
	}
	err := e.ffmpeg.Run(ctx,
		"-i", clipPath,
		"-vf", fmt.Sprintf("fps=1/%.3f", e.frameSampleSec),
		"-q:v", "2",
		"-y", filepath.Join(outDir, "frame_%04d.jpg"),
	)
	if err != nil {
		return nil, err
	}
	frames, err := filepath.Glob(filepath.Join(outDir, "frame_*.jpg"))
	if err != nil {
		return nil, errors.Wrap(err, "glob frames")
	}
	sort.Strings(frames)
	return frames, nil
}

func (e *clipExtractor) Probe(ctx context.Context, path string) (*MediaInfo, error) {
	return e.ffmpeg.ProbeVideo(ctx, path)
}
