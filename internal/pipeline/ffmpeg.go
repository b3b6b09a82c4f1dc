package pipeline

import (
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// FFmpeg wraps the ffmpeg/ffprobe binaries used by every media component.
type FFmpeg struct {
	ffmpeg  string
	ffprobe string
}

func NewFFmpeg(ffmpegPath, ffprobePath string) *FFmpeg {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFmpeg{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

func (f *FFmpeg) Run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, f.ffmpeg, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, "ffmpeg %s: %s", strings.Join(args, " "), string(out))
	}
	return nil
}

func (f *FFmpeg) probe(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, f.ffprobe, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", errors.Wrapf(err, "ffprobe: %s", string(out))
	}
	return strings.TrimSpace(string(out)), nil
}

func (f *FFmpeg) ProbeDuration(ctx context.Context, path string) (float64, error) {
	out, err := f.probe(ctx,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, err
	}
	dur, err := strconv.ParseFloat(out, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid duration %q", out)
	}
	return dur, nil
}

func (f *FFmpeg) ProbeVideo(ctx context.Context, path string) (*MediaInfo, error) {
	out, err := f.probe(ctx,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "csv=p=0",
		path,
	)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(strings.TrimRight(out, ","), ",")
	if len(parts) != 2 {
		return nil, errors.Errorf("unexpected ffprobe output: %s", out)
	}
	width, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, errors.Wrap(err, "invalid width")
	}
	height, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, errors.Wrap(err, "invalid height")
	}
	duration, err := f.ProbeDuration(ctx, path)
	if err != nil {
		return nil, err
	}
	return &MediaInfo{Width: width, Height: height, Duration: duration}, nil
}
