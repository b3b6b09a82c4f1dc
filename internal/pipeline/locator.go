package pipeline

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/amankumarsingh77/shortform-backend/pkg/logger"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

// execLocator runs an external face-detector binary per frame. The detector
// prints zero or more "x y confidence" lines; the highest-confidence
// candidate wins. No output means no detection, which is a valid nil result.
// With no binary configured every frame reports no detection and the cropper
// falls back to its default framing.
type execLocator struct {
	detectorBin string
	logger      logger.Logger

	warmGroup singleflight.Group
	mu        sync.Mutex
	warmed    bool
}

func NewExecLocator(detectorBin string, log logger.Logger) Locator {
	return &execLocator{detectorBin: detectorBin, logger: log}
}

// WarmUp loads the detector model once per process; concurrent first-use
// waits on the in-flight load instead of double-initializing.
func (l *execLocator) WarmUp(ctx context.Context) error {
	if l.detectorBin == "" {
		return nil
	}
	l.mu.Lock()
	warmed := l.warmed
	l.mu.Unlock()
	if warmed {
		return nil
	}
	_, err, _ := l.warmGroup.Do("warmup", func() (interface{}, error) {
		cmd := exec.CommandContext(ctx, l.detectorBin, "--warmup")
		if out, err := cmd.CombinedOutput(); err != nil {
			return nil, errors.Wrapf(err, "detector warmup: %s", string(out))
		}
		l.mu.Lock()
		l.warmed = true
		l.mu.Unlock()
		return nil, nil
	})
	return err
}

func (l *execLocator) Locate(ctx context.Context, framePath string) (*Point, error) {
	if l.detectorBin == "" {
		return nil, nil
	}
	cmd := exec.CommandContext(ctx, l.detectorBin, framePath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, errors.Wrapf(err, "detector failed on %s: %s", framePath, string(out))
	}

	var best *Point
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		x, errX := strconv.ParseFloat(fields[0], 64)
		y, errY := strconv.ParseFloat(fields[1], 64)
		conf, errC := strconv.ParseFloat(fields[2], 64)
		if errX != nil || errY != nil || errC != nil {
			continue
		}
		if best == nil || conf > best.Confidence {
			best = &Point{X: x, Y: y, Confidence: conf}
		}
	}
	return best, nil
}

// LocateAll preserves input order; a frame with no detection contributes a
// nil entry.
func (l *execLocator) LocateAll(ctx context.Context, framePaths []string) ([]*Point, error) {
	points := make([]*Point, len(framePaths))
	for i, framePath := range framePaths {
		point, err := l.Locate(ctx, framePath)
		if err != nil {
			return nil, err
		}
		points[i] = point
	}
	return points, nil
}
