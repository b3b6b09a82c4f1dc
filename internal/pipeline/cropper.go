package pipeline

import (
	"context"
	"fmt"
	"math"

	"github.com/amankumarsingh77/shortform-backend/internal/models"
)

// smartCropper computes one static 9:16 crop rectangle per clip from sampled
// subject points. A static rectangle trades per-frame precision for stability
// across the clip.
type smartCropper struct {
	ffmpeg       *FFmpeg
	weightBase   float64
	smoothing    float64
	outputWidth  int
	outputHeight int
}

func NewSmartCropper(ffmpeg *FFmpeg, weightBase, smoothing float64, outputWidth, outputHeight int) Cropper {
	if weightBase <= 1 {
		weightBase = 1.2
	}
	if outputWidth <= 0 || outputHeight <= 0 {
		outputWidth, outputHeight = 720, 1280
	}
	return &smartCropper{
		ffmpeg:       ffmpeg,
		weightBase:   weightBase,
		smoothing:    smoothing,
		outputWidth:  outputWidth,
		outputHeight: outputHeight,
	}
}

func (c *smartCropper) aspect() float64 {
	return float64(c.outputWidth) / float64(c.outputHeight)
}

// ComputeCrop derives the crop rectangle from the located points. Later
// frames weigh more heavily so early transient detections do not drag the
// framing. With no detections the target falls back to horizontal center and
// vertical upper third, where interview footage usually frames its subject.
func (c *smartCropper) ComputeCrop(points []*Point, frameWidth, frameHeight int) models.CropRegion {
	cropWidth, cropHeight := cropSize(frameWidth, frameHeight, c.aspect())

	targetX := float64(frameWidth) / 2
	targetY := float64(frameHeight) / 3

	var sumX, sumY, sumW float64
	n := 0
	for _, p := range points {
		if p != nil {
			n++
		}
	}
	if n > 0 {
		i := 0
		for _, p := range points {
			if p == nil {
				continue
			}
			w := math.Pow(c.weightBase, float64(i)/float64(n))
			if p.Confidence > 0 {
				w *= p.Confidence
			}
			sumX += p.X * w
			sumY += p.Y * w
			sumW += w
			i++
		}
		if sumW > 0 {
			targetX = sumX / sumW
			targetY = sumY / sumW
		}
	}

	// The target lands at horizontal center and vertical upper third of the
	// crop, mirroring face-forward narration framing.
	x := int(math.Round(targetX - float64(cropWidth)/2))
	y := int(math.Round(targetY - float64(cropHeight)/3))

	return clampRegion(models.CropRegion{X: x, Y: y, Width: cropWidth, Height: cropHeight}, frameWidth, frameHeight)
}

// Smooth eases the crop rectangle between consecutive segments to avoid
// jarring framing jumps across cuts. The smoothing factor is the share of
// the new rectangle taken; the rest is retained from the previous segment.
func (c *smartCropper) Smooth(prev, next models.CropRegion, frameWidth, frameHeight int) models.CropRegion {
	if c.smoothing <= 0 || prev.Width == 0 || prev.Height == 0 {
		return next
	}
	f := c.smoothing
	if f > 1 {
		f = 1
	}
	blended := models.CropRegion{
		X:      int(math.Round(float64(prev.X)*(1-f) + float64(next.X)*f)),
		Y:      int(math.Round(float64(prev.Y)*(1-f) + float64(next.Y)*f)),
		Width:  next.Width,
		Height: next.Height,
	}
	return clampRegion(blended, frameWidth, frameHeight)
}

func (c *smartCropper) Apply(ctx context.Context, clipPath string, crop models.CropRegion, outPath string) error {
	filter := fmt.Sprintf("crop=%d:%d:%d:%d,scale=%d:%d",
		crop.Width, crop.Height, crop.X, crop.Y, c.outputWidth, c.outputHeight)
	return c.ffmpeg.Run(ctx,
		"-i", clipPath,
		"-vf", filter,
		"-an",
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "23",
		"-r", "30",
		"-pix_fmt", "yuv420p",
		"-y", outPath,
	)
}

// cropSize shrinks whichever source dimension is oversized relative to the
// target aspect; the output is never padded or letterboxed.
func cropSize(frameWidth, frameHeight int, aspect float64) (int, int) {
	cropWidth := frameWidth
	cropHeight := frameHeight
	if float64(frameWidth)/float64(frameHeight) > aspect {
		cropWidth = int(math.Round(float64(frameHeight) * aspect))
	} else {
		cropHeight = int(math.Round(float64(frameWidth) / aspect))
	}
	if cropWidth > frameWidth {
		cropWidth = frameWidth
	}
	if cropHeight > frameHeight {
		cropHeight = frameHeight
	}
	return cropWidth, cropHeight
}

func clampRegion(r models.CropRegion, frameWidth, frameHeight int) models.CropRegion {
	if r.X < 0 {
		r.X = 0
	}
	if r.Y < 0 {
		r.Y = 0
	}
	if r.X+r.Width > frameWidth {
		r.X = frameWidth - r.Width
	}
	if r.Y+r.Height > frameHeight {
		r.Y = frameHeight - r.Height
	}
	if r.X < 0 {
		r.X = 0
	}
	if r.Y < 0 {
		r.Y = 0
	}
	return r
}
