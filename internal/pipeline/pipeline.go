package pipeline

import (
	"context"

	"github.com/amankumarsingh77/shortform-backend/internal/models"
	"github.com/pkg/errors"
)

var (
	// ErrOutOfRange is returned when a requested extraction window lies
	// entirely beyond the end of the source video.
	ErrOutOfRange = errors.New("extraction window out of range")
	// ErrSynthesis is returned when the speech engine rejects the input or
	// its voice assets cannot be loaded.
	ErrSynthesis = errors.New("speech synthesis failed")
)

// Voiceover is one synthesized narration clip.
type Voiceover struct {
	Path     string
	Duration float64
}

// Point is a located subject position in source-pixel coordinates.
type Point struct {
	X          float64
	Y          float64
	Confidence float64
}

// MediaInfo describes a probed video file.
type MediaInfo struct {
	Width    int
	Height   int
	Duration float64
}

// Synthesizer turns segment text into audio. At most one voice is hot at a
// time; loading is single-flight per process.
type Synthesizer interface {
	LoadVoice(ctx context.Context, voice *models.Voice) error
	Synthesize(ctx context.Context, text string, voice *models.Voice, outPath string) (*Voiceover, error)
}

// Locator finds the most salient subject point per frame. A nil point is a
// valid no-detection result, not an error.
type Locator interface {
	WarmUp(ctx context.Context) error
	Locate(ctx context.Context, framePath string) (*Point, error)
	LocateAll(ctx context.Context, framePaths []string) ([]*Point, error)
}

// Extractor cuts fixed-length windows out of the source video and samples
// frames from clips for subject location.
type Extractor interface {
	Extract(ctx context.Context, source string, startTime float64, outPath string) error
	SampleFrames(ctx context.Context, clipPath, outDir string) ([]string, error)
	Probe(ctx context.Context, path string) (*MediaInfo, error)
}

// Cropper computes and applies the 9:16 smart crop.
type Cropper interface {
	ComputeCrop(points []*Point, frameWidth, frameHeight int) models.CropRegion
	Smooth(prev, next models.CropRegion, frameWidth, frameHeight int) models.CropRegion
	Apply(ctx context.Context, clipPath string, crop models.CropRegion, outPath string) error
}

// Matcher time-stretches a clip toward a target duration, returning the
// applied speed factor (clamped, so the result may only approximate the
// target).
type Matcher interface {
	Match(ctx context.Context, clipPath string, targetDuration float64, outPath string) (float64, error)
}

// StitchSegment pairs one processed clip with its voiceover, in output order.
type StitchSegment struct {
	ClipPath  string
	VoicePath string
	Duration  float64
}

type StitchInput struct {
	Segments   []StitchSegment
	MusicPath  string
	MusicGain  float64
	OutputPath string
}

// Stitcher concatenates clips and voiceovers, mixes optional music and muxes
// the final artifact.
type Stitcher interface {
	Stitch(ctx context.Context, in StitchInput) error
}

// Fetcher retrieves an asset reference (s3://, http(s):// or a local path)
// into a local file.
type Fetcher interface {
	Fetch(ctx context.Context, ref, destPath string) error
}
