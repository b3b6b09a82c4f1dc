package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ffmpegStitcher concatenates the processed clips and voiceovers in order,
// mixes in optional background music and muxes the final artifact. Clips
// arrive pre-normalized to one encoding profile, so video concat is a pure
// stream copy.
type ffmpegStitcher struct {
	ffmpeg *FFmpeg
}

func NewStitcher(ffmpeg *FFmpeg) Stitcher {
	return &ffmpegStitcher{ffmpeg: ffmpeg}
}

func (s *ffmpegStitcher) Stitch(ctx context.Context, in StitchInput) error {
	if len(in.Segments) == 0 {
		return errors.New("nothing to stitch")
	}

	workDir, err := os.MkdirTemp(filepath.Dir(in.OutputPath), "stitch_")
	if err != nil {
		return errors.Wrap(err, "create stitch scratch dir")
	}
	defer os.RemoveAll(workDir)

	videoPath := filepath.Join(workDir, "video.mp4")
	if err := s.concatVideo(ctx, in.Segments, workDir, videoPath); err != nil {
		return err
	}

	voicePath := filepath.Join(workDir, "voice.wav")
	if err := s.concatVoice(ctx, in.Segments, voicePath); err != nil {
		return err
	}

	audioPath := voicePath
	if in.MusicPath != "" {
		audioPath = filepath.Join(workDir, "mixed.wav")
		if err := s.mixMusic(ctx, voicePath, in.MusicPath, in.MusicGain, audioPath); err != nil {
			return err
		}
	}

	// Trim to the shorter stream; by construction both should already match.
	err = s.ffmpeg.Run(ctx,
		"-i", videoPath,
		"-i", audioPath,
		"-map", "0:v",
		"-map", "1:a",
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		"-movflags", "+faststart",
		"-y", in.OutputPath,
	)
	if err != nil {
		os.Remove(in.OutputPath)
		return errors.Wrap(err, "mux failed")
	}
	return nil
}

func (s *ffmpegStitcher) concatVideo(ctx context.Context, segments []StitchSegment, workDir, outPath string) error {
	listPath := filepath.Join(workDir, "concat_list.txt")
	listFile, err := os.Create(listPath)
	if err != nil {
		return errors.Wrap(err, "create concat list")
	}
	for _, seg := range segments {
		absPath, err := filepath.Abs(seg.ClipPath)
		if err != nil {
			listFile.Close()
			return errors.Wrap(err, "resolve clip path")
		}
		if _, err := fmt.Fprintf(listFile, "file '%s'\n", absPath); err != nil {
			listFile.Close()
			return errors.Wrap(err, "write concat list")
		}
	}
	listFile.Close()

	err = s.ffmpeg.Run(ctx,
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		"-y", outPath,
	)
	return errors.Wrap(err, "video concat failed")
}

func (s *ffmpegStitcher) concatVoice(ctx context.Context, segments []StitchSegment, outPath string) error {
	args := []string{}
	for _, seg := range segments {
		args = append(args, "-i", seg.VoicePath)
	}

	var filter strings.Builder
	for i := range segments {
		fmt.Fprintf(&filter, "[%d:a]", i)
	}
	fmt.Fprintf(&filter, "concat=n=%d:v=0:a=1[aout]", len(segments))

	args = append(args,
		"-filter_complex", filter.String(),
		"-map", "[aout]",
		"-c:a", "pcm_s16le",
		"-y", outPath,
	)
	return errors.Wrap(s.ffmpeg.Run(ctx, args...), "voice concat failed")
}

// mixMusic scales the music by the gain and mixes it under the voice track.
// duration=first keeps the voice track authoritative: music never extends
// the output.
func (s *ffmpegStitcher) mixMusic(ctx context.Context, voicePath, musicPath string, gain float64, outPath string) error {
	filter := fmt.Sprintf(
		"[1:a]volume=%.3f[music];[0:a][music]amix=inputs=2:duration=first:dropout_transition=2[aout]",
		gain,
	)
	err := s.ffmpeg.Run(ctx,
		"-i", voicePath,
		"-i", musicPath,
		"-filter_complex", filter,
		"-map", "[aout]",
		"-c:a", "pcm_s16le",
		"-y", outPath,
	)
	return errors.Wrap(err, "music mix failed")
}
