package pipeline

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/amankumarsingh77/shortform-backend/internal/models"
	"github.com/amankumarsingh77/shortform-backend/internal/shorts"
	"github.com/amankumarsingh77/shortform-backend/pkg/logger"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

// ttsSynthesizer shells out to a TTS CLI. Voice model assets are pulled from
// S3 on first use and cached on disk; at most one voice is hot at a time and
// a load in progress is never interrupted by a concurrent request
// (single-flight per process).
type ttsSynthesizer struct {
	ttsBin      string
	assetBucket string
	cacheDir    string
	awsRepo     shorts.AWSRepository
	ffmpeg      *FFmpeg
	logger      logger.Logger

	loadGroup singleflight.Group
	mu        sync.Mutex
	hotVoice  string
}

func NewTTSSynthesizer(ttsBin, assetBucket, cacheDir string, awsRepo shorts.AWSRepository, ffmpeg *FFmpeg, log logger.Logger) Synthesizer {
	if ttsBin == "" {
		ttsBin = "tts"
	}
	if cacheDir == "" {
		cacheDir = filepath.Join(os.TempDir(), "shortform_voices")
	}
	return &ttsSynthesizer{
		ttsBin:      ttsBin,
		assetBucket: assetBucket,
		cacheDir:    cacheDir,
		awsRepo:     awsRepo,
		ffmpeg:      ffmpeg,
		logger:      log,
	}
}

// voicePaths derives a voice's on-disk asset locations. Paths depend only on
// the voice itself, never on which voice happens to be hot, so concurrent
// loads of different voices cannot cross-wire each other's assets.
func (s *ttsSynthesizer) voicePaths(voice *models.Voice) (modelPath, cfgPath string) {
	voiceDir := filepath.Join(s.cacheDir, voice.VoiceID)
	return filepath.Join(voiceDir, filepath.Base(voice.ModelS3Key)),
		filepath.Join(voiceDir, filepath.Base(voice.ConfigS3Key))
}

func (s *ttsSynthesizer) LoadVoice(ctx context.Context, voice *models.Voice) error {
	s.mu.Lock()
	if s.hotVoice == voice.VoiceID {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	_, err, _ := s.loadGroup.Do(voice.VoiceID, func() (interface{}, error) {
		if err := os.MkdirAll(filepath.Join(s.cacheDir, voice.VoiceID), 0755); err != nil {
			return nil, errors.Wrapf(ErrSynthesis, "create voice cache dir: %v", err)
		}

		modelPath, cfgPath := s.voicePaths(voice)

		if _, err := os.Stat(modelPath); err != nil {
			if err := s.awsRepo.DownloadFile(ctx, s.assetBucket, voice.ModelS3Key, modelPath); err != nil {
				return nil, errors.Wrapf(ErrSynthesis, "fetch voice model %s: %v", voice.VoiceID, err)
			}
		}
		if _, err := os.Stat(cfgPath); err != nil {
			if err := s.awsRepo.DownloadFile(ctx, s.assetBucket, voice.ConfigS3Key, cfgPath); err != nil {
				return nil, errors.Wrapf(ErrSynthesis, "fetch voice config %s: %v", voice.VoiceID, err)
			}
		}

		// Swap the hot voice only once the new assets are fully in place.
		s.mu.Lock()
		s.hotVoice = voice.VoiceID
		s.mu.Unlock()

		s.logger.Infof("voice %s loaded", voice.VoiceID)
		return nil, nil
	})
	return err
}

func (s *ttsSynthesizer) Synthesize(ctx context.Context, text string, voice *models.Voice, outPath string) (*Voiceover, error) {
	if text == "" {
		return nil, errors.Wrap(ErrSynthesis, "empty script text")
	}
	if err := s.LoadVoice(ctx, voice); err != nil {
		return nil, err
	}

	modelPath, cfgPath := s.voicePaths(voice)

	cmd := exec.CommandContext(ctx, s.ttsBin,
		"--text", text,
		"--model_path", modelPath,
		"--config_path", cfgPath,
		"--out_path", outPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, errors.Wrapf(ErrSynthesis, "engine rejected input: %v: %s", err, string(out))
	}

	duration, err := s.ffmpeg.ProbeDuration(ctx, outPath)
	if err != nil {
		return nil, errors.Wrapf(ErrSynthesis, "probe voiceover duration: %v", err)
	}
	return &Voiceover{Path: outPath, Duration: duration}, nil
}
