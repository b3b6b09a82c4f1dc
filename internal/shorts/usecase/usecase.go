package usecase

import (
	"context"
	"database/sql"
	"time"

	"github.com/amankumarsingh77/shortform-backend/internal/config"
	"github.com/amankumarsingh77/shortform-backend/internal/models"
	"github.com/amankumarsingh77/shortform-backend/internal/shorts"
	"github.com/amankumarsingh77/shortform-backend/pkg/logger"
	"github.com/amankumarsingh77/shortform-backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type shortsUC struct {
	cfg         *config.Config
	catalogRepo shorts.Repository
	redisRepo   shorts.RedisRepository
	logger      logger.Logger
}

func NewShortsUseCase(
	cfg *config.Config,
	catalogRepo shorts.Repository,
	redisRepo shorts.RedisRepository,
	log logger.Logger,
) shorts.UseCase {
	return &shortsUC{
		cfg:         cfg,
		catalogRepo: catalogRepo,
		redisRepo:   redisRepo,
		logger:      log,
	}
}

// CreateJob validates the submission, snapshots it into a pending job record
// and enqueues it for a worker. Validation failures never create a record.
func (u *shortsUC) CreateJob(ctx context.Context, input *models.CreateShortInput) (*models.ProcessingJob, error) {
	if input == nil {
		return nil, errors.New("invalid input: input is nil")
	}
	for i := range input.Segments {
		if tc := input.Segments[i].SourceTimecode; tc != "" {
			ts, err := utils.ParseTimestamp(tc)
			if err != nil {
				return nil, errors.Wrapf(err, "segment %s", input.Segments[i].ID)
			}
			input.Segments[i].SourceTimestamp = ts
		}
	}

	if err := utils.ValidateStruct(ctx, input); err != nil {
		u.logger.Errorf("CreateJob - ValidateStruct error: %v", err)
		return nil, errors.Wrap(err, "invalid input")
	}

	if _, err := u.catalogRepo.GetVoiceByID(ctx, input.VoiceID); err != nil {
		if errors.Is(errors.Cause(err), sql.ErrNoRows) {
			return nil, shorts.ErrVoiceNotFound
		}
		u.logger.Errorf("CreateJob - GetVoiceByID error: %v", err)
		return nil, errors.Wrap(err, "failed to resolve voice")
	}

	var musicVolume float64
	if input.MusicID != "" {
		if _, err := u.catalogRepo.GetTrackByID(ctx, input.MusicID); err != nil {
			if errors.Is(errors.Cause(err), sql.ErrNoRows) {
				return nil, shorts.ErrTrackNotFound
			}
			u.logger.Errorf("CreateJob - GetTrackByID error: %v", err)
			return nil, errors.Wrap(err, "failed to resolve music track")
		}
		// Omitted volume takes the configured default; an explicit 0 sticks.
		if input.MusicVolume != nil {
			musicVolume = *input.MusicVolume
		} else {
			musicVolume = u.cfg.Pipeline.DefaultMusicVolume
		}
	}

	var estimated float64
	for _, seg := range input.Segments {
		estimated += utils.EstimateSpeechDuration(seg.Script)
	}

	now := time.Now()
	job := &models.ProcessingJob{
		JobID:             uuid.New().String(),
		Status:            models.JobStatusPending,
		Stage:             models.StageQueued,
		Progress:          0,
		TotalSegments:     len(input.Segments),
		Message:           "queued",
		VideoURL:          input.VideoURL,
		Segments:          input.Segments,
		VoiceID:           input.VoiceID,
		MusicID:           input.MusicID,
		MusicVolume:       musicVolume,
		Captions:          input.Captions,
		EstimatedDuration: estimated,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := u.redisRepo.CreateJob(ctx, job); err != nil {
		u.logger.Errorf("CreateJob - CreateJob error: %v", err)
		return nil, errors.Wrap(err, "failed to create job record")
	}
	if err := u.redisRepo.EnqueueJob(ctx, job.JobID); err != nil {
		u.logger.Errorf("CreateJob - EnqueueJob error: %v", err)
		return nil, errors.Wrap(err, "failed to queue the job")
	}

	u.logger.Infof("created job %s (%d segments, voice %s)", job.JobID, job.TotalSegments, job.VoiceID)
	return job, nil
}

func (u *shortsUC) GetJob(ctx context.Context, jobID string) (*models.ProcessingJob, error) {
	if jobID == "" {
		return nil, errors.New("invalid job id: cannot be empty")
	}
	job, err := u.redisRepo.GetJob(ctx, jobID)
	if err != nil {
		u.logger.Errorf("GetJob - failed to fetch job %s: %v", jobID, err)
		return nil, errors.Wrap(err, "failed to fetch job")
	}
	if job == nil {
		return nil, shorts.ErrJobNotFound
	}
	return job, nil
}

func (u *shortsUC) ListVoices(ctx context.Context) ([]*models.Voice, error) {
	voices, err := u.catalogRepo.ListVoices(ctx)
	if err != nil {
		u.logger.Errorf("ListVoices error: %v", err)
		return nil, errors.Wrap(err, "failed to list voices")
	}
	return voices, nil
}

func (u *shortsUC) ListMusic(ctx context.Context) ([]*models.MusicTrack, error) {
	tracks, err := u.catalogRepo.ListTracks(ctx)
	if err != nil {
		u.logger.Errorf("ListMusic error: %v", err)
		return nil, errors.Wrap(err, "failed to list music tracks")
	}
	return tracks, nil
}
