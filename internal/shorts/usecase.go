package shorts

import (
	"context"

	"github.com/amankumarsingh77/shortform-backend/internal/models"
)

type UseCase interface {
	CreateJob(ctx context.Context, input *models.CreateShortInput) (*models.ProcessingJob, error)
	GetJob(ctx context.Context, jobID string) (*models.ProcessingJob, error)
	ListVoices(ctx context.Context) ([]*models.Voice, error)
	ListMusic(ctx context.Context) ([]*models.MusicTrack, error)
}
