package shorts

import (
	"context"

	"github.com/amankumarsingh77/shortform-backend/internal/models"
)

// RedisRepository is the job tracker. The orchestrator is the only writer of
// a job record after creation; polling clients and the websocket stream are
// read-only consumers.
type RedisRepository interface {
	CreateJob(ctx context.Context, job *models.ProcessingJob) error
	GetJob(ctx context.Context, jobID string) (*models.ProcessingJob, error)
	UpdateJob(ctx context.Context, jobID string, update *models.JobUpdate) (*models.ProcessingJob, error)

	EnqueueJob(ctx context.Context, jobID string) error
	ClaimJob(ctx context.Context) (*models.ProcessingJob, error)
	ReleaseJob(ctx context.Context, jobID string) error

	SubscribeToJob(ctx context.Context, jobID string) (<-chan *models.ProcessingJob, func(), error)
}
