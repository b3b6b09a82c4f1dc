package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/amankumarsingh77/shortform-backend/internal/config"
	"github.com/amankumarsingh77/shortform-backend/internal/models"
	"github.com/amankumarsingh77/shortform-backend/internal/shorts"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

const (
	jobKeyPrefix      = "shorts:job:"
	jobLockPrefix     = "shorts:lock:"
	progressChannel   = "shorts:progress:"
	jobLockExpiry     = 30 * time.Minute
	defaultJobTTL     = 24 * time.Hour
	progressFieldName = "progress"
)

type shortsRedisRepo struct {
	redisClient *redis.Client
	queueKey    string
	jobTTL      time.Duration
}

func NewShortsRedisRepo(redisClient *redis.Client, cfg *config.Config) shorts.RedisRepository {
	ttl := defaultJobTTL
	if cfg.Redis.JobTTLHours > 0 {
		ttl = time.Duration(cfg.Redis.JobTTLHours) * time.Hour
	}
	return &shortsRedisRepo{
		redisClient: redisClient,
		queueKey:    cfg.Redis.JobQueueKey,
		jobTTL:      ttl,
	}
}

func (r *shortsRedisRepo) CreateJob(ctx context.Context, job *models.ProcessingJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return errors.Wrap(err, "marshal job")
	}
	key := jobKeyPrefix + job.JobID
	pipe := r.redisClient.Pipeline()
	pipe.HSet(ctx, key, "job_data", string(data))
	pipe.HSet(ctx, key, "status", string(job.Status))
	pipe.HSet(ctx, key, progressFieldName, job.Progress)
	pipe.Expire(ctx, key, r.jobTTL)
	if _, err = pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "create job")
	}
	return nil
}

func (r *shortsRedisRepo) GetJob(ctx context.Context, jobID string) (*models.ProcessingJob, error) {
	data, err := r.redisClient.HGet(ctx, jobKeyPrefix+jobID, "job_data").Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get job")
	}
	job := &models.ProcessingJob{}
	if err := json.Unmarshal([]byte(data), job); err != nil {
		return nil, errors.Wrap(err, "unmarshal job")
	}
	return job, nil
}

// UpdateJob applies a partial update to the stored record and publishes the
// updated job on the progress channel. Updating a missing job is an error the
// caller must not paper over.
func (r *shortsRedisRepo) UpdateJob(ctx context.Context, jobID string, update *models.JobUpdate) (*models.ProcessingJob, error) {
	job, err := r.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, errors.Errorf("job %s not found", jobID)
	}

	if update.Status != nil {
		job.Status = *update.Status
	}
	if update.Stage != nil {
		job.Stage = *update.Stage
	}
	if update.Progress != nil {
		job.Progress = *update.Progress
	}
	if update.CurrentSegment != nil {
		job.CurrentSegment = *update.CurrentSegment
	}
	if update.Message != nil {
		job.Message = *update.Message
	}
	if update.Error != nil {
		job.Error = *update.Error
	}
	if update.OutputKey != nil {
		job.OutputKey = *update.OutputKey
	}
	if update.OutputURL != nil {
		job.OutputURL = *update.OutputURL
	}
	if update.CaptionWords != nil {
		job.CaptionWords = update.CaptionWords
	}
	if update.CompletedAt != nil {
		job.CompletedAt = update.CompletedAt
	}
	job.UpdatedAt = time.Now()

	data, err := json.Marshal(job)
	if err != nil {
		return nil, errors.Wrap(err, "marshal job")
	}

	key := jobKeyPrefix + jobID
	pipe := r.redisClient.Pipeline()
	pipe.HSet(ctx, key, "job_data", string(data))
	pipe.HSet(ctx, key, "status", string(job.Status))
	pipe.HSet(ctx, key, progressFieldName, job.Progress)
	pipe.Expire(ctx, key, r.jobTTL)
	pipe.Publish(ctx, progressChannel+jobID, string(data))
	if _, err = pipe.Exec(ctx); err != nil {
		return nil, errors.Wrap(err, "update job")
	}
	return job, nil
}

func (r *shortsRedisRepo) EnqueueJob(ctx context.Context, jobID string) error {
	return errors.Wrap(r.redisClient.LPush(ctx, r.queueKey, jobID).Err(), "enqueue job")
}

// ClaimJob scans the queue for a pending job, locks it and marks it
// processing. Returns nil when no claimable job exists.
func (r *shortsRedisRepo) ClaimJob(ctx context.Context) (*models.ProcessingJob, error) {
	length, err := r.redisClient.LLen(ctx, r.queueKey).Result()
	if err != nil {
		return nil, errors.Wrap(err, "queue length")
	}
	if length == 0 {
		return nil, nil
	}

	jobIDs, err := r.redisClient.LRange(ctx, r.queueKey, 0, length-1).Result()
	if err != nil {
		return nil, errors.Wrap(err, "scan queue")
	}

	for _, jobID := range jobIDs {
		locked, err := r.redisClient.SetNX(ctx, jobLockPrefix+jobID, 1, jobLockExpiry).Result()
		if err != nil || !locked {
			continue
		}

		job, err := r.GetJob(ctx, jobID)
		if err != nil || job == nil || job.Status != models.JobStatusPending {
			// Expired or already handled; drop it from the queue and move on.
			r.redisClient.LRem(ctx, r.queueKey, 1, jobID)
			r.redisClient.Del(ctx, jobLockPrefix+jobID)
			continue
		}

		if err := r.redisClient.LRem(ctx, r.queueKey, 1, jobID).Err(); err != nil {
			r.redisClient.Del(ctx, jobLockPrefix+jobID)
			return nil, errors.Wrap(err, "remove claimed job from queue")
		}

		status := models.JobStatusProcessing
		updated, err := r.UpdateJob(ctx, jobID, &models.JobUpdate{Status: &status})
		if err != nil {
			r.redisClient.Del(ctx, jobLockPrefix+jobID)
			return nil, err
		}
		return updated, nil
	}
	return nil, nil
}

func (r *shortsRedisRepo) ReleaseJob(ctx context.Context, jobID string) error {
	return errors.Wrap(r.redisClient.Del(ctx, jobLockPrefix+jobID).Err(), "release job lock")
}

// SubscribeToJob streams job updates published by UpdateJob. The returned
// close func must be called to tear the subscription down.
func (r *shortsRedisRepo) SubscribeToJob(ctx context.Context, jobID string) (<-chan *models.ProcessingJob, func(), error) {
	pubsub := r.redisClient.Subscribe(ctx, progressChannel+jobID)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, errors.Wrap(err, "subscribe to job")
	}

	updates := make(chan *models.ProcessingJob)
	go func() {
		defer close(updates)
		for msg := range pubsub.Channel() {
			job := &models.ProcessingJob{}
			if err := json.Unmarshal([]byte(msg.Payload), job); err != nil {
				continue
			}
			select {
			case updates <- job:
			case <-ctx.Done():
				return
			}
		}
	}()
	return updates, func() { pubsub.Close() }, nil
}
