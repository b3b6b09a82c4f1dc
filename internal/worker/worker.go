package worker

import (
	"context"
	"sync"
	"time"

	"github.com/amankumarsingh77/shortform-backend/internal/config"
	"github.com/amankumarsingh77/shortform-backend/internal/models"
	"github.com/amankumarsingh77/shortform-backend/internal/shorts"
	"github.com/amankumarsingh77/shortform-backend/pkg/logger"
	"github.com/amankumarsingh77/shortform-backend/pkg/utils"
)

// Processor drives one claimed job to a terminal state.
type Processor interface {
	Process(ctx context.Context, job *models.ProcessingJob) error
}

// Worker runs a pool of goroutines that claim queued jobs from the tracker
// and drive them through the pipeline. A claim is exclusive: the queue lock
// keeps two workers off the same job, so each job is processed exactly once
// per claim.
type Worker struct {
	cfg       *config.Config
	logger    logger.Logger
	redisRepo shorts.RedisRepository
	proc      Processor
	wg        sync.WaitGroup
}

func NewWorker(cfg *config.Config, logger logger.Logger, redisRepo shorts.RedisRepository, proc Processor) *Worker {
	return &Worker{
		cfg:       cfg,
		logger:    logger,
		redisRepo: redisRepo,
		proc:      proc,
	}
}

// Start launches the worker pool. It returns immediately; call Wait to block
// until the context is cancelled and all workers have drained.
func (w *Worker) Start(ctx context.Context) {
	count := w.cfg.Worker.WorkerCount
	if count <= 0 {
		count = 1
	}
	w.logger.Infof("starting %d workers", count)
	for i := 0; i < count; i++ {
		w.wg.Add(1)
		go w.run(ctx, i)
	}
}

func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) run(ctx context.Context, id int) {
	defer w.wg.Done()

	pollInterval := time.Duration(w.cfg.Worker.PollIntervalSec) * time.Second
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Infof("worker %d stopping", id)
			return
		case <-ticker.C:
			if ok, usage := utils.CheckCPUUsage(w.cfg.Worker.MaxCPUUsage); !ok {
				w.logger.Debugf("worker %d backing off, cpu at %.1f%%", id, usage)
				continue
			}
			w.poll(ctx, id)
		}
	}
}

func (w *Worker) poll(ctx context.Context, id int) {
	job, err := w.redisRepo.ClaimJob(ctx)
	if err != nil {
		w.logger.Errorf("worker %d: claim failed: %v", id, err)
		return
	}
	if job == nil {
		return
	}
	w.process(ctx, id, job)
}

func (w *Worker) process(ctx context.Context, id int, job *models.ProcessingJob) {
	// The shutdown context governs queue polling only. A claimed job runs to
	// its terminal tracker write even while the pool is shutting down;
	// cancelling mid-job would strand the record in processing until TTL.
	jobCtx := context.WithoutCancel(ctx)

	defer func() {
		if err := w.redisRepo.ReleaseJob(jobCtx, job.JobID); err != nil {
			w.logger.Errorf("worker %d: release job %s: %v", id, job.JobID, err)
		}
	}()

	w.logger.Infof("worker %d processing job %s (%d segments)", id, job.JobID, len(job.Segments))
	start := time.Now()
	if err := w.proc.Process(jobCtx, job); err != nil {
		w.logger.Errorf("worker %d: job %s failed after %s: %v", id, job.JobID, time.Since(start), err)
		return
	}
	w.logger.Infof("worker %d: job %s done in %s", id, job.JobID, time.Since(start))
}
