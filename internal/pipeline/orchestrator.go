package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/amankumarsingh77/shortform-backend/internal/config"
	"github.com/amankumarsingh77/shortform-backend/internal/models"
	"github.com/amankumarsingh77/shortform-backend/internal/shorts"
	"github.com/amankumarsingh77/shortform-backend/pkg/logger"
	"github.com/amankumarsingh77/shortform-backend/pkg/utils"
	"github.com/pkg/errors"
)

const (
	terminalWriteAttempts = 3
	terminalWriteBackoff  = 500 * time.Millisecond
	subExtract            = 0.0
	subDetect             = 0.35
	subCrop               = 0.7
)

// Deps are the orchestrator's collaborators, injected so the pipeline stays
// independent of any particular engine or storage technology.
type Deps struct {
	Tracker   shorts.RedisRepository
	Catalog   shorts.Repository
	Store     shorts.AWSRepository
	Fetcher   Fetcher
	Synth     Synthesizer
	Locator   Locator
	Extractor Extractor
	Cropper   Cropper
	Matcher   Matcher
	Stitcher  Stitcher
}

// Orchestrator drives one job through the staged pipeline:
// loading → tts → extracting/detecting/cropping per segment → stitching,
// reporting progress to the job tracker after every meaningful unit of work.
// Any stage failure is fatal to the whole job; there is no partial output.
type Orchestrator struct {
	cfg    *config.Config
	logger logger.Logger
	deps   Deps
}

func NewOrchestrator(cfg *config.Config, log logger.Logger, deps Deps) *Orchestrator {
	return &Orchestrator{cfg: cfg, logger: log, deps: deps}
}

// Process runs the job to a terminal state. The terminal status write is the
// only load-bearing tracker write; intermediate progress updates are advisory
// and their failures are logged but never abort the job.
func (o *Orchestrator) Process(ctx context.Context, job *models.ProcessingJob) error {
	tempDir, err := os.MkdirTemp("", "shortform_job_")
	if err != nil {
		return o.fail(ctx, job, models.StageLoading, errors.Wrap(err, "create job workspace"))
	}
	defer os.RemoveAll(tempDir)

	// loading
	o.report(ctx, job, models.StageLoading, 0, 0, "loading engines")
	voice, err := o.deps.Catalog.GetVoiceByID(ctx, job.VoiceID)
	if err != nil {
		return o.fail(ctx, job, models.StageLoading, errors.Wrapf(err, "resolve voice %s", job.VoiceID))
	}
	if err := o.deps.Synth.LoadVoice(ctx, voice); err != nil {
		return o.fail(ctx, job, models.StageLoading, err)
	}
	if err := o.deps.Locator.WarmUp(ctx); err != nil {
		return o.fail(ctx, job, models.StageLoading, err)
	}
	o.report(ctx, job, models.StageLoading, 1, 0, "engines ready")

	// tts
	total := len(job.Segments)
	voiceovers := make([]*Voiceover, total)
	for i, seg := range job.Segments {
		o.report(ctx, job, models.StageTTS, segmentFraction(i, total, 0), i+1,
			fmt.Sprintf("synthesizing voiceover %d/%d", i+1, total))
		outPath := filepath.Join(tempDir, fmt.Sprintf("voice_%03d.wav", i))
		vo, err := o.deps.Synth.Synthesize(ctx, seg.Script, voice, outPath)
		if err != nil {
			return o.fail(ctx, job, models.StageTTS, errors.Wrapf(err, "segment %s", seg.ID))
		}
		voiceovers[i] = vo
	}

	// Source video is fetched at the point it is first needed.
	o.report(ctx, job, models.StageExtracting, 0, 1, "fetching source video")
	sourcePath := filepath.Join(tempDir, "source.mp4")
	if err := o.deps.Fetcher.Fetch(ctx, job.VideoURL, sourcePath); err != nil {
		return o.fail(ctx, job, models.StageExtracting, errors.Wrap(err, "fetch source video"))
	}

	clipsDir := filepath.Join(tempDir, "clips")
	if err := os.MkdirAll(clipsDir, 0755); err != nil {
		return o.fail(ctx, job, models.StageExtracting, errors.Wrap(err, "create clips dir"))
	}

	finalClips := make([]string, total)
	var prevCrop models.CropRegion
	for i, seg := range job.Segments {
		clipPath, crop, stage, err := o.processSegment(ctx, job, i, seg, voiceovers[i], sourcePath, clipsDir, tempDir, prevCrop)
		if err != nil {
			return o.fail(ctx, job, stage, err)
		}
		finalClips[i] = clipPath
		prevCrop = crop
	}

	// stitching
	o.report(ctx, job, models.StageStitching, 0, total, "stitching clips")
	musicPath := ""
	if job.MusicID != "" {
		track, err := o.deps.Catalog.GetTrackByID(ctx, job.MusicID)
		if err != nil {
			return o.fail(ctx, job, models.StageStitching, errors.Wrapf(err, "resolve music track %s", job.MusicID))
		}
		musicPath = filepath.Join(tempDir, "music"+filepath.Ext(track.S3Key))
		musicRef := fmt.Sprintf("s3://%s/%s", o.cfg.S3.AssetBucket, track.S3Key)
		if err := o.deps.Fetcher.Fetch(ctx, musicRef, musicPath); err != nil {
			return o.fail(ctx, job, models.StageStitching, errors.Wrap(err, "fetch music track"))
		}
	}

	stitchSegments := make([]StitchSegment, total)
	for i := range job.Segments {
		stitchSegments[i] = StitchSegment{
			ClipPath:  finalClips[i],
			VoicePath: voiceovers[i].Path,
			Duration:  voiceovers[i].Duration,
		}
	}
	outputPath := filepath.Join(tempDir, "final.mp4")
	err = o.deps.Stitcher.Stitch(ctx, StitchInput{
		Segments:   stitchSegments,
		MusicPath:  musicPath,
		MusicGain:  job.MusicVolume,
		OutputPath: outputPath,
	})
	if err != nil {
		return o.fail(ctx, job, models.StageStitching, err)
	}

	o.report(ctx, job, models.StageStitching, 0.8, total, "uploading output")
	outputKey := fmt.Sprintf("shorts/%s.mp4", job.JobID)
	if err := o.deps.Store.UploadFile(ctx, o.cfg.S3.OutputBucket, outputKey, outputPath, "video/mp4"); err != nil {
		return o.fail(ctx, job, models.StageStitching, errors.Wrap(err, "upload output"))
	}
	expiry := time.Duration(o.cfg.Pipeline.PresignExpiryMin) * time.Minute
	if expiry <= 0 {
		expiry = time.Hour
	}
	outputURL, err := o.deps.Store.GetPresignedURL(ctx, o.cfg.S3.OutputBucket, outputKey, expiry)
	if err != nil {
		return o.fail(ctx, job, models.StageStitching, errors.Wrap(err, "presign output"))
	}

	var captions []models.CaptionWord
	if job.Captions {
		durations := make([]float64, total)
		for i, vo := range voiceovers {
			durations[i] = vo.Duration
		}
		captions = GenerateCaptions(job.Segments, durations)
		o.uploadSRT(ctx, job, captions, tempDir)
	}

	return o.complete(ctx, job, outputKey, outputURL, captions)
}

// processSegment handles one segment's extract/detect/crop/match chain.
// All scratch for the segment lives in its own directory, removed on both
// the success and the failure path; only the finished clip survives.
func (o *Orchestrator) processSegment(
	ctx context.Context,
	job *models.ProcessingJob,
	index int,
	seg models.ScriptSegment,
	vo *Voiceover,
	sourcePath, clipsDir, tempDir string,
	prevCrop models.CropRegion,
) (clipPath string, crop models.CropRegion, stage models.JobStage, err error) {
	total := len(job.Segments)
	segDir := filepath.Join(tempDir, fmt.Sprintf("seg_%03d", index))
	if err := os.MkdirAll(segDir, 0755); err != nil {
		return "", crop, models.StageExtracting, errors.Wrap(err, "create segment scratch dir")
	}
	defer os.RemoveAll(segDir)

	o.report(ctx, job, models.StageExtracting, segmentFraction(index, total, subExtract), index+1,
		fmt.Sprintf("extracting clip %d/%d (source %s)", index+1, total, utils.FormatTimestamp(seg.SourceTimestamp)))
	rawClip := filepath.Join(segDir, "raw.mp4")
	if err := o.deps.Extractor.Extract(ctx, sourcePath, seg.SourceTimestamp, rawClip); err != nil {
		return "", crop, models.StageExtracting, errors.Wrapf(err, "segment %s", seg.ID)
	}

	o.report(ctx, job, models.StageDetecting, segmentFraction(index, total, subDetect), index+1,
		fmt.Sprintf("detecting subject %d/%d", index+1, total))
	frames, err := o.deps.Extractor.SampleFrames(ctx, rawClip, filepath.Join(segDir, "frames"))
	if err != nil {
		return "", crop, models.StageDetecting, errors.Wrapf(err, "segment %s", seg.ID)
	}
	points, err := o.deps.Locator.LocateAll(ctx, frames)
	if err != nil {
		return "", crop, models.StageDetecting, errors.Wrapf(err, "segment %s", seg.ID)
	}

	o.report(ctx, job, models.StageCropping, segmentFraction(index, total, subCrop), index+1,
		fmt.Sprintf("cropping clip %d/%d", index+1, total))
	info, err := o.deps.Extractor.Probe(ctx, rawClip)
	if err != nil {
		return "", crop, models.StageCropping, errors.Wrapf(err, "segment %s", seg.ID)
	}
	crop = o.deps.Cropper.ComputeCrop(points, info.Width, info.Height)
	if o.cfg.Pipeline.SmoothingEnabled && index > 0 {
		crop = o.deps.Cropper.Smooth(prevCrop, crop, info.Width, info.Height)
	}
	croppedClip := filepath.Join(segDir, "cropped.mp4")
	if err := o.deps.Cropper.Apply(ctx, rawClip, crop, croppedClip); err != nil {
		return "", crop, models.StageCropping, errors.Wrapf(err, "segment %s", seg.ID)
	}

	finalClip := filepath.Join(clipsDir, fmt.Sprintf("clip_%03d.mp4", index))
	speed, err := o.deps.Matcher.Match(ctx, croppedClip, vo.Duration, finalClip)
	if err != nil {
		return "", crop, models.StageCropping, errors.Wrapf(err, "segment %s", seg.ID)
	}
	o.logger.Debugf("job %s segment %s: crop %+v speed %.3f", job.JobID, seg.ID, crop, speed)

	return finalClip, crop, models.StageCropping, nil
}

// report pushes an advisory progress update. Reported progress never
// regresses: the stage spans are ordered and per-stage fractions only grow.
func (o *Orchestrator) report(ctx context.Context, job *models.ProcessingJob, stage models.JobStage, fraction float64, currentSegment int, message string) {
	progress := progressFor(stage, fraction)
	if progress < job.Progress {
		progress = job.Progress
	}
	job.Stage = stage
	job.Progress = progress

	status := models.JobStatusProcessing
	update := &models.JobUpdate{
		Status:         &status,
		Stage:          &stage,
		Progress:       &progress,
		CurrentSegment: &currentSegment,
		Message:        &message,
	}
	if _, err := o.deps.Tracker.UpdateJob(ctx, job.JobID, update); err != nil {
		// Advisory write; the job carries on.
		o.logger.Warnf("job %s: progress update failed: %v", job.JobID, err)
	}
}

func (o *Orchestrator) complete(ctx context.Context, job *models.ProcessingJob, outputKey, outputURL string, captions []models.CaptionWord) error {
	status := models.JobStatusComplete
	stage := models.StageComplete
	progress := 100.0
	message := "complete"
	now := time.Now()
	update := &models.JobUpdate{
		Status:       &status,
		Stage:        &stage,
		Progress:     &progress,
		Message:      &message,
		OutputKey:    &outputKey,
		OutputURL:    &outputURL,
		CaptionWords: captions,
		CompletedAt:  &now,
	}
	if err := o.writeTerminal(ctx, job.JobID, update); err != nil {
		o.logger.Errorf("job %s: terminal complete write failed: %v", job.JobID, err)
		return err
	}
	o.logger.Infof("job %s complete: %s", job.JobID, outputKey)
	return nil
}

func (o *Orchestrator) fail(ctx context.Context, job *models.ProcessingJob, stage models.JobStage, cause error) error {
	o.logger.Errorf("job %s failed at %s: %v", job.JobID, stage, cause)

	status := models.JobStatusError
	errMsg := cause.Error()
	message := fmt.Sprintf("failed during %s", stage)
	now := time.Now()
	update := &models.JobUpdate{
		Status:      &status,
		Stage:       &stage,
		Message:     &message,
		Error:       &errMsg,
		CompletedAt: &now,
	}
	if err := o.writeTerminal(ctx, job.JobID, update); err != nil {
		o.logger.Errorf("job %s: terminal error write failed: %v", job.JobID, err)
	}
	return cause
}

// writeTerminal retries the one write that must never be dropped.
func (o *Orchestrator) writeTerminal(ctx context.Context, jobID string, update *models.JobUpdate) error {
	var err error
	for attempt := 1; attempt <= terminalWriteAttempts; attempt++ {
		if _, err = o.deps.Tracker.UpdateJob(ctx, jobID, update); err == nil {
			return nil
		}
		time.Sleep(time.Duration(attempt) * terminalWriteBackoff)
	}
	return err
}

func (o *Orchestrator) uploadSRT(ctx context.Context, job *models.ProcessingJob, captions []models.CaptionWord, tempDir string) {
	srtPath := filepath.Join(tempDir, "captions.srt")
	if err := os.WriteFile(srtPath, []byte(RenderSRT(captions)), 0644); err != nil {
		o.logger.Warnf("job %s: write captions file: %v", job.JobID, err)
		return
	}
	srtKey := fmt.Sprintf("shorts/%s.srt", job.JobID)
	if err := o.deps.Store.UploadFile(ctx, o.cfg.S3.OutputBucket, srtKey, srtPath, "application/x-subrip"); err != nil {
		o.logger.Warnf("job %s: upload captions: %v", job.JobID, err)
	}
}
