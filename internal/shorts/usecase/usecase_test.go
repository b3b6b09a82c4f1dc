package usecase

import (
	"context"
	"database/sql"
	"testing"

	"github.com/amankumarsingh77/shortform-backend/internal/config"
	"github.com/amankumarsingh77/shortform-backend/internal/models"
	"github.com/pkg/errors"
)

type nopLogger struct{}

func (nopLogger) InitLogger()                            {}
func (nopLogger) Debug(args ...interface{})              {}
func (nopLogger) Debugf(t string, args ...interface{})   {}
func (nopLogger) Info(args ...interface{})               {}
func (nopLogger) Infof(t string, args ...interface{})    {}
func (nopLogger) Warn(args ...interface{})               {}
func (nopLogger) Warnf(t string, args ...interface{})    {}
func (nopLogger) Error(args ...interface{})              {}
func (nopLogger) Errorf(t string, args ...interface{})   {}
func (nopLogger) Fatal(args ...interface{})              {}
func (nopLogger) Fatalf(t string, args ...interface{})   {}

type fakeCatalog struct {
	voices map[string]*models.Voice
	tracks map[string]*models.MusicTrack
}

func (f *fakeCatalog) GetVoiceByID(_ context.Context, id string) (*models.Voice, error) {
	if v, ok := f.voices[id]; ok {
		return v, nil
	}
	return nil, errors.Wrap(sql.ErrNoRows, "catalogRepo.GetVoiceByID")
}

func (f *fakeCatalog) ListVoices(_ context.Context) ([]*models.Voice, error) {
	var out []*models.Voice
	for _, v := range f.voices {
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeCatalog) GetTrackByID(_ context.Context, id string) (*models.MusicTrack, error) {
	if tr, ok := f.tracks[id]; ok {
		return tr, nil
	}
	return nil, errors.Wrap(sql.ErrNoRows, "catalogRepo.GetTrackByID")
}

func (f *fakeCatalog) ListTracks(_ context.Context) ([]*models.MusicTrack, error) {
	var out []*models.MusicTrack
	for _, tr := range f.tracks {
		out = append(out, tr)
	}
	return out, nil
}

type fakeTracker struct {
	created  []*models.ProcessingJob
	enqueued []string
	jobs     map[string]*models.ProcessingJob
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{jobs: map[string]*models.ProcessingJob{}}
}

func (f *fakeTracker) CreateJob(_ context.Context, job *models.ProcessingJob) error {
	f.created = append(f.created, job)
	f.jobs[job.JobID] = job
	return nil
}

func (f *fakeTracker) GetJob(_ context.Context, id string) (*models.ProcessingJob, error) {
	return f.jobs[id], nil
}

func (f *fakeTracker) UpdateJob(_ context.Context, id string, _ *models.JobUpdate) (*models.ProcessingJob, error) {
	return f.jobs[id], nil
}

func (f *fakeTracker) EnqueueJob(_ context.Context, id string) error {
	f.enqueued = append(f.enqueued, id)
	return nil
}

func (f *fakeTracker) ClaimJob(_ context.Context) (*models.ProcessingJob, error) { return nil, nil }
func (f *fakeTracker) ReleaseJob(_ context.Context, _ string) error              { return nil }
func (f *fakeTracker) SubscribeToJob(_ context.Context, _ string) (<-chan *models.ProcessingJob, func(), error) {
	return nil, func() {}, nil
}

func newTestUC(tracker *fakeTracker) *shortsUC {
	cfg := &config.Config{}
	cfg.Pipeline.DefaultMusicVolume = 0.3
	catalog := &fakeCatalog{
		voices: map[string]*models.Voice{
			"en-1": {VoiceID: "en-1", Name: "Alloy", Language: "en", ModelS3Key: "voices/en-1.onnx", ConfigS3Key: "voices/en-1.json"},
		},
		tracks: map[string]*models.MusicTrack{
			"lofi-1": {TrackID: "lofi-1", Name: "Night Drive", Category: "lofi", Duration: 120, S3Key: "music/lofi-1.mp3"},
		},
	}
	return &shortsUC{cfg: cfg, catalogRepo: catalog, redisRepo: tracker, logger: nopLogger{}}
}

func validInput() *models.CreateShortInput {
	return &models.CreateShortInput{
		VideoURL: "s3://videos/lecture.mp4",
		Segments: []models.ScriptSegment{
			{ID: "s1", Script: "Welcome to the course.", SourceTimestamp: 12},
			{ID: "s2", Script: "Here is the key idea.", SourceTimestamp: 85, OutputTime: 5},
		},
		VoiceID: "en-1",
	}
}

func TestCreateJob_Valid(t *testing.T) {
	tracker := newFakeTracker()
	uc := newTestUC(tracker)

	job, err := uc.CreateJob(context.Background(), validInput())
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	if job.Status != models.JobStatusPending || job.Stage != models.StageQueued {
		t.Errorf("new job should be pending/queued, got %s/%s", job.Status, job.Stage)
	}
	if job.TotalSegments != 2 {
		t.Errorf("TotalSegments = %d, want 2", job.TotalSegments)
	}
	if job.EstimatedDuration <= 0 {
		t.Errorf("expected a positive runtime estimate, got %v", job.EstimatedDuration)
	}
	if len(tracker.created) != 1 || len(tracker.enqueued) != 1 {
		t.Fatalf("expected one create and one enqueue, got %d/%d", len(tracker.created), len(tracker.enqueued))
	}
	if tracker.enqueued[0] != job.JobID {
		t.Errorf("enqueued id %s does not match job %s", tracker.enqueued[0], job.JobID)
	}
}

func TestCreateJob_RejectedBeforeRecordExists(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.CreateShortInput)
	}{
		{"missing video url", func(in *models.CreateShortInput) { in.VideoURL = "" }},
		{"empty segment list", func(in *models.CreateShortInput) { in.Segments = nil }},
		{"missing voice id", func(in *models.CreateShortInput) { in.VoiceID = "" }},
		{"empty segment script", func(in *models.CreateShortInput) { in.Segments[0].Script = "" }},
		{"negative source timestamp", func(in *models.CreateShortInput) { in.Segments[1].SourceTimestamp = -3 }},
		{"malformed source timecode", func(in *models.CreateShortInput) { in.Segments[0].SourceTimecode = "1:xx" }},
		{"music volume above range", func(in *models.CreateShortInput) { v := 1.5; in.MusicVolume = &v }},
		{"unknown voice", func(in *models.CreateShortInput) { in.VoiceID = "nope" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := newFakeTracker()
			uc := newTestUC(tracker)
			in := validInput()
			tt.mutate(in)

			if _, err := uc.CreateJob(context.Background(), in); err == nil {
				t.Fatal("expected rejection")
			}
			if len(tracker.created) != 0 {
				t.Errorf("rejected submission must not create a job record")
			}
			if len(tracker.enqueued) != 0 {
				t.Errorf("rejected submission must not enqueue")
			}
		})
	}
}

func TestCreateJob_DefaultsMusicVolume(t *testing.T) {
	tracker := newFakeTracker()
	uc := newTestUC(tracker)
	in := validInput()
	in.MusicID = "lofi-1"

	job, err := uc.CreateJob(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	if job.MusicVolume != 0.3 {
		t.Errorf("MusicVolume = %v, want default 0.3", job.MusicVolume)
	}
}

func TestCreateJob_ExplicitZeroMusicVolumeSticks(t *testing.T) {
	tracker := newFakeTracker()
	uc := newTestUC(tracker)
	in := validInput()
	in.MusicID = "lofi-1"
	zero := 0.0
	in.MusicVolume = &zero

	job, err := uc.CreateJob(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	if job.MusicVolume != 0 {
		t.Errorf("MusicVolume = %v, explicit zero gain must not be defaulted", job.MusicVolume)
	}
}

func TestCreateJob_ResolvesSourceTimecode(t *testing.T) {
	tracker := newFakeTracker()
	uc := newTestUC(tracker)
	in := validInput()
	in.Segments[0].SourceTimecode = "1:30"
	in.Segments[1].SourceTimecode = "0:02:05"

	job, err := uc.CreateJob(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	if job.Segments[0].SourceTimestamp != 90 {
		t.Errorf("segment 0 timestamp = %v, want 90", job.Segments[0].SourceTimestamp)
	}
	if job.Segments[1].SourceTimestamp != 125 {
		t.Errorf("segment 1 timestamp = %v, want 125", job.Segments[1].SourceTimestamp)
	}
}
