package repository

import (
	"context"

	"github.com/amankumarsingh77/shortform-backend/internal/models"
	"github.com/amankumarsingh77/shortform-backend/internal/shorts"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type catalogRepo struct {
	db *sqlx.DB
}

func NewCatalogRepo(db *sqlx.DB) shorts.Repository {
	return &catalogRepo{db: db}
}

func (r *catalogRepo) GetVoiceByID(ctx context.Context, voiceID string) (*models.Voice, error) {
	voice := &models.Voice{}
	if err := r.db.GetContext(ctx, voice, getVoiceByIDQuery, voiceID); err != nil {
		return nil, errors.Wrap(err, "catalogRepo.GetVoiceByID")
	}
	return voice, nil
}

func (r *catalogRepo) ListVoices(ctx context.Context) ([]*models.Voice, error) {
	var voices []*models.Voice
	if err := r.db.SelectContext(ctx, &voices, listVoicesQuery); err != nil {
		return nil, errors.Wrap(err, "catalogRepo.ListVoices")
	}
	return voices, nil
}

func (r *catalogRepo) GetTrackByID(ctx context.Context, trackID string) (*models.MusicTrack, error) {
	track := &models.MusicTrack{}
	if err := r.db.GetContext(ctx, track, getTrackByIDQuery, trackID); err != nil {
		return nil, errors.Wrap(err, "catalogRepo.GetTrackByID")
	}
	return track, nil
}

func (r *catalogRepo) ListTracks(ctx context.Context) ([]*models.MusicTrack, error) {
	var tracks []*models.MusicTrack
	if err := r.db.SelectContext(ctx, &tracks, listTracksQuery); err != nil {
		return nil, errors.Wrap(err, "catalogRepo.ListTracks")
	}
	return tracks, nil
}
