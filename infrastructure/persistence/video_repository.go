package persistence

import (
	"context"
	"database/sql"
	"time"

	"mediavault/domain/model"
	"mediavault/domain/repository"
	"mediavault/infrastructure/logger"
)

const videoColumns = `id, storage_ref, title, duration_seconds, created_at, last_playback_position, last_played_at, source_kind, social_platform`

// VideoRepository implements the video catalog on PostgreSQL using
// database/sql. Every operation is a single statement.
type VideoRepository struct {
	db *sql.DB
}

func NewVideoRepository(db *sql.DB) repository.IVideoCatalog {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) Insert(ctx context.Context, rec model.VideoRecord) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO saved_videos (`+videoColumns+`)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ID, rec.StorageRef, rec.Title, rec.DurationSeconds, createdAt,
		rec.LastPlaybackPosition, rec.LastPlayedAt, string(rec.SourceKind), rec.SocialPlatform)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"error": err,
			"id":    rec.ID,
		}).Error("Insert video record failed")
	}
	return err
}

func (r *VideoRepository) List(ctx context.Context) ([]model.VideoRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+videoColumns+` FROM saved_videos ORDER BY created_at DESC`)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("List video records failed")
		return nil, err
	}
	defer rows.Close()

	var list []model.VideoRecord
	for rows.Next() {
		rec, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

func (r *VideoRepository) GetById(ctx context.Context, id string) (model.VideoRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+videoColumns+` FROM saved_videos WHERE id = $1`, id)
	return scanVideo(row)
}

func (r *VideoRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM saved_videos WHERE id = $1`, id)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"error": err,
			"id":    id,
		}).Error("Delete video record failed")
	}
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVideo(row rowScanner) (model.VideoRecord, error) {
	var rec model.VideoRecord
	var kind string
	var lastPlayedAt sql.NullTime
	if err := row.Scan(&rec.ID, &rec.StorageRef, &rec.Title, &rec.DurationSeconds, &rec.CreatedAt,
		&rec.LastPlaybackPosition, &lastPlayedAt, &kind, &rec.SocialPlatform); err != nil {
		return rec, err
	}
	rec.SourceKind = model.SourceKind(kind)
	if lastPlayedAt.Valid {
		t := lastPlayedAt.Time
		rec.LastPlayedAt = &t
	}
	return rec, nil
}
