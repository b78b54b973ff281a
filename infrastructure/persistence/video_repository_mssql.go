package persistence

import (
	"context"
	"database/sql"
	"time"

	"mediavault/domain/model"
	"mediavault/domain/repository"
	"mediavault/infrastructure/logger"
)

// VideoRepositoryMSSQL is the SQL Server implementation of the video
// catalog, used when the service runs against Azure SQL.
type VideoRepositoryMSSQL struct{ db *sql.DB }

func NewVideoRepositoryMSSQL(db *sql.DB) repository.IVideoCatalog {
	return &VideoRepositoryMSSQL{db}
}

func (r *VideoRepositoryMSSQL) Insert(ctx context.Context, rec model.VideoRecord) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO dbo.saved_videos (`+videoColumns+`)
	VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7, @p8, @p9)`,
		rec.ID, rec.StorageRef, rec.Title, rec.DurationSeconds, createdAt,
		rec.LastPlaybackPosition, rec.LastPlayedAt, string(rec.SourceKind), rec.SocialPlatform)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"error": err,
			"id":    rec.ID,
		}).Error("mssql: insert video record failed")
	}
	return err
}

func (r *VideoRepositoryMSSQL) List(ctx context.Context) ([]model.VideoRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+videoColumns+` FROM dbo.saved_videos ORDER BY created_at DESC`)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mssql: list video records failed")
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

func (r *VideoRepositoryMSSQL) GetById(ctx context.Context, id string) (model.VideoRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+videoColumns+` FROM dbo.saved_videos WHERE id = @p1`, id)
	return scanVideo(row)
}

func (r *VideoRepositoryMSSQL) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM dbo.saved_videos WHERE id = @p1`, id)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"error": err,
			"id":    id,
		}).Error("mssql: delete video record failed")
	}
	return err
}

// PlaybackRepositoryMSSQL is the SQL Server playback position store.
type PlaybackRepositoryMSSQL struct{ db *sql.DB }

func NewPlaybackRepositoryMSSQL(db *sql.DB) repository.IPlaybackPosition {
	return &PlaybackRepositoryMSSQL{db}
}

func (r *PlaybackRepositoryMSSQL) UpdatePosition(ctx context.Context, id string, seconds float64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE dbo.saved_videos SET last_playback_position = @p1, last_played_at = @p2 WHERE id = @p3`,
		seconds, time.Now().UTC(), id)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"error": err,
			"id":    id,
		}).Error("mssql: update playback position failed")
	}
	return err
}

func (r *PlaybackRepositoryMSSQL) GetPosition(ctx context.Context, id string) (float64, error) {
	row := r.db.QueryRowContext(ctx, `SELECT last_playback_position FROM dbo.saved_videos WHERE id = @p1`, id)
	var seconds float64
	if err := row.Scan(&seconds); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, err
	}
	return seconds, nil
}

func (r *PlaybackRepositoryMSSQL) ResetPosition(ctx context.Context, id string) error {
	return r.UpdatePosition(ctx, id, 0)
}
