package persistence

import (
	"context"
	"database/sql"
	"time"

	"mediavault/domain/repository"
	"mediavault/infrastructure/logger"
)

// PlaybackRepository persists playback positions on PostgreSQL. Writes
// are last-write-wins; readers tolerate missing records.
type PlaybackRepository struct {
	db *sql.DB
}

func NewPlaybackRepository(db *sql.DB) repository.IPlaybackPosition {
	return &PlaybackRepository{db: db}
}

func (r *PlaybackRepository) UpdatePosition(ctx context.Context, id string, seconds float64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE saved_videos SET last_playback_position = $1, last_played_at = $2 WHERE id = $3`,
		seconds, time.Now().UTC(), id)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"error": err,
			"id":    id,
		}).Error("Update playback position failed")
	}
	return err
}

func (r *PlaybackRepository) GetPosition(ctx context.Context, id string) (float64, error) {
	row := r.db.QueryRowContext(ctx, `SELECT last_playback_position FROM saved_videos WHERE id = $1`, id)
	var seconds float64
	if err := row.Scan(&seconds); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		logger.GetLogger().WithFields(map[string]interface{}{
			"error": err,
			"id":    id,
		}).Error("Get playback position failed")
		return 0, err
	}
	return seconds, nil
}

func (r *PlaybackRepository) ResetPosition(ctx context.Context, id string) error {
	return r.UpdatePosition(ctx, id, 0)
}
