package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EnsureVideoSchema creates the saved_videos table if it is missing.
// Safe to call at startup.
func EnsureVideoSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ddl := `CREATE TABLE IF NOT EXISTS saved_videos (
        id TEXT PRIMARY KEY,
        storage_ref TEXT NOT NULL,
        title TEXT NOT NULL,
        duration_seconds DOUBLE PRECISION NOT NULL DEFAULT 0,
        created_at TIMESTAMPTZ NOT NULL,
        last_playback_position DOUBLE PRECISION NOT NULL DEFAULT 0,
        last_played_at TIMESTAMPTZ,
        source_kind TEXT NOT NULL,
        social_platform TEXT NOT NULL DEFAULT ''
    )`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("creating saved_videos failed: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_saved_videos_created_at ON saved_videos (created_at DESC)`); err != nil {
		return fmt.Errorf("creating saved_videos index failed: %w", err)
	}
	return nil
}
