package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EnsureVideoSchemaMSSQL creates the saved_videos table on SQL Server if
// it is missing.
func EnsureVideoSchemaMSSQL(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ddl := `IF NOT EXISTS (SELECT 1 FROM sys.tables WHERE name = 'saved_videos')
    CREATE TABLE dbo.saved_videos (
        id NVARCHAR(64) PRIMARY KEY,
        storage_ref NVARCHAR(1024) NOT NULL,
        title NVARCHAR(512) NOT NULL,
        duration_seconds FLOAT NOT NULL DEFAULT 0,
        created_at DATETIMEOFFSET NOT NULL,
        last_playback_position FLOAT NOT NULL DEFAULT 0,
        last_played_at DATETIMEOFFSET NULL,
        source_kind NVARCHAR(32) NOT NULL,
        social_platform NVARCHAR(32) NOT NULL DEFAULT ''
    )`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("mssql: creating saved_videos failed: %w", err)
	}
	return nil
}
