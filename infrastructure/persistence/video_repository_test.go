package persistence

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"mediavault/domain/model"
)

var videoRows = []string{
	"id", "storage_ref", "title", "duration_seconds", "created_at",
	"last_playback_position", "last_played_at", "source_kind", "social_platform",
}

func TestVideoRepository_InsertThenList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewVideoRepository(db)

	createdAt := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	rec := model.VideoRecord{
		ID:              "7b0c8f4e-0000-4000-8000-123456789abc",
		StorageRef:      "clip.mp4",
		Title:           "clip",
		DurationSeconds: 0,
		CreatedAt:       createdAt,
		SourceKind:      model.SourceDirectRemote,
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO saved_videos`)).
		WithArgs(rec.ID, rec.StorageRef, rec.Title, rec.DurationSeconds, createdAt,
			rec.LastPlaybackPosition, nil, "directRemote", "").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Insert(context.Background(), rec))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, storage_ref, title, duration_seconds, created_at, last_playback_position, last_played_at, source_kind, social_platform FROM saved_videos ORDER BY created_at DESC`)).
		WillReturnRows(sqlmock.NewRows(videoRows).
			AddRow(rec.ID, rec.StorageRef, rec.Title, rec.DurationSeconds, createdAt, 0.0, nil, "directRemote", ""))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, rec, list[0])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVideoRepository_GetById(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewVideoRepository(db)

	createdAt := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	playedAt := createdAt.Add(2 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM saved_videos WHERE id = $1`)).
		WithArgs("vid-1").
		WillReturnRows(sqlmock.NewRows(videoRows).
			AddRow("vid-1", "holiday.mov", "Holiday", 180.0, createdAt, 42.5, playedAt, "local", ""))

	rec, err := repo.GetById(context.Background(), "vid-1")
	require.NoError(t, err)
	require.Equal(t, "holiday.mov", rec.StorageRef)
	require.Equal(t, model.SourceLocal, rec.SourceKind)
	require.Equal(t, 42.5, rec.LastPlaybackPosition)
	require.NotNil(t, rec.LastPlayedAt)
	require.Equal(t, playedAt, *rec.LastPlayedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVideoRepository_GetById_Missing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewVideoRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM saved_videos WHERE id = $1`)).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetById(context.Background(), "nope")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVideoRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewVideoRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM saved_videos WHERE id = $1`)).
		WithArgs("vid-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "vid-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
