package persistence

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestPlaybackRepository_UpdateThenGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPlaybackRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE saved_videos SET last_playback_position = $1, last_played_at = $2 WHERE id = $3`)).
		WithArgs(63.2, sqlmock.AnyArg(), "vid-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdatePosition(context.Background(), "vid-1", 63.2))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT last_playback_position FROM saved_videos WHERE id = $1`)).
		WithArgs("vid-1").
		WillReturnRows(sqlmock.NewRows([]string{"last_playback_position"}).AddRow(63.2))

	seconds, err := repo.GetPosition(context.Background(), "vid-1")
	require.NoError(t, err)
	require.Equal(t, 63.2, seconds)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaybackRepository_GetPosition_MissDefaultsToZero(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPlaybackRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT last_playback_position FROM saved_videos WHERE id = $1`)).
		WithArgs("unknown").
		WillReturnRows(sqlmock.NewRows([]string{"last_playback_position"}))

	seconds, err := repo.GetPosition(context.Background(), "unknown")
	require.NoError(t, err)
	require.Zero(t, seconds)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaybackRepository_ResetPosition(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPlaybackRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE saved_videos SET last_playback_position = $1, last_played_at = $2 WHERE id = $3`)).
		WithArgs(0.0, sqlmock.AnyArg(), "vid-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.ResetPosition(context.Background(), "vid-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
