package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mediavault/domain/model"
	"mediavault/infrastructure/cache"
	"mediavault/infrastructure/storage"
)

func newTestStorage(t *testing.T) *storage.MediaStorage {
	t.Helper()
	store, err := storage.NewMediaStorage(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestCatalogList_DecoratesRecords(t *testing.T) {
	catalog := new(MockVideoCatalog)
	catalog.On("List", mock.Anything).Return([]model.VideoRecord{
		{ID: "a", Title: "First", DurationSeconds: 100, LastPlaybackPosition: 50},
		{ID: "b", Title: "Second", DurationSeconds: 100, LastPlaybackPosition: 2},
	}, nil)

	items, err := NewCatalogUsecase(catalog, newTestStorage(t), cache.NewPositionCache(nil)).List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, 0.5, items[0].PlaybackProgress)
	require.True(t, items[0].CanResumePlayback)
	require.False(t, items[1].CanResumePlayback)
	catalog.AssertExpectations(t)
}

func TestCatalogImportLocal_CopiesAndRegisters(t *testing.T) {
	sourceDir := t.TempDir()
	sourcePath := filepath.Join(sourceDir, "holiday.mp4")
	require.NoError(t, os.WriteFile(sourcePath, []byte("fake video bytes"), 0o644))

	store := newTestStorage(t)
	catalog := new(MockVideoCatalog)
	var inserted model.VideoRecord
	catalog.On("Insert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		inserted = args.Get(1).(model.VideoRecord)
	}).Return(nil)

	record, err := NewCatalogUsecase(catalog, store, cache.NewPositionCache(nil)).ImportLocal(context.Background(), sourcePath, "", 42.5)
	require.NoError(t, err)

	require.Equal(t, record, inserted)
	require.Equal(t, model.SourceLocal, record.SourceKind)
	require.Equal(t, 42.5, record.DurationSeconds)
	require.NotEmpty(t, record.ID)

	// the original stays put and the copy is readable from storage
	_, err = os.Stat(sourcePath)
	require.NoError(t, err)
	copied, err := os.ReadFile(store.Resolve(record.StorageRef))
	require.NoError(t, err)
	require.Equal(t, []byte("fake video bytes"), copied)
}

func TestCatalogImportLocal_InsertFailureCleansCopy(t *testing.T) {
	sourceDir := t.TempDir()
	sourcePath := filepath.Join(sourceDir, "clip.mp4")
	require.NoError(t, os.WriteFile(sourcePath, []byte("x"), 0o644))

	store := newTestStorage(t)
	catalog := new(MockVideoCatalog)
	catalog.On("Insert", mock.Anything, mock.Anything).Return(errors.New("db down"))

	_, err := NewCatalogUsecase(catalog, store, cache.NewPositionCache(nil)).ImportLocal(context.Background(), sourcePath, "Clip", 0)
	require.Error(t, err)

	entries, err := os.ReadDir(store.Root())
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestCatalogAddSocial(t *testing.T) {
	catalog := new(MockVideoCatalog)
	catalog.On("Insert", mock.Anything, mock.Anything).Return(nil)
	usecase := NewCatalogUsecase(catalog, newTestStorage(t), cache.NewPositionCache(nil))

	record, err := usecase.AddSocial(context.Background(), "https://www.youtube.com/watch?v=abc123")
	require.NoError(t, err)
	require.Equal(t, model.SourceSocialEmbed, record.SourceKind)
	require.Equal(t, "youtube", record.SocialPlatform)
	require.Equal(t, "https://www.youtube.com/watch?v=abc123", record.StorageRef)
	require.Contains(t, record.Title, "YouTube: ")

	_, err = usecase.AddSocial(context.Background(), "https://example.com/watch?v=abc123")
	require.ErrorIs(t, err, ErrNotSocialURL)
}

type recordingPositionCache struct {
	invalidated []string
}

func (c *recordingPositionCache) Set(ctx context.Context, videoID string, seconds float64) {}

func (c *recordingPositionCache) Get(ctx context.Context, videoID string) (float64, bool) {
	return 0, false
}

func (c *recordingPositionCache) Invalidate(ctx context.Context, videoID string) {
	c.invalidated = append(c.invalidated, videoID)
}

func TestCatalogDelete_KeepsMediaFileDropsCachedPosition(t *testing.T) {
	store := newTestStorage(t)
	require.NoError(t, os.WriteFile(store.Resolve("kept.mp4"), []byte("x"), 0o644))

	catalog := new(MockVideoCatalog)
	catalog.On("Delete", mock.Anything, "vid-1").Return(nil)
	posCache := &recordingPositionCache{}

	require.NoError(t, NewCatalogUsecase(catalog, store, posCache).Delete(context.Background(), "vid-1"))

	_, err := os.Stat(store.Resolve("kept.mp4"))
	require.NoError(t, err)
	require.Equal(t, []string{"vid-1"}, posCache.invalidated)
	catalog.AssertExpectations(t)
}

func TestCatalogDelete_FailureSkipsCacheInvalidation(t *testing.T) {
	catalog := new(MockVideoCatalog)
	catalog.On("Delete", mock.Anything, "vid-1").Return(errors.New("db down"))
	posCache := &recordingPositionCache{}

	err := NewCatalogUsecase(catalog, newTestStorage(t), posCache).Delete(context.Background(), "vid-1")
	require.Error(t, err)
	require.Empty(t, posCache.invalidated)
}
