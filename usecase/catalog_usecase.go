package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"mediavault/domain/media"
	"mediavault/domain/model"
	"mediavault/domain/repository"
	"mediavault/infrastructure/cache"
	"mediavault/infrastructure/logger"
	"mediavault/infrastructure/storage"
)

// ErrNotSocialURL is returned by AddSocial when the page URL does not belong
// to a recognized social platform.
var ErrNotSocialURL = errors.New("url is not a recognized social media page")

type ICatalogUsecase interface {
	List(ctx context.Context) ([]model.VideoItem, error)
	Get(ctx context.Context, id string) (model.VideoItem, error)
	ImportLocal(ctx context.Context, sourcePath string, title string, durationSeconds float64) (model.VideoRecord, error)
	AddSocial(ctx context.Context, pageURL string) (model.VideoRecord, error)
	Delete(ctx context.Context, id string) error
}

type catalogUsecase struct {
	videoCatalog repository.IVideoCatalog
	mediaStorage *storage.MediaStorage
	posCache     cache.IPositionCache
}

func NewCatalogUsecase(videoCatalog repository.IVideoCatalog, mediaStorage *storage.MediaStorage, posCache cache.IPositionCache) ICatalogUsecase {
	return &catalogUsecase{videoCatalog: videoCatalog, mediaStorage: mediaStorage, posCache: posCache}
}

func (usecase *catalogUsecase) List(ctx context.Context) ([]model.VideoItem, error) {
	records, err := usecase.videoCatalog.List(ctx)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("listing videos")
		return nil, err
	}

	items := make([]model.VideoItem, 0, len(records))
	for _, record := range records {
		items = append(items, record.Item())
	}
	return items, nil
}

func (usecase *catalogUsecase) Get(ctx context.Context, id string) (model.VideoItem, error) {
	record, err := usecase.videoCatalog.GetById(ctx, id)
	if err != nil {
		return model.VideoItem{}, err
	}
	return record.Item(), nil
}

// ImportLocal copies a video file picked by the user into managed storage and
// registers it. The source file is left in place.
func (usecase *catalogUsecase) ImportLocal(ctx context.Context, sourcePath string, title string, durationSeconds float64) (model.VideoRecord, error) {
	storageRef, err := usecase.mediaStorage.ImportCopy(sourcePath)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("importing local video")
		return model.VideoRecord{}, err
	}

	if title == "" {
		title = media.TitleFromURL(storageRef)
	}

	record := model.VideoRecord{
		ID:              uuid.NewString(),
		StorageRef:      storageRef,
		Title:           title,
		DurationSeconds: durationSeconds,
		CreatedAt:       time.Now().UTC(),
		SourceKind:      model.SourceLocal,
	}
	if err := usecase.videoCatalog.Insert(ctx, record); err != nil {
		logger.GetLogger().WithField("error", err).Error("saving imported video")
		_ = usecase.mediaStorage.Remove(storageRef)
		return model.VideoRecord{}, err
	}
	return record, nil
}

// AddSocial registers a reference record for a social media page. Nothing is
// downloaded; the page URL itself is stored so playback can embed it.
func (usecase *catalogUsecase) AddSocial(ctx context.Context, pageURL string) (model.VideoRecord, error) {
	platform, ok := media.DetectSocialPlatform(pageURL)
	if !ok {
		return model.VideoRecord{}, ErrNotSocialURL
	}

	record := model.VideoRecord{
		ID:             uuid.NewString(),
		StorageRef:     pageURL,
		Title:          media.SocialTitle(pageURL, platform),
		CreatedAt:      time.Now().UTC(),
		SourceKind:     model.SourceSocialEmbed,
		SocialPlatform: platform,
	}
	if err := usecase.videoCatalog.Insert(ctx, record); err != nil {
		logger.GetLogger().WithField("error", err).Error("saving social video reference")
		return model.VideoRecord{}, err
	}
	return record, nil
}

// Delete removes the catalog record and drops its cached playback
// position. The stored media file is kept on disk; callers that want
// the bytes gone must remove them separately.
func (usecase *catalogUsecase) Delete(ctx context.Context, id string) error {
	if err := usecase.videoCatalog.Delete(ctx, id); err != nil {
		logger.GetLogger().WithField("error", err).Error("deleting video")
		return err
	}
	usecase.posCache.Invalidate(ctx, id)
	return nil
}
