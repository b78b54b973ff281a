package repository

import (
	"context"

	"mediavault/domain/model"
)

// IVideoCatalog is the durable catalog of saved videos. Each call is a
// single atomic unit against the store.
type IVideoCatalog interface {
	Insert(ctx context.Context, rec model.VideoRecord) error
	List(ctx context.Context) ([]model.VideoRecord, error)
	GetById(ctx context.Context, id string) (model.VideoRecord, error)
	Delete(ctx context.Context, id string) error
}

// IPlaybackPosition persists per-video playback offsets. GetPosition
// returns 0 for unknown ids rather than an error.
type IPlaybackPosition interface {
	UpdatePosition(ctx context.Context, id string, seconds float64) error
	GetPosition(ctx context.Context, id string) (float64, error)
	ResetPosition(ctx context.Context, id string) error
}
