package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"mediavault/infrastructure/logger"
)

const positionTTL = 30 * 24 * time.Hour

// IPositionCache is a best-effort cache in front of the playback
// position store. Misses and errors fall through to the database.
type IPositionCache interface {
	Set(ctx context.Context, videoID string, seconds float64)
	Get(ctx context.Context, videoID string) (float64, bool)
	Invalidate(ctx context.Context, videoID string)
}

type PositionCache struct {
	client *redis.Client
}

func NewPositionCache(client *redis.Client) IPositionCache {
	return &PositionCache{client: client}
}

func key(videoID string) string {
	return fmt.Sprintf("playback:position:%s", videoID)
}

func (c *PositionCache) Set(ctx context.Context, videoID string, seconds float64) {
	if c.client == nil {
		return
	}
	if err := c.client.Set(ctx, key(videoID), seconds, positionTTL).Err(); err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"error":    err,
			"video_id": videoID,
		}).Warn("Position cache set failed")
	}
}

func (c *PositionCache) Get(ctx context.Context, videoID string) (float64, bool) {
	if c.client == nil {
		return 0, false
	}
	seconds, err := c.client.Get(ctx, key(videoID)).Float64()
	if err != nil {
		if err != redis.Nil {
			logger.GetLogger().WithFields(map[string]interface{}{
				"error":    err,
				"video_id": videoID,
			}).Warn("Position cache get failed")
		}
		return 0, false
	}
	return seconds, true
}

func (c *PositionCache) Invalidate(ctx context.Context, videoID string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, key(videoID)).Err(); err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"error":    err,
			"video_id": videoID,
		}).Warn("Position cache invalidate failed")
	}
}
