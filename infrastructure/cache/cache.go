package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// NewCache connects a redis client. The caller treats a nil client as
// "cache disabled" and keeps running against the database alone.
func NewCache(ctx context.Context, addr, username, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
