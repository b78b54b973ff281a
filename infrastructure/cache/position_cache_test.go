package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionCache_NilClientIsNoop(t *testing.T) {
	c := NewPositionCache(nil)
	ctx := context.Background()

	c.Set(ctx, "vid-1", 42.0)
	seconds, ok := c.Get(ctx, "vid-1")
	assert.False(t, ok)
	assert.Zero(t, seconds)
	c.Invalidate(ctx, "vid-1")
}
