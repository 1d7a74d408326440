package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "availability:12:2024-06", Key(12, 2024, time.June))
}

func TestNilCacheIsDisabled(t *testing.T) {
	var c *MonthCache
	ctx := context.Background()

	var dst map[string]any
	assert.False(t, c.Get(ctx, 1, 2024, time.June, &dst))
	c.Set(ctx, 1, 2024, time.June, map[string]any{"x": 1})
	c.Invalidate(ctx, 1, 2024, time.June)
	assert.NoError(t, c.Close())
}

func TestConnectWithoutAddressDisablesCache(t *testing.T) {
	assert.Nil(t, Connect(context.Background(), "", time.Minute, zap.NewNop()))
}
