package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStatusCache(t *testing.T) (*RedisStatusCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStatusCache(NewRedisFromClient(client)), mr
}

func TestRedisStatusCache_Status(t *testing.T) {
	c, mr := newStatusCache(t)
	ctx := context.TODO()

	missing, err := c.GetStatus(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, c.SetStatus(ctx, "tok", &Status{Status: StatusQueued, Source: "s", Target: "t"}))
	require.NoError(t, c.SetStatus(ctx, "tok", &Status{Status: "success", Source: "s", Target: "t", Data: map[string]any{"type": "entry"}}))

	got, err := c.GetStatus(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "success", got.Status)
	assert.Equal(t, "entry", got.Data["type"])
	assert.Equal(t, StatusTTL, mr.TTL("webmention:status:tok"))

	mr.FastForward(StatusTTL + time.Second)
	expired, err := c.GetStatus(ctx, "tok")
	require.NoError(t, err)
	assert.Nil(t, expired)
}

func TestRedisStatusCache_Stats(t *testing.T) {
	c, mr := newStatusCache(t)
	ctx := context.TODO()

	require.NoError(t, c.CountStat(ctx, "a", "webmention", "success"))
	require.NoError(t, c.CountStat(ctx, "b", "webmention", "success"))
	require.NoError(t, c.CountStat(ctx, "c", "pingback", "blocked"))

	members, err := mr.ZMembers("webmention.io:stats:webmention:success")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, members)

	removed, err := c.TrimStats(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, removed)

	removed, err = c.TrimStats(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
}
