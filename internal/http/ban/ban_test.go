package ban

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPolicy = Policy{MaxStrikes: 3, StrikeWindow: time.Minute, BanDuration: 10 * time.Minute}

func TestRedisStore_BansAfterMaxStrikes(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx := context.Background()
	s := NewRedisStore(rdb, testPolicy)

	for i := 0; i < 2; i++ {
		banned, err := s.Strike(ctx, "192.0.2.1", "/plants/1")
		require.NoError(t, err)
		assert.False(t, banned)
	}

	banned, err := s.IsBanned(ctx, "192.0.2.1")
	require.NoError(t, err)
	assert.False(t, banned)

	banned, err = s.Strike(ctx, "192.0.2.1", "/plants/1")
	require.NoError(t, err)
	assert.True(t, banned)

	banned, err = s.IsBanned(ctx, "192.0.2.1")
	require.NoError(t, err)
	assert.True(t, banned)
	assert.False(t, mr.Exists(strikesKeyPrefix+"192.0.2.1"))

	logged, err := mr.List(DailyBanLogKey)
	require.NoError(t, err)
	require.Len(t, logged, 1)
	var entry BanLogEntry
	require.NoError(t, json.Unmarshal([]byte(logged[0]), &entry))
	assert.Equal(t, "192.0.2.1", entry.Target)
	assert.Equal(t, "/plants/1", entry.Route)
	assert.Equal(t, int64(3), entry.Strikes)

	mr.FastForward(11 * time.Minute)
	banned, err = s.IsBanned(ctx, "192.0.2.1")
	require.NoError(t, err)
	assert.False(t, banned)
}

func TestRedisStore_StrikesExpire(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx := context.Background()
	s := NewRedisStore(rdb, testPolicy)

	_, _ = s.Strike(ctx, "192.0.2.2", "/plants/1")
	_, _ = s.Strike(ctx, "192.0.2.2", "/plants/1")
	mr.FastForward(2 * time.Minute)

	banned, err := s.Strike(ctx, "192.0.2.2", "/plants/1")
	require.NoError(t, err)
	assert.False(t, banned)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(testPolicy)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	_, _ = s.Strike(ctx, "a", "/plants/1")
	_, _ = s.Strike(ctx, "a", "/plants/1")

	now = now.Add(2 * time.Minute)
	banned, _ := s.Strike(ctx, "a", "/plants/1")
	assert.False(t, banned, "strikes outside the window start over")

	_, _ = s.Strike(ctx, "a", "/plants/1")
	banned, _ = s.Strike(ctx, "a", "/plants/1")
	assert.True(t, banned)

	isBanned, _ := s.IsBanned(ctx, "a")
	assert.True(t, isBanned)
	isBanned, _ = s.IsBanned(ctx, "b")
	assert.False(t, isBanned)

	now = now.Add(10 * time.Minute)
	isBanned, _ = s.IsBanned(ctx, "a")
	assert.False(t, isBanned)
}
