package ban

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	strikesKeyPrefix = "ratelimit:strikes:"
	banKeyPrefix     = "ratelimit:ban:"
	DailyBanLogKey   = "ratelimit:banlog:daily"
)

// Store counts rate-limit strikes per target and bans a target once it
// reaches the configured number of strikes inside the strike window.
type Store interface {
	IsBanned(ctx context.Context, target string) (bool, error)
	// Strike records one violation and reports whether the target is now banned.
	Strike(ctx context.Context, target, route string) (banned bool, err error)
}

type Policy struct {
	MaxStrikes   int64
	StrikeWindow time.Duration
	BanDuration  time.Duration
}

type BanLogEntry struct {
	Target  string    `json:"target"`
	Route   string    `json:"route"`
	Strikes int64     `json:"strikes"`
	Time    time.Time `json:"time"`
}

// RedisStore keeps strikes and bans in Redis so they are shared between
// instances.
type RedisStore struct {
	rdb    *redis.Client
	policy Policy
}

func NewRedisStore(rdb *redis.Client, policy Policy) *RedisStore {
	return &RedisStore{rdb: rdb, policy: policy}
}

func (s *RedisStore) IsBanned(ctx context.Context, target string) (bool, error) {
	n, err := s.rdb.Exists(ctx, banKeyPrefix+target).Result()
	if err != nil {
		return false, fmt.Errorf("check ban: %w", err)
	}
	return n > 0, nil
}

func (s *RedisStore) Strike(ctx context.Context, target, route string) (bool, error) {
	key := strikesKeyPrefix + target

	strikes, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("record strike: %w", err)
	}
	if strikes == 1 {
		if err := s.rdb.Expire(ctx, key, s.policy.StrikeWindow).Err(); err != nil {
			return false, fmt.Errorf("set strike window: %w", err)
		}
	}
	if strikes < s.policy.MaxStrikes {
		return false, nil
	}

	entry, _ := json.Marshal(BanLogEntry{
		Target:  target,
		Route:   route,
		Strikes: strikes,
		Time:    time.Now(),
	})
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, banKeyPrefix+target, route, s.policy.BanDuration)
		pipe.Del(ctx, key)
		pipe.RPush(ctx, DailyBanLogKey, entry)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("ban %s: %w", target, err)
	}
	return true, nil
}

// MemoryStore is the single-instance fallback used when no Redis is configured.
type MemoryStore struct {
	mu      sync.Mutex
	policy  Policy
	strikes map[string]strikeWindow
	bans    map[string]time.Time
	now     func() time.Time
}

type strikeWindow struct {
	count   int64
	expires time.Time
}

func NewMemoryStore(policy Policy) *MemoryStore {
	return &MemoryStore{
		policy:  policy,
		strikes: make(map[string]strikeWindow),
		bans:    make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *MemoryStore) IsBanned(_ context.Context, target string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.bans[target]
	if !ok {
		return false, nil
	}
	if !s.now().Before(until) {
		delete(s.bans, target)
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) Strike(_ context.Context, target, _ string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w := s.strikes[target]
	if w.count == 0 || !now.Before(w.expires) {
		w = strikeWindow{expires: now.Add(s.policy.StrikeWindow)}
	}
	w.count++

	if w.count < s.policy.MaxStrikes {
		s.strikes[target] = w
		return false, nil
	}

	delete(s.strikes, target)
	s.bans[target] = now.Add(s.policy.BanDuration)
	return true, nil
}
