package ban

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/retail-inventory/internal/redissvc"
)

const (
	DailyBanLogKey  = "ratelimit:banlog:daily"
	strikeKeyPrefix = "ratelimit:strikes:"
	banKeyPrefix    = "ratelimit:ban:"
)

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rs *redissvc.RedisService) *RedisStore {
	return &RedisStore{rdb: rs.Rdb()}
}

func (s *RedisStore) AddStrike(ctx context.Context, target string, window time.Duration) (int, error) {
	key := strikeKeyPrefix + target
	count, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := s.rdb.Expire(ctx, key, window).Err(); err != nil {
			return 0, err
		}
	}
	return int(count), nil
}

func (s *RedisStore) ResetStrikes(ctx context.Context, target string) error {
	return s.rdb.Del(ctx, strikeKeyPrefix+target).Err()
}

func (s *RedisStore) Ban(ctx context.Context, target string, d time.Duration) error {
	return s.rdb.Set(ctx, banKeyPrefix+target, "1", d).Err()
}

func (s *RedisStore) IsBanned(ctx context.Context, target string) (bool, error) {
	err := s.rdb.Get(ctx, banKeyPrefix+target).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisStore) AppendLog(ctx context.Context, entry BanLogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.rdb.RPush(ctx, DailyBanLogKey, data).Err()
}

func (s *RedisStore) Log(ctx context.Context) ([]BanLogEntry, error) {
	items, err := s.rdb.LRange(ctx, DailyBanLogKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]BanLogEntry, 0, len(items))
	for _, item := range items {
		var entry BanLogEntry
		if err := json.Unmarshal([]byte(item), &entry); err == nil {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}
