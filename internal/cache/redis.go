package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"qipai-scores/internal/store"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "qipai"

func leaderboardKey(limit int) string {
	return fmt.Sprintf("%s:leaderboard:%d", keyPrefix, limit)
}

// leaderboardIndexKey is a SET of every snapshot key written, so a single
// invalidation drops all page sizes.
func leaderboardIndexKey() string {
	return keyPrefix + ":idx:leaderboard"
}

type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to url and verifies the connection.
func NewRedis(url string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return NewRedisWithClient(client, ttl), nil
}

func NewRedisWithClient(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, limit int) ([]store.LeaderboardEntry, bool, error) {
	data, err := r.client.Get(ctx, leaderboardKey(limit)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var entries []store.LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false, err
	}
	return entries, true, nil
}

func (r *Redis) Put(ctx context.Context, limit int, entries []store.LeaderboardEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	key := leaderboardKey(limit)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, data, r.ttl)
		pipe.SAdd(ctx, leaderboardIndexKey(), key)
		return nil
	})
	return err
}

func (r *Redis) Invalidate(ctx context.Context) error {
	keys, err := r.client.SMembers(ctx, leaderboardIndexKey()).Result()
	if err != nil {
		return err
	}
	keys = append(keys, leaderboardIndexKey())
	return r.client.Del(ctx, keys...).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}

var _ Leaderboard = (*Redis)(nil)
