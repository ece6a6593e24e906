package cache

import (
	"context"
	"testing"
	"time"

	"qipai-scores/internal/config"
	"qipai-scores/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RedisSuite struct {
	suite.Suite
	mini  *miniredis.Miniredis
	cache *Redis
	ctx   context.Context
}

func TestRedisSuite(t *testing.T) {
	suite.Run(t, new(RedisSuite))
}

func (s *RedisSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())
	client := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	s.cache = NewRedisWithClient(client, time.Minute)
	s.ctx = context.Background()
}

func (s *RedisSuite) TearDownTest() {
	_ = s.cache.Close()
	s.mini.Close()
}

func TestRedisRoundTripAgainstServer(t *testing.T) {
	url := config.TestRedisURL()
	if url == "" {
		t.Skip("skip redis server test: TEST_REDIS_URL not set")
	}
	c, err := NewRedis(url, time.Minute)
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()
	require.NoError(t, c.Invalidate(ctx))

	rows := []store.LeaderboardEntry{{PlayerID: 9, Username: "rui", CurrentTotal: 77, LastUpdated: time.Unix(1700000000, 0).UTC()}}
	require.NoError(t, c.Put(ctx, 5, rows))
	got, ok, err := c.Get(ctx, 5)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, rows, got)
	require.NoError(t, c.Invalidate(ctx))
}

func (s *RedisSuite) entries() []store.LeaderboardEntry {
	return []store.LeaderboardEntry{
		{PlayerID: 2, Username: "bo", CurrentTotal: 500, LastUpdated: time.Unix(1700000000, 0).UTC()},
		{PlayerID: 1, Username: "al", CurrentTotal: 300, LastUpdated: time.Unix(1700000100, 0).UTC()},
	}
}

func (s *RedisSuite) TestMissIsNotAnError() {
	got, ok, err := s.cache.Get(s.ctx, 10)
	s.Require().NoError(err)
	s.False(ok)
	s.Nil(got)
}

func (s *RedisSuite) TestPutThenGet() {
	s.Require().NoError(s.cache.Put(s.ctx, 10, s.entries()))

	got, ok, err := s.cache.Get(s.ctx, 10)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(s.entries(), got)

	_, ok, err = s.cache.Get(s.ctx, 5)
	s.Require().NoError(err)
	s.False(ok, "snapshots are keyed by limit")
}

func (s *RedisSuite) TestSnapshotExpires() {
	s.Require().NoError(s.cache.Put(s.ctx, 10, s.entries()))
	s.mini.FastForward(2 * time.Minute)

	_, ok, err := s.cache.Get(s.ctx, 10)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RedisSuite) TestInvalidateDropsEveryPageSize() {
	s.Require().NoError(s.cache.Put(s.ctx, 10, s.entries()))
	s.Require().NoError(s.cache.Put(s.ctx, 3, s.entries()[:1]))

	s.Require().NoError(s.cache.Invalidate(s.ctx))

	for _, limit := range []int{10, 3} {
		_, ok, err := s.cache.Get(s.ctx, limit)
		s.Require().NoError(err)
		s.False(ok)
	}
	s.False(s.mini.Exists(leaderboardIndexKey()))
}

func (s *RedisSuite) TestInvalidateEmptyCache() {
	s.NoError(s.cache.Invalidate(s.ctx))
}

func TestNoopNeverHits(t *testing.T) {
	var c Leaderboard = Noop{}
	ctx := context.Background()
	if err := c.Put(ctx, 10, []store.LeaderboardEntry{{PlayerID: 1}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, ok, err := c.Get(ctx, 10); ok || err != nil {
		t.Fatalf("get = ok %v err %v, want miss", ok, err)
	}
}
