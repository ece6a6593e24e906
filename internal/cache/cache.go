package cache

import (
	"context"

	"qipai-scores/internal/store"
)

// Leaderboard holds rendered leaderboard snapshots keyed by page size.
// A miss is reported with ok=false and a nil error.
type Leaderboard interface {
	Get(ctx context.Context, limit int) (entries []store.LeaderboardEntry, ok bool, err error)
	Put(ctx context.Context, limit int, entries []store.LeaderboardEntry) error
	Invalidate(ctx context.Context) error
	Close() error
}

// Noop never stores anything; it is used when REDIS_URL is unset.
type Noop struct{}

func (Noop) Get(context.Context, int) ([]store.LeaderboardEntry, bool, error) {
	return nil, false, nil
}

func (Noop) Put(context.Context, int, []store.LeaderboardEntry) error { return nil }

func (Noop) Invalidate(context.Context) error { return nil }

func (Noop) Close() error { return nil }

var _ Leaderboard = Noop{}
