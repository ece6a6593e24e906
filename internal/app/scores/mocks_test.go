package scores

import (
	"context"
	"time"

	"qipai-scores/internal/store"

	"github.com/stretchr/testify/mock"
)

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) ApplyDelta(ctx context.Context, playerID, delta int64, gameID *int64) (*store.Transaction, error) {
	args := m.Called(ctx, playerID, delta, gameID)
	tx, _ := args.Get(0).(*store.Transaction)
	return tx, args.Error(1)
}

func (m *mockLedger) Award(ctx context.Context, playerID, amount int64, gameID *int64, reason string) (*store.Transaction, error) {
	args := m.Called(ctx, playerID, amount, gameID, reason)
	tx, _ := args.Get(0).(*store.Transaction)
	return tx, args.Error(1)
}

func (m *mockLedger) Deduct(ctx context.Context, playerID, amount int64, gameID *int64, reason string) (*store.Transaction, error) {
	args := m.Called(ctx, playerID, amount, gameID, reason)
	tx, _ := args.Get(0).(*store.Transaction)
	return tx, args.Error(1)
}

func (m *mockLedger) Transfer(ctx context.Context, fromID, toID, amount int64, gameID *int64, reason string) (*store.Transfer, error) {
	args := m.Called(ctx, fromID, toID, amount, gameID, reason)
	tr, _ := args.Get(0).(*store.Transfer)
	return tr, args.Error(1)
}

func (m *mockLedger) History(ctx context.Context, playerID int64, limit int) ([]store.Transaction, error) {
	args := m.Called(ctx, playerID, limit)
	txs, _ := args.Get(0).([]store.Transaction)
	return txs, args.Error(1)
}

type mockStats struct {
	mock.Mock
}

func (m *mockStats) Leaderboard(ctx context.Context, limit int) ([]store.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	rows, _ := args.Get(0).([]store.LeaderboardEntry)
	return rows, args.Error(1)
}

func (m *mockStats) DailyChanges(ctx context.Context, dayStart time.Time) ([]store.DailyChange, error) {
	args := m.Called(ctx, dayStart)
	rows, _ := args.Get(0).([]store.DailyChange)
	return rows, args.Error(1)
}

func (m *mockStats) ScoreHistory(ctx context.Context, playerID int64, since time.Time) ([]store.ScoreHistoryEntry, error) {
	args := m.Called(ctx, playerID, since)
	rows, _ := args.Get(0).([]store.ScoreHistoryEntry)
	return rows, args.Error(1)
}

func (m *mockStats) GameTypeStats(ctx context.Context) ([]store.GameTypeStats, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]store.GameTypeStats)
	return rows, args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, limit int) ([]store.LeaderboardEntry, bool, error) {
	args := m.Called(ctx, limit)
	rows, _ := args.Get(0).([]store.LeaderboardEntry)
	return rows, args.Bool(1), args.Error(2)
}

func (m *mockCache) Put(ctx context.Context, limit int, entries []store.LeaderboardEntry) error {
	return m.Called(ctx, limit, entries).Error(0)
}

func (m *mockCache) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockCache) Close() error {
	return m.Called().Error(0)
}
