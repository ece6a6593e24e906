package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	appscores "qipai-scores/internal/app/scores"
	"qipai-scores/internal/config"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRollup struct {
	mock.Mock
}

func (m *mockRollup) DailyChanges(ctx context.Context, day time.Time) (*appscores.DailyChangesResponse, error) {
	args := m.Called(ctx, day)
	resp, _ := args.Get(0).(*appscores.DailyChangesResponse)
	return resp, args.Error(1)
}

func (m *mockRollup) RefreshLeaderboard(ctx context.Context, limit int) error {
	return m.Called(ctx, limit).Error(0)
}

func TestNewSchedulerRejectsBadCron(t *testing.T) {
	_, err := NewScheduler(config.ServerConfig{RollupCron: "not a cron", RollupTimezone: "UTC"}, &mockRollup{})
	require.Error(t, err)
}

func TestNewSchedulerFallsBackToUTC(t *testing.T) {
	s, err := NewScheduler(config.ServerConfig{RollupCron: "5 0 * * *", RollupTimezone: "Mars/Olympus"}, &mockRollup{})
	require.NoError(t, err)
	require.Len(t, s.cron.Entries(), 1)
	require.Equal(t, time.UTC, s.cron.Location())
}

func TestRunRollupUsesPreviousDay(t *testing.T) {
	ctx := context.Background()
	m := &mockRollup{}
	m.On("DailyChanges", ctx, mock.MatchedBy(func(day time.Time) bool {
		return day.Year() == 2024 && day.Month() == time.June && day.Day() == 30
	})).Return(&appscores.DailyChangesResponse{
		Date:  "2024-06-30",
		Items: []appscores.DailyChangeItem{{PlayerID: 1, DailyChange: 50}, {PlayerID: 2, DailyChange: -20}},
	}, nil).Once()
	m.On("RefreshLeaderboard", ctx, refreshLeaderboardLimit).Return(nil).Once()

	s, err := NewScheduler(config.ServerConfig{RollupCron: "@daily", RollupTimezone: "UTC"}, m)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2024, 7, 1, 0, 5, 0, 0, time.UTC) }
	s.RunRollup(ctx)
	m.AssertExpectations(t)
}

func TestRunRollupRefreshesAfterRollupFailure(t *testing.T) {
	ctx := context.Background()
	m := &mockRollup{}
	m.On("DailyChanges", ctx, mock.Anything).Return(nil, errors.New("storage_failure"))
	m.On("RefreshLeaderboard", ctx, refreshLeaderboardLimit).Return(nil).Once()

	s, err := NewScheduler(config.ServerConfig{RollupCron: "@daily", RollupTimezone: "UTC"}, m)
	require.NoError(t, err)
	s.RunRollup(ctx)
	m.AssertExpectations(t)
}
