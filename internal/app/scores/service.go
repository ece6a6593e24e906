package scores

import (
	"context"
	"time"

	"qipai-scores/internal/cache"
	"qipai-scores/internal/store"

	"github.com/rs/zerolog/log"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
	defaultHistoryDays      = 30
	maxHistoryDays          = 366
	dayLayout               = "2006-01-02"
)

type Ledger interface {
	ApplyDelta(ctx context.Context, playerID, delta int64, gameID *int64) (*store.Transaction, error)
	Award(ctx context.Context, playerID, amount int64, gameID *int64, reason string) (*store.Transaction, error)
	Deduct(ctx context.Context, playerID, amount int64, gameID *int64, reason string) (*store.Transaction, error)
	Transfer(ctx context.Context, fromID, toID, amount int64, gameID *int64, reason string) (*store.Transfer, error)
	History(ctx context.Context, playerID int64, limit int) ([]store.Transaction, error)
}

type Stats interface {
	Leaderboard(ctx context.Context, limit int) ([]store.LeaderboardEntry, error)
	DailyChanges(ctx context.Context, dayStart time.Time) ([]store.DailyChange, error)
	ScoreHistory(ctx context.Context, playerID int64, since time.Time) ([]store.ScoreHistoryEntry, error)
	GameTypeStats(ctx context.Context) ([]store.GameTypeStats, error)
}

// Service owns every write that moves a balance, so it is also the place that
// drops stale leaderboard snapshots.
type Service struct {
	ledger Ledger
	stats  Stats
	cache  cache.Leaderboard
	now    func() time.Time
}

func NewService(l Ledger, st Stats, c cache.Leaderboard) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	return &Service{ledger: l, stats: st, cache: c, now: time.Now}
}

func (s *Service) Apply(ctx context.Context, playerID, delta int64, gameID *int64) (*store.Transaction, error) {
	if playerID <= 0 {
		return nil, ErrInvalidRequest
	}
	tx, err := s.ledger.ApplyDelta(ctx, playerID, delta, gameID)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return tx, nil
}

func (s *Service) Award(ctx context.Context, playerID, amount int64, gameID *int64, reason string) (*store.Transaction, error) {
	tx, err := s.ledger.Award(ctx, playerID, amount, gameID, reason)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return tx, nil
}

func (s *Service) Deduct(ctx context.Context, playerID, amount int64, gameID *int64, reason string) (*store.Transaction, error) {
	tx, err := s.ledger.Deduct(ctx, playerID, amount, gameID, reason)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return tx, nil
}

// Transfer moves points between two players. A game id restricts it to
// active participants of that running game.
func (s *Service) Transfer(ctx context.Context, req TransferRequest) (*store.Transfer, error) {
	if req.FromPlayerID <= 0 || req.ToPlayerID <= 0 {
		return nil, ErrInvalidRequest
	}
	if req.GameID != nil && *req.GameID <= 0 {
		return nil, ErrInvalidRequest
	}
	tr, err := s.ledger.Transfer(ctx, req.FromPlayerID, req.ToPlayerID, req.Points, req.GameID, req.Reason)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return tr, nil
}

func (s *Service) Transactions(ctx context.Context, playerID int64, limit int) (*TransactionsResponse, error) {
	if playerID <= 0 {
		return nil, ErrInvalidRequest
	}
	items, err := s.ledger.History(ctx, playerID, limit)
	if err != nil {
		return nil, err
	}
	return &TransactionsResponse{PlayerID: playerID, Items: items, Limit: limit}, nil
}

// ScoreHistory returns the player's ledger entries of the last days days,
// 30 when days <= 0.
func (s *Service) ScoreHistory(ctx context.Context, playerID int64, days int) (*ScoreHistoryResponse, error) {
	if playerID <= 0 {
		return nil, ErrInvalidRequest
	}
	if days <= 0 {
		days = defaultHistoryDays
	}
	if days > maxHistoryDays {
		days = maxHistoryDays
	}
	since := s.now().AddDate(0, 0, -days)
	rows, err := s.stats.ScoreHistory(ctx, playerID, since)
	if err != nil {
		return nil, err
	}
	out := make([]ScoreHistoryItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, ScoreHistoryItem{
			TransactionID: r.TransactionID,
			GameID:        r.GameID,
			GameType:      r.GameType,
			PointsChange:  r.PointsChange,
			CurrentTotal:  r.CurrentTotal,
			EventTime:     r.EventTime,
		})
	}
	return &ScoreHistoryResponse{PlayerID: playerID, Days: days, Items: out}, nil
}

// Leaderboard serves from the snapshot cache when it can. Cache failures are
// logged and the database answers instead.
func (s *Service) Leaderboard(ctx context.Context, limit int) (*LeaderboardResponse, error) {
	limit = clampLeaderboardLimit(limit)
	items, ok, err := s.cache.Get(ctx, limit)
	if err != nil {
		log.Warn().Err(err).Int("limit", limit).Msg("leaderboard cache read failed")
	}
	if ok {
		return &LeaderboardResponse{Items: items, Limit: limit, Cached: true}, nil
	}
	items, err = s.stats.Leaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Put(ctx, limit, items); err != nil {
		log.Warn().Err(err).Int("limit", limit).Msg("leaderboard cache write failed")
	}
	return &LeaderboardResponse{Items: items, Limit: limit}, nil
}

// RefreshLeaderboard drops every snapshot and rebuilds the given page.
func (s *Service) RefreshLeaderboard(ctx context.Context, limit int) error {
	if err := s.cache.Invalidate(ctx); err != nil {
		return err
	}
	_, err := s.Leaderboard(ctx, limit)
	return err
}

// DailyChanges rolls up the UTC calendar day containing day.
func (s *Service) DailyChanges(ctx context.Context, day time.Time) (*DailyChangesResponse, error) {
	start := StartOfDay(day)
	rows, err := s.stats.DailyChanges(ctx, start)
	if err != nil {
		return nil, err
	}
	out := make([]DailyChangeItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, DailyChangeItem{
			PlayerID:     r.PlayerID,
			Username:     r.Username,
			DailyChange:  r.DailyChange,
			CurrentTotal: r.CurrentTotal,
		})
	}
	return &DailyChangesResponse{Date: start.Format(dayLayout), Items: out}, nil
}

func (s *Service) GameTypeStats(ctx context.Context) (*GameTypeStatsResponse, error) {
	rows, err := s.stats.GameTypeStats(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]GameTypeStatsItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, GameTypeStatsItem{
			GameType:           r.GameType,
			TotalGames:         r.TotalGames,
			CompletedGames:     r.CompletedGames,
			AvgDurationMinutes: r.AvgDurationMinutes,
		})
	}
	return &GameTypeStatsResponse{Items: out}, nil
}

// ParseDay parses YYYY-MM-DD as a UTC day.
func ParseDay(v string) (time.Time, error) {
	t, err := time.ParseInLocation(dayLayout, v, time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidRequest
	}
	return t, nil
}

func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("leaderboard cache invalidation failed")
	}
}

func clampLeaderboardLimit(limit int) int {
	if limit <= 0 {
		return defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		return maxLeaderboardLimit
	}
	return limit
}
