package players

import (
	"context"
	"errors"
	"math"
	"strings"

	"qipai-scores/internal/store"

	"github.com/rs/zerolog/log"
)

const (
	recentTransactions = 10
	maxUsernameLen     = 64
)

type Store interface {
	CreatePlayer(ctx context.Context, username string) (*store.Player, error)
	GetPlayer(ctx context.Context, playerID int64) (*store.Player, error)
	GetPlayerByUsername(ctx context.Context, username string) (*store.Player, error)
	GetBalance(ctx context.Context, playerID int64) (*store.Balance, error)
	PlayerGameStats(ctx context.Context, playerID int64) (*store.PlayerGameStats, error)
	History(ctx context.Context, playerID int64, limit int) ([]store.Transaction, error)
	SumPointsChange(ctx context.Context, playerID int64) (int64, error)
	ListPlayers(ctx context.Context, limit, offset int) ([]store.Player, error)
}

type Service struct {
	store Store
}

func NewService(st Store) *Service {
	return &Service{store: st}
}

// Register creates a player. A taken name is reported before the insert is
// attempted; the unique constraint still decides races between registrations.
func (s *Service) Register(ctx context.Context, username string) (*store.Player, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(username) > maxUsernameLen {
		return nil, ErrInvalidRequest
	}
	if _, err := s.store.GetPlayerByUsername(ctx, username); err == nil {
		return nil, store.ErrDuplicateUsername
	} else if !errors.Is(err, store.ErrPlayerNotFound) {
		return nil, err
	}
	p, err := s.store.CreatePlayer(ctx, username)
	if err != nil {
		return nil, err
	}
	log.Info().Int64("player_id", p.ID).Str("username", p.Username).Msg("player registered")
	return p, nil
}

func (s *Service) Get(ctx context.Context, playerID int64) (*store.Player, error) {
	if playerID <= 0 {
		return nil, ErrInvalidRequest
	}
	return s.store.GetPlayer(ctx, playerID)
}

func (s *Service) List(ctx context.Context, limit, offset int) (*ListResponse, error) {
	items, err := s.store.ListPlayers(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return &ListResponse{Items: items, Limit: limit, Offset: offset}, nil
}

func (s *Service) Stats(ctx context.Context, playerID int64) (*StatsResponse, error) {
	p, err := s.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}
	bal, err := s.store.GetBalance(ctx, playerID)
	if err != nil {
		return nil, err
	}
	games, err := s.store.PlayerGameStats(ctx, playerID)
	if err != nil {
		return nil, err
	}
	recent, err := s.store.History(ctx, playerID, recentTransactions)
	if err != nil {
		return nil, err
	}
	ledgerTotal, err := s.store.SumPointsChange(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if ledgerTotal != bal.CurrentTotal {
		log.Error().
			Int64("player_id", playerID).
			Int64("current_total", bal.CurrentTotal).
			Int64("ledger_total", ledgerTotal).
			Msg("balance disagrees with ledger")
	}
	return &StatsResponse{
		PlayerID:           p.ID,
		Username:           p.Username,
		CreatedAt:          p.CreatedAt,
		CurrentTotal:       bal.CurrentTotal,
		LedgerTotal:        ledgerTotal,
		LastUpdated:        bal.LastUpdated,
		TotalGames:         games.TotalGames,
		CompletedGames:     games.CompletedGames,
		AvgScoreChange:     round2(games.AvgScoreChange),
		RecentTransactions: recent,
	}, nil
}

func round2(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := math.Round(*v*100) / 100
	return &r
}
