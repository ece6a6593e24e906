package games

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"qipai-scores/internal/store"

	"github.com/rs/zerolog/log"
)

const maxSeats = 16

type Store interface {
	StartGame(ctx context.Context, gameType string, seats []store.NewParticipant) (*store.Game, []store.Participant, error)
	GetGame(ctx context.Context, gameID int64) (*store.Game, error)
	EndGame(ctx context.Context, gameID int64, pointsChange map[int64]int64) (*store.Game, error)
	ListParticipants(ctx context.Context, gameID int64) ([]store.Participant, error)
	AddParticipant(ctx context.Context, gameID int64, seat store.NewParticipant) (*store.Participant, error)
	LeaveGame(ctx context.Context, gameID, playerID int64) (*store.Participant, error)
}

// Scorer posts point changes; the score service satisfies it.
type Scorer interface {
	Apply(ctx context.Context, playerID, delta int64, gameID *int64) (*store.Transaction, error)
}

type Service struct {
	store  Store
	scorer Scorer
}

func NewService(st Store, scorer Scorer) *Service {
	return &Service{store: st, scorer: scorer}
}

// Start seats players in request order (position 1, 2, ...). Missing initial
// scores default to 0.
func (s *Service) Start(ctx context.Context, req StartRequest) (*StartResponse, error) {
	gameType := strings.TrimSpace(req.GameType)
	if gameType == "" || len(req.PlayerIDs) == 0 || len(req.PlayerIDs) > maxSeats {
		return nil, ErrInvalidRequest
	}
	if len(req.InitialScores) > len(req.PlayerIDs) {
		return nil, ErrInvalidRequest
	}
	seen := make(map[int64]struct{}, len(req.PlayerIDs))
	seats := make([]store.NewParticipant, 0, len(req.PlayerIDs))
	for i, id := range req.PlayerIDs {
		if id <= 0 {
			return nil, ErrInvalidRequest
		}
		if _, dup := seen[id]; dup {
			return nil, ErrInvalidRequest
		}
		seen[id] = struct{}{}
		pos := i + 1
		seat := store.NewParticipant{PlayerID: id, Position: &pos}
		if i < len(req.InitialScores) {
			seat.InitialScore = req.InitialScores[i]
		}
		seats = append(seats, seat)
	}
	game, participants, err := s.store.StartGame(ctx, gameType, seats)
	if err != nil {
		return nil, err
	}
	log.Info().Int64("game_id", game.ID).Str("game_type", game.GameType).Int("players", len(seats)).Msg("game started")
	return &StartResponse{Game: game, Participants: participants}, nil
}

func (s *Service) Get(ctx context.Context, gameID int64) (*store.Game, error) {
	if gameID <= 0 {
		return nil, ErrInvalidRequest
	}
	return s.store.GetGame(ctx, gameID)
}

func (s *Service) Participants(ctx context.Context, gameID int64) (*ParticipantsResponse, error) {
	if _, err := s.Get(ctx, gameID); err != nil {
		return nil, err
	}
	items, err := s.store.ListParticipants(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return &ParticipantsResponse{GameID: gameID, Items: items}, nil
}

// Join seats a player in a running game, or re-seats one who left. Without a
// position the player takes the next free seat.
func (s *Service) Join(ctx context.Context, gameID int64, req JoinRequest) (*store.Participant, error) {
	if gameID <= 0 || req.PlayerID <= 0 {
		return nil, ErrInvalidRequest
	}
	if req.Position != nil && (*req.Position < 1 || *req.Position > maxSeats) {
		return nil, ErrInvalidRequest
	}
	p, err := s.store.AddParticipant(ctx, gameID, store.NewParticipant{
		PlayerID:     req.PlayerID,
		InitialScore: req.InitialScore,
		Position:     req.Position,
	})
	if err != nil {
		return nil, err
	}
	log.Info().Int64("game_id", gameID).Int64("player_id", req.PlayerID).Msg("player joined game")
	return p, nil
}

func (s *Service) Leave(ctx context.Context, gameID, playerID int64) (*store.Participant, error) {
	if gameID <= 0 || playerID <= 0 {
		return nil, ErrInvalidRequest
	}
	p, err := s.store.LeaveGame(ctx, gameID, playerID)
	if err != nil {
		return nil, err
	}
	log.Info().Int64("game_id", gameID).Int64("player_id", playerID).Msg("player left game")
	return p, nil
}

// EndWithResults ends the game once, records final scores, then posts each
// non-zero delta to the ledger tagged with the game. Every result must belong
// to a seated player, otherwise nothing changes and ErrInvalidRequest is
// returned.
//
// Every ledger write is its own atomic unit: a rejected one is reported in its
// outcome and does not undo the others or the end of the game. The final score
// of such a player is still initial + delta and no longer agrees with the
// ledger; the outcome's Error is the record of that divergence.
func (s *Service) EndWithResults(ctx context.Context, gameID int64, results []Result) (*EndResponse, error) {
	if gameID <= 0 {
		return nil, ErrInvalidRequest
	}
	deltas := make(map[int64]int64, len(results))
	for _, r := range results {
		if r.PlayerID <= 0 {
			return nil, ErrInvalidRequest
		}
		if _, dup := deltas[r.PlayerID]; dup {
			return nil, ErrInvalidRequest
		}
		deltas[r.PlayerID] = r.Delta
	}

	game, err := s.store.EndGame(ctx, gameID, deltas)
	if err != nil {
		if errors.Is(err, store.ErrNotParticipant) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		return nil, err
	}

	outcomes := make([]ResultOutcome, 0, len(results))
	for _, r := range results {
		out := ResultOutcome{PlayerID: r.PlayerID, Delta: r.Delta}
		if r.Delta != 0 {
			tx, err := s.scorer.Apply(ctx, r.PlayerID, r.Delta, &game.ID)
			if err != nil {
				log.Warn().Err(err).Int64("game_id", game.ID).Int64("player_id", r.PlayerID).Msg("game result not posted")
				out.Error = err.Error()
			} else {
				out.Transaction = tx
			}
		}
		outcomes = append(outcomes, out)
	}
	log.Info().Int64("game_id", game.ID).Int("results", len(outcomes)).Msg("game ended")
	return &EndResponse{Game: game, Results: outcomes}, nil
}
