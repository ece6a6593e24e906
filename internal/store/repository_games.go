package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const gameColumns = `game_id, game_type, start_time, end_time`

func scanGame(row pgx.Row) (*Game, error) {
	var (
		g   Game
		end pgtype.Timestamptz
	)
	if err := row.Scan(&g.ID, &g.GameType, &g.StartTime, &end); err != nil {
		return nil, err
	}
	g.EndTime = timePtrVal(end)
	return &g, nil
}

func (s *Store) CreateGame(ctx context.Context, gameType string) (*Game, error) {
	return createGame(ctx, s.Pool, gameType)
}

func createGame(ctx context.Context, q querier, gameType string) (*Game, error) {
	g, err := scanGame(q.QueryRow(ctx, `INSERT INTO games (game_type) VALUES ($1) RETURNING `+gameColumns, gameType))
	if err != nil {
		return nil, storageErr("insert game", err)
	}
	return g, nil
}

// StartGame creates a game and seats its participants in one transaction.
// A missing player aborts the whole start with ErrPlayerNotFound.
func (s *Store) StartGame(ctx context.Context, gameType string, seats []NewParticipant) (*Game, []Participant, error) {
	var (
		game         *Game
		participants []Participant
	)
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		g, err := createGame(ctx, tx, gameType)
		if err != nil {
			return err
		}
		out := make([]Participant, 0, len(seats))
		for _, seat := range seats {
			p, err := insertParticipant(ctx, tx, g.ID, seat)
			if err != nil {
				return err
			}
			out = append(out, *p)
		}
		game, participants = g, out
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return game, participants, nil
}

func (s *Store) GetGame(ctx context.Context, gameID int64) (*Game, error) {
	g, err := scanGame(s.Pool.QueryRow(ctx, `SELECT `+gameColumns+` FROM games WHERE game_id = $1`, gameID))
	if err != nil {
		return nil, mapNotFound("get game", err, ErrGameNotFound)
	}
	return g, nil
}

// EndGame moves a game from in progress to ended and records each listed
// player's final score as initial_score + points change. A game can end only
// once: a second call returns ErrAlreadyEnded and leaves end_time as is.
// A listed player who was never seated fails the whole call with
// ErrNotParticipant.
func (s *Store) EndGame(ctx context.Context, gameID int64, pointsChange map[int64]int64) (*Game, error) {
	var ended *Game
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		g, err := scanGame(tx.QueryRow(ctx, `
			UPDATE games SET end_time = now()
			WHERE game_id = $1 AND end_time IS NULL
			RETURNING `+gameColumns, gameID))
		if err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				return storageErr("end game", err)
			}
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM games WHERE game_id = $1)`, gameID).Scan(&exists); err != nil {
				return storageErr("check game", err)
			}
			if !exists {
				return ErrGameNotFound
			}
			return ErrAlreadyEnded
		}
		for playerID, delta := range pointsChange {
			tag, err := tx.Exec(ctx, `
				UPDATE game_participants
				SET final_score = initial_score + $3
				WHERE game_id = $1 AND player_id = $2
			`, gameID, playerID, delta)
			if err != nil {
				return storageErr("set final score", err)
			}
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("%w: player %d", ErrNotParticipant, playerID)
			}
		}
		ended = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ended, nil
}
