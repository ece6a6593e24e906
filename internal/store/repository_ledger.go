package store

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const defaultHistoryLimit = 50

// ApplyDelta records one signed point change for a player and moves the
// balance aggregate to match, as a single transaction.
//
// The player row is locked FOR UPDATE before the balance is read, so
// concurrent writers for the same player queue behind each other even when
// no scores row exists yet. A result below zero is rejected with
// ErrInsufficientBalance and nothing is written.
func (s *Store) ApplyDelta(ctx context.Context, playerID, delta int64, gameID *int64) (*Transaction, error) {
	if delta == 0 {
		return nil, ErrInvalidDelta
	}
	var out *Transaction
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		if err := lockPlayer(ctx, tx, playerID); err != nil {
			return err
		}
		t, err := postDelta(ctx, tx, playerID, delta, gameID)
		if err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Transfer moves points from one player to another in one transaction: a
// debit entry for the sender, a credit entry for the receiver. Both player
// rows are locked in ascending id order, so opposite transfers between the
// same pair wait on each other instead of deadlocking.
//
// With a game id both players must be active participants of that running
// game. Any failure leaves both balances untouched.
func (s *Store) Transfer(ctx context.Context, fromID, toID, points int64, gameID *int64) (*Transfer, error) {
	if points <= 0 {
		return nil, ErrInvalidDelta
	}
	if fromID == toID {
		return nil, ErrSelfTransfer
	}
	var out *Transfer
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		first, second := fromID, toID
		if first > second {
			first, second = second, first
		}
		if err := lockPlayer(ctx, tx, first); err != nil {
			return err
		}
		if err := lockPlayer(ctx, tx, second); err != nil {
			return err
		}
		if gameID != nil {
			if err := checkTransferSeats(ctx, tx, *gameID, fromID, toID); err != nil {
				return err
			}
		}

		debit, err := postDelta(ctx, tx, fromID, -points, gameID)
		if err != nil {
			return err
		}
		credit, err := postDelta(ctx, tx, toID, points, gameID)
		if err != nil {
			return err
		}
		out = &Transfer{From: *debit, To: *credit, GameID: gameID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func checkTransferSeats(ctx context.Context, tx pgx.Tx, gameID, fromID, toID int64) error {
	var end pgtype.Timestamptz
	err := tx.QueryRow(ctx, `SELECT end_time FROM games WHERE game_id = $1`, gameID).Scan(&end)
	if err != nil {
		return mapNotFound("check game", err, ErrGameNotFound)
	}
	if end.Valid {
		return ErrAlreadyEnded
	}
	var seated int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM game_participants
		WHERE game_id = $1 AND player_id IN ($2, $3) AND left_at IS NULL
	`, gameID, fromID, toID).Scan(&seated)
	if err != nil {
		return storageErr("check seats", err)
	}
	if seated != 2 {
		return ErrNotParticipant
	}
	return nil
}

func lockPlayer(ctx context.Context, tx pgx.Tx, playerID int64) error {
	var locked int64
	err := tx.QueryRow(ctx, `SELECT player_id FROM players WHERE player_id = $1 FOR UPDATE`, playerID).Scan(&locked)
	if err != nil {
		return mapNotFound("lock player", err, ErrPlayerNotFound)
	}
	return nil
}

// postDelta writes one ledger entry and the matching balance. The caller
// holds the player row lock.
func postDelta(ctx context.Context, tx pgx.Tx, playerID, delta int64, gameID *int64) (*Transaction, error) {
	current, err := currentTotal(ctx, tx, playerID)
	if err != nil {
		return nil, err
	}
	if delta > 0 && current > math.MaxInt64-delta {
		return nil, fmt.Errorf("%w: balance %d cannot take %d more", ErrInvalidDelta, current, delta)
	}
	next := current + delta
	if next < 0 {
		return nil, fmt.Errorf("%w: balance %d, delta %d", ErrInsufficientBalance, current, delta)
	}

	t := &Transaction{
		ID:           NewTransactionID(),
		PlayerID:     playerID,
		GameID:       gameID,
		PointsChange: delta,
		CurrentTotal: next,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO score_transactions (transaction_id, player_id, game_id, points_change, current_total)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING event_time
	`, t.ID, playerID, int8PtrParam(gameID), delta, next).Scan(&t.EventTime)
	if err != nil {
		return nil, mapForeignKey("insert score transaction", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO scores (player_id, current_total, last_updated)
		VALUES ($1, $2, $3)
		ON CONFLICT (player_id) DO UPDATE
		SET current_total = EXCLUDED.current_total,
		    last_updated = EXCLUDED.last_updated
	`, playerID, next, t.EventTime); err != nil {
		return nil, storageErr("upsert score", err)
	}
	return t, nil
}

func currentTotal(ctx context.Context, q querier, playerID int64) (int64, error) {
	var total int64
	err := q.QueryRow(ctx, `SELECT current_total FROM scores WHERE player_id = $1`, playerID).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, storageErr("read score", err)
	}
	return total, nil
}

// History returns the most recent ledger entries for a player, newest first.
// Entries sharing an event_time are ordered by transaction id.
func (s *Store) History(ctx context.Context, playerID int64, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT transaction_id, player_id, game_id, points_change, current_total, event_time
		FROM score_transactions
		WHERE player_id = $1
		ORDER BY event_time DESC, transaction_id DESC
		LIMIT $2
	`, playerID, limit)
	if err != nil {
		return nil, storageErr("list history", err)
	}
	defer rows.Close()
	out := make([]Transaction, 0, limit)
	for rows.Next() {
		var (
			t      Transaction
			gameID pgtype.Int8
		)
		if err := rows.Scan(&t.ID, &t.PlayerID, &gameID, &t.PointsChange, &t.CurrentTotal, &t.EventTime); err != nil {
			return nil, storageErr("scan history", err)
		}
		t.GameID = int64PtrVal(gameID)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list history", err)
	}
	return out, nil
}

// GetBalance returns the balance aggregate of an existing player; players
// without any transaction report zero.
func (s *Store) GetBalance(ctx context.Context, playerID int64) (*Balance, error) {
	var (
		b           Balance
		lastUpdated pgtype.Timestamptz
	)
	err := s.Pool.QueryRow(ctx, `
		SELECT p.player_id, COALESCE(s.current_total, 0), s.last_updated
		FROM players p
		LEFT JOIN scores s ON s.player_id = p.player_id
		WHERE p.player_id = $1
	`, playerID).Scan(&b.PlayerID, &b.CurrentTotal, &lastUpdated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, storageErr("read balance", err)
	}
	b.LastUpdated = timePtrVal(lastUpdated)
	return &b, nil
}

// SumPointsChange adds up a player's ledger entries. It must equal the
// balance aggregate; the player stats report both.
func (s *Store) SumPointsChange(ctx context.Context, playerID int64) (int64, error) {
	var sum int64
	err := s.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(points_change), 0)::bigint FROM score_transactions WHERE player_id = $1
	`, playerID).Scan(&sum)
	if err != nil {
		return 0, storageErr("sum points", err)
	}
	return sum, nil
}
