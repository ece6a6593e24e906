package ledger

import (
	"context"
	"errors"

	"qipai-scores/internal/store"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var ErrInvalidAmount = errors.New("invalid_amount")

// Store is the subset of the database layer the ledger writes through.
type Store interface {
	ApplyDelta(ctx context.Context, playerID, delta int64, gameID *int64) (*store.Transaction, error)
	History(ctx context.Context, playerID int64, limit int) ([]store.Transaction, error)
	GetBalance(ctx context.Context, playerID int64) (*store.Balance, error)
	Transfer(ctx context.Context, fromID, toID, points int64, gameID *int64) (*store.Transfer, error)
}

type Ledger struct {
	Store Store
}

func New(s Store) *Ledger {
	return &Ledger{Store: s}
}

func (l *Ledger) ApplyDelta(ctx context.Context, playerID, delta int64, gameID *int64) (*store.Transaction, error) {
	return l.apply(ctx, playerID, delta, gameID, "")
}

// Award credits a positive amount. The reason is only logged.
func (l *Ledger) Award(ctx context.Context, playerID, amount int64, gameID *int64, reason string) (*store.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return l.apply(ctx, playerID, amount, gameID, reason)
}

// Deduct debits a positive amount. It fails with store.ErrInsufficientBalance
// when the player cannot cover it.
func (l *Ledger) Deduct(ctx context.Context, playerID, amount int64, gameID *int64, reason string) (*store.Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return l.apply(ctx, playerID, -amount, gameID, reason)
}

// Transfer moves a positive amount between two players as one unit.
func (l *Ledger) Transfer(ctx context.Context, fromID, toID, amount int64, gameID *int64, reason string) (*store.Transfer, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	tr, err := l.Store.Transfer(ctx, fromID, toID, amount, gameID)
	if err != nil {
		rejectEvent(err).
			Int64("from_player_id", fromID).
			Int64("to_player_id", toID).
			Int64("amount", amount).
			Str("reason", reason).
			Msg("point transfer rejected")
		return nil, err
	}
	log.Info().
		Str("debit_id", tr.From.ID).
		Str("credit_id", tr.To.ID).
		Int64("from_player_id", fromID).
		Int64("to_player_id", toID).
		Int64("amount", amount).
		Str("reason", reason).
		Msg("point transfer committed")
	return tr, nil
}

func (l *Ledger) History(ctx context.Context, playerID int64, limit int) ([]store.Transaction, error) {
	return l.Store.History(ctx, playerID, limit)
}

func (l *Ledger) Balance(ctx context.Context, playerID int64) (*store.Balance, error) {
	return l.Store.GetBalance(ctx, playerID)
}

func (l *Ledger) apply(ctx context.Context, playerID, delta int64, gameID *int64, reason string) (*store.Transaction, error) {
	tx, err := l.Store.ApplyDelta(ctx, playerID, delta, gameID)
	if err != nil {
		rejectEvent(err).
			Int64("player_id", playerID).
			Int64("delta", delta).
			Str("reason", reason).
			Msg("score transaction rejected")
		return nil, err
	}
	log.Info().
		Str("transaction_id", tx.ID).
		Int64("player_id", playerID).
		Int64("delta", delta).
		Int64("current_total", tx.CurrentTotal).
		Str("reason", reason).
		Msg("score transaction committed")
	return tx, nil
}

// rejectEvent logs business rejections at warn and infrastructure failures at
// error.
func rejectEvent(err error) *zerolog.Event {
	if errors.Is(err, store.ErrStorage) {
		return log.Error().Err(err)
	}
	return log.Warn().Err(err)
}
