package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrInsufficientBalance = errors.New("insufficient_balance")
	ErrInvalidDelta        = errors.New("invalid_delta")
	ErrPlayerNotFound      = errors.New("player_not_found")
	ErrGameNotFound        = errors.New("game_not_found")
	ErrDuplicateUsername   = errors.New("duplicate_username")
	ErrAlreadyEnded        = errors.New("game_already_ended")
	ErrAlreadySeated       = errors.New("already_seated")
	ErrNotParticipant      = errors.New("not_participant")
	ErrSelfTransfer        = errors.New("self_transfer")
	ErrStorage             = errors.New("storage_failure")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// storageErr tags infrastructure failures with ErrStorage while keeping the
// driver error reachable through errors.As.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

func mapNotFound(op string, err, notFound error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	return storageErr(op, err)
}

func pgErrorCode(err error) (string, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

// mapForeignKey turns FK violations into the referential error of the
// missing parent row.
func mapForeignKey(op string, err error) error {
	code, constraint := pgErrorCode(err)
	if code != pgForeignKeyViolation {
		return storageErr(op, err)
	}
	switch constraint {
	case "game_participants_game_id_fkey", "score_transactions_game_id_fkey":
		return ErrGameNotFound
	case "game_participants_player_id_fkey", "score_transactions_player_id_fkey", "scores_player_id_fkey":
		return ErrPlayerNotFound
	default:
		return storageErr(op, err)
	}
}
