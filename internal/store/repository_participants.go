package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const participantColumns = `participation_id, game_id, player_id, initial_score, final_score, position, created_at, left_at`

func scanParticipant(row pgx.Row, extra ...any) (*Participant, error) {
	var (
		p        Participant
		final    pgtype.Int8
		position pgtype.Int4
		leftAt   pgtype.Timestamptz
	)
	dest := []any{&p.ID, &p.GameID, &p.PlayerID, &p.InitialScore, &final, &position, &p.CreatedAt, &leftAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	p.FinalScore = int64PtrVal(final)
	p.Position = intPtrVal(position)
	p.LeftAt = timePtrVal(leftAt)
	return &p, nil
}

// AddParticipant seats a player in a running game. A player who left earlier
// is re-seated on the same row; an active one gets ErrAlreadySeated. Without
// an explicit position the player takes the seat after the highest one.
func (s *Store) AddParticipant(ctx context.Context, gameID int64, seat NewParticipant) (*Participant, error) {
	var out *Participant
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		if err := lockOpenGame(ctx, tx, gameID); err != nil {
			return err
		}

		existing, err := scanParticipant(tx.QueryRow(ctx, `
			SELECT `+participantColumns+` FROM game_participants
			WHERE game_id = $1 AND player_id = $2
		`, gameID, seat.PlayerID))
		switch {
		case err == nil && existing.Active():
			return ErrAlreadySeated
		case err == nil:
			p, err := scanParticipant(tx.QueryRow(ctx, `
				UPDATE game_participants SET left_at = NULL
				WHERE participation_id = $1
				RETURNING `+participantColumns, existing.ID))
			if err != nil {
				return storageErr("rejoin participant", err)
			}
			out = p
			return nil
		case !errors.Is(err, pgx.ErrNoRows):
			return storageErr("check participant", err)
		}

		if seat.Position == nil {
			var next int
			if err := tx.QueryRow(ctx, `
				SELECT COALESCE(MAX(position), 0) + 1 FROM game_participants WHERE game_id = $1
			`, gameID).Scan(&next); err != nil {
				return storageErr("next position", err)
			}
			seat.Position = &next
		}
		p, err := insertParticipant(ctx, tx, gameID, seat)
		if err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LeaveGame marks an active participant of a running game as gone. The row
// stays so the game can still record a final score for the player.
func (s *Store) LeaveGame(ctx context.Context, gameID, playerID int64) (*Participant, error) {
	var out *Participant
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		if err := lockOpenGame(ctx, tx, gameID); err != nil {
			return err
		}
		p, err := scanParticipant(tx.QueryRow(ctx, `
			UPDATE game_participants SET left_at = now()
			WHERE game_id = $1 AND player_id = $2 AND left_at IS NULL
			RETURNING `+participantColumns, gameID, playerID))
		if err != nil {
			return mapNotFound("leave game", err, ErrNotParticipant)
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// lockOpenGame takes the game row lock that serializes seat changes and
// fails for missing or ended games.
func lockOpenGame(ctx context.Context, tx pgx.Tx, gameID int64) error {
	var end pgtype.Timestamptz
	err := tx.QueryRow(ctx, `SELECT end_time FROM games WHERE game_id = $1 FOR UPDATE`, gameID).Scan(&end)
	if err != nil {
		return mapNotFound("lock game", err, ErrGameNotFound)
	}
	if end.Valid {
		return ErrAlreadyEnded
	}
	return nil
}

func insertParticipant(ctx context.Context, q querier, gameID int64, seat NewParticipant) (*Participant, error) {
	p, err := scanParticipant(q.QueryRow(ctx, `
		INSERT INTO game_participants (game_id, player_id, initial_score, position)
		VALUES ($1, $2, $3, $4)
		RETURNING `+participantColumns,
		gameID, seat.PlayerID, seat.InitialScore, int4PtrParam(seat.Position)))
	if err != nil {
		if code, constraint := pgErrorCode(err); code == pgUniqueViolation && constraint == "uq_game_participants_seat" {
			return nil, ErrAlreadySeated
		}
		return nil, mapForeignKey("insert participant", err)
	}
	return p, nil
}

// ListParticipants returns the seats of a game in position order, including
// players who left.
func (s *Store) ListParticipants(ctx context.Context, gameID int64) ([]Participant, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT gp.participation_id, gp.game_id, gp.player_id, gp.initial_score, gp.final_score,
		       gp.position, gp.created_at, gp.left_at, p.username
		FROM game_participants gp
		JOIN players p ON p.player_id = gp.player_id
		WHERE gp.game_id = $1
		ORDER BY gp.position ASC NULLS LAST, gp.participation_id ASC
	`, gameID)
	if err != nil {
		return nil, storageErr("list participants", err)
	}
	defer rows.Close()
	out := []Participant{}
	for rows.Next() {
		var username string
		p, err := scanParticipant(rows, &username)
		if err != nil {
			return nil, storageErr("scan participant", err)
		}
		p.Username = username
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list participants", err)
	}
	return out, nil
}
