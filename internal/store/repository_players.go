package store

import (
	"context"
	"strings"
)

func (s *Store) CreatePlayer(ctx context.Context, username string) (*Player, error) {
	username = strings.TrimSpace(username)
	var p Player
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO players (username)
		VALUES ($1)
		RETURNING player_id, username, created_at
	`, username).Scan(&p.ID, &p.Username, &p.CreatedAt)
	if err != nil {
		if code, _ := pgErrorCode(err); code == pgUniqueViolation {
			return nil, ErrDuplicateUsername
		}
		return nil, storageErr("insert player", err)
	}
	return &p, nil
}

func (s *Store) GetPlayer(ctx context.Context, playerID int64) (*Player, error) {
	var p Player
	err := s.Pool.QueryRow(ctx, `SELECT player_id, username, created_at FROM players WHERE player_id = $1`, playerID).
		Scan(&p.ID, &p.Username, &p.CreatedAt)
	if err != nil {
		return nil, mapNotFound("get player", err, ErrPlayerNotFound)
	}
	return &p, nil
}

func (s *Store) GetPlayerByUsername(ctx context.Context, username string) (*Player, error) {
	var p Player
	err := s.Pool.QueryRow(ctx, `SELECT player_id, username, created_at FROM players WHERE username = $1`, strings.TrimSpace(username)).
		Scan(&p.ID, &p.Username, &p.CreatedAt)
	if err != nil {
		return nil, mapNotFound("get player by username", err, ErrPlayerNotFound)
	}
	return &p, nil
}

func (s *Store) ListPlayers(ctx context.Context, limit, offset int) ([]Player, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT player_id, username, created_at
		FROM players
		ORDER BY player_id ASC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, storageErr("list players", err)
	}
	defer rows.Close()
	out := []Player{}
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.ID, &p.Username, &p.CreatedAt); err != nil {
			return nil, storageErr("scan player", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list players", err)
	}
	return out, nil
}
