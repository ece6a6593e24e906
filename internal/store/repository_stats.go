package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Leaderboard lists balances from highest to lowest; equal totals are ordered
// by player id so pages are stable.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT p.player_id, p.username, s.current_total, s.last_updated
		FROM scores s
		JOIN players p ON p.player_id = s.player_id
		ORDER BY s.current_total DESC, s.player_id ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, storageErr("leaderboard", err)
	}
	defer rows.Close()
	out := make([]LeaderboardEntry, 0, limit)
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.PlayerID, &e.Username, &e.CurrentTotal, &e.LastUpdated); err != nil {
			return nil, storageErr("scan leaderboard", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("leaderboard", err)
	}
	return out, nil
}

// PlayerGameStats counts a player's games and averages final - initial score
// over participations that have a final score.
func (s *Store) PlayerGameStats(ctx context.Context, playerID int64) (*PlayerGameStats, error) {
	var (
		st  = PlayerGameStats{PlayerID: playerID}
		avg pgtype.Float8
	)
	err := s.Pool.QueryRow(ctx, `
		SELECT
			COUNT(DISTINCT gp.game_id),
			COUNT(DISTINCT CASE WHEN g.end_time IS NOT NULL THEN gp.game_id END),
			AVG(gp.final_score - gp.initial_score)::float8
		FROM game_participants gp
		JOIN games g ON g.game_id = gp.game_id
		WHERE gp.player_id = $1
	`, playerID).Scan(&st.TotalGames, &st.CompletedGames, &avg)
	if err != nil {
		return nil, storageErr("player game stats", err)
	}
	st.AvgScoreChange = float64PtrVal(avg)
	return &st, nil
}

// DailyChanges sums each player's point changes over [dayStart, dayStart+24h).
func (s *Store) DailyChanges(ctx context.Context, dayStart time.Time) ([]DailyChange, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT p.player_id, p.username, SUM(st.points_change)::bigint AS daily_change, s.current_total
		FROM score_transactions st
		JOIN players p ON p.player_id = st.player_id
		JOIN scores s ON s.player_id = st.player_id
		WHERE st.event_time >= $1 AND st.event_time < $2
		GROUP BY p.player_id, p.username, s.current_total
		ORDER BY daily_change DESC, p.player_id ASC
	`, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return nil, storageErr("daily changes", err)
	}
	defer rows.Close()
	out := []DailyChange{}
	for rows.Next() {
		var d DailyChange
		if err := rows.Scan(&d.PlayerID, &d.Username, &d.DailyChange, &d.CurrentTotal); err != nil {
			return nil, storageErr("scan daily change", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("daily changes", err)
	}
	return out, nil
}

// ScoreHistory returns a player's ledger entries since a point in time with
// the type of the game each entry belongs to, newest first.
func (s *Store) ScoreHistory(ctx context.Context, playerID int64, since time.Time) ([]ScoreHistoryEntry, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT st.transaction_id, st.player_id, p.username, st.game_id, g.game_type,
		       st.points_change, st.current_total, st.event_time
		FROM score_transactions st
		JOIN players p ON p.player_id = st.player_id
		LEFT JOIN games g ON g.game_id = st.game_id
		WHERE st.player_id = $1 AND st.event_time >= $2
		ORDER BY st.event_time DESC, st.transaction_id DESC
	`, playerID, since)
	if err != nil {
		return nil, storageErr("score history", err)
	}
	defer rows.Close()
	out := []ScoreHistoryEntry{}
	for rows.Next() {
		var (
			e        ScoreHistoryEntry
			gameID   pgtype.Int8
			gameType pgtype.Text
		)
		if err := rows.Scan(&e.TransactionID, &e.PlayerID, &e.Username, &gameID, &gameType,
			&e.PointsChange, &e.CurrentTotal, &e.EventTime); err != nil {
			return nil, storageErr("scan score history", err)
		}
		e.GameID = int64PtrVal(gameID)
		e.GameType = textVal(gameType)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("score history", err)
	}
	return out, nil
}

func (s *Store) GameTypeStats(ctx context.Context) ([]GameTypeStats, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT game_type,
		       COUNT(*),
		       COUNT(end_time),
		       AVG(EXTRACT(EPOCH FROM (end_time - start_time)) / 60)::float8
		FROM games
		GROUP BY game_type
		ORDER BY game_type ASC
	`)
	if err != nil {
		return nil, storageErr("game type stats", err)
	}
	defer rows.Close()
	out := []GameTypeStats{}
	for rows.Next() {
		var (
			g   GameTypeStats
			avg pgtype.Float8
		)
		if err := rows.Scan(&g.GameType, &g.TotalGames, &g.CompletedGames, &avg); err != nil {
			return nil, storageErr("scan game type stats", err)
		}
		g.AvgDurationMinutes = float64PtrVal(avg)
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("game type stats", err)
	}
	return out, nil
}
