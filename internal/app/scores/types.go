package scores

import (
	"time"

	"qipai-scores/internal/store"
)

type TransferRequest struct {
	FromPlayerID int64  `json:"from_player_id"`
	ToPlayerID   int64  `json:"to_player_id"`
	Points       int64  `json:"points"`
	GameID       *int64 `json:"game_id,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

type LeaderboardResponse struct {
	Items  []store.LeaderboardEntry `json:"items"`
	Limit  int                      `json:"limit"`
	Cached bool                     `json:"cached"`
}

type TransactionsResponse struct {
	PlayerID int64               `json:"player_id"`
	Items    []store.Transaction `json:"items"`
	Limit    int                 `json:"limit"`
}

type ScoreHistoryResponse struct {
	PlayerID int64              `json:"player_id"`
	Days     int                `json:"days"`
	Items    []ScoreHistoryItem `json:"items"`
}

type ScoreHistoryItem struct {
	TransactionID string    `json:"transaction_id"`
	GameID        *int64    `json:"game_id"`
	GameType      string    `json:"game_type,omitempty"`
	PointsChange  int64     `json:"points_change"`
	CurrentTotal  int64     `json:"current_total"`
	EventTime     time.Time `json:"event_time"`
}

type DailyChangesResponse struct {
	Date  string            `json:"date"`
	Items []DailyChangeItem `json:"items"`
}

type DailyChangeItem struct {
	PlayerID     int64  `json:"player_id"`
	Username     string `json:"username"`
	DailyChange  int64  `json:"daily_change"`
	CurrentTotal int64  `json:"current_total"`
}

type GameTypeStatsResponse struct {
	Items []GameTypeStatsItem `json:"items"`
}

type GameTypeStatsItem struct {
	GameType           string   `json:"game_type"`
	TotalGames         int      `json:"total_games"`
	CompletedGames     int      `json:"completed_games"`
	AvgDurationMinutes *float64 `json:"avg_duration_minutes"`
}
