package players

import (
	"time"

	"qipai-scores/internal/store"
)

type StatsResponse struct {
	PlayerID           int64               `json:"player_id"`
	Username           string              `json:"username"`
	CreatedAt          time.Time           `json:"created_at"`
	CurrentTotal       int64               `json:"current_total"`
	LedgerTotal        int64               `json:"ledger_total"`
	LastUpdated        *time.Time          `json:"last_updated"`
	TotalGames         int                 `json:"total_games"`
	CompletedGames     int                 `json:"completed_games"`
	AvgScoreChange     *float64            `json:"avg_score_change"`
	RecentTransactions []store.Transaction `json:"recent_transactions"`
}

type ListResponse struct {
	Items  []store.Player `json:"items"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}
