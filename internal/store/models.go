package store

import "time"

type Player struct {
	ID        int64     `json:"player_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Balance is the per-player aggregate maintained by the ledger. LastUpdated
// is nil until the first transaction lands.
type Balance struct {
	PlayerID     int64      `json:"player_id"`
	CurrentTotal int64      `json:"current_total"`
	LastUpdated  *time.Time `json:"last_updated"`
}

// Transaction is an immutable ledger entry. CurrentTotal is the balance
// snapshot right after PointsChange was applied.
type Transaction struct {
	ID           string    `json:"transaction_id"`
	PlayerID     int64     `json:"player_id"`
	GameID       *int64    `json:"game_id"`
	PointsChange int64     `json:"points_change"`
	CurrentTotal int64     `json:"current_total"`
	EventTime    time.Time `json:"event_time"`
}

type Game struct {
	ID        int64      `json:"game_id"`
	GameType  string     `json:"game_type"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
}

func (g *Game) Ended() bool {
	return g.EndTime != nil
}

type Participant struct {
	ID           int64      `json:"participation_id"`
	GameID       int64      `json:"game_id"`
	PlayerID     int64      `json:"player_id"`
	Username     string     `json:"username,omitempty"`
	InitialScore int64      `json:"initial_score"`
	FinalScore   *int64     `json:"final_score"`
	Position     *int       `json:"position"`
	CreatedAt    time.Time  `json:"created_at"`
	LeftAt       *time.Time `json:"left_at"`
}

func (p *Participant) Active() bool {
	return p.LeftAt == nil
}

// Transfer is the pair of ledger entries written by one point transfer.
type Transfer struct {
	From   Transaction `json:"from"`
	To     Transaction `json:"to"`
	GameID *int64      `json:"game_id"`
}

type NewParticipant struct {
	PlayerID     int64
	InitialScore int64
	Position     *int
}

type LeaderboardEntry struct {
	PlayerID     int64     `json:"player_id"`
	Username     string    `json:"username"`
	CurrentTotal int64     `json:"current_total"`
	LastUpdated  time.Time `json:"last_updated"`
}

type PlayerGameStats struct {
	PlayerID       int64
	TotalGames     int
	CompletedGames int
	AvgScoreChange *float64
}

type DailyChange struct {
	PlayerID     int64
	Username     string
	DailyChange  int64
	CurrentTotal int64
}

type ScoreHistoryEntry struct {
	TransactionID string
	PlayerID      int64
	Username      string
	GameID        *int64
	GameType      string
	PointsChange  int64
	CurrentTotal  int64
	EventTime     time.Time
}

type GameTypeStats struct {
	GameType           string
	TotalGames         int
	CompletedGames     int
	AvgDurationMinutes *float64
}
