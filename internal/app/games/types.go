package games

import "qipai-scores/internal/store"

type StartRequest struct {
	GameType      string  `json:"game_type"`
	PlayerIDs     []int64 `json:"player_ids"`
	InitialScores []int64 `json:"initial_scores,omitempty"`
}

type StartResponse struct {
	Game         *store.Game         `json:"game"`
	Participants []store.Participant `json:"participants"`
}

type JoinRequest struct {
	PlayerID     int64 `json:"player_id"`
	InitialScore int64 `json:"initial_score"`
	Position     *int  `json:"position,omitempty"`
}

type Result struct {
	PlayerID int64 `json:"player_id"`
	Delta    int64 `json:"delta"`
}

type EndRequest struct {
	Results []Result `json:"results"`
}

// ResultOutcome reports what the ledger did with one player's result. Error is
// set when the point change could not be posted; the game stays ended.
type ResultOutcome struct {
	PlayerID    int64              `json:"player_id"`
	Delta       int64              `json:"delta"`
	Transaction *store.Transaction `json:"transaction,omitempty"`
	Error       string             `json:"error,omitempty"`
}

type EndResponse struct {
	Game    *store.Game     `json:"game"`
	Results []ResultOutcome `json:"results"`
}

type ParticipantsResponse struct {
	GameID int64               `json:"game_id"`
	Items  []store.Participant `json:"items"`
}
