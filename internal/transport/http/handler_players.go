package httptransport

import (
	"context"
	"net/http"

	appplayers "qipai-scores/internal/app/players"
	appscores "qipai-scores/internal/app/scores"
	"qipai-scores/internal/store"
)

type PlayerService interface {
	Register(ctx context.Context, username string) (*store.Player, error)
	Get(ctx context.Context, playerID int64) (*store.Player, error)
	List(ctx context.Context, limit, offset int) (*appplayers.ListResponse, error)
	Stats(ctx context.Context, playerID int64) (*appplayers.StatsResponse, error)
}

type PlayerHandlers struct {
	players PlayerService
	scores  ScoreService
}

func NewPlayerHandlers(players PlayerService, scores ScoreService) *PlayerHandlers {
	return &PlayerHandlers{players: players, scores: scores}
}

func (h *PlayerHandlers) Register() http.HandlerFunc {
	type request struct {
		Username string `json:"username"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if !decodeJSON(w, r, &req) {
			return
		}
		p, err := h.players.Register(r.Context(), req.Username)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

func (h *PlayerHandlers) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		resp, err := h.players.List(r.Context(), limit, offset)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *PlayerHandlers) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "player_id")
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		p, err := h.players.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func (h *PlayerHandlers) Stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "player_id")
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		resp, err := h.players.Stats(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *PlayerHandlers) Transactions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "player_id")
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		limit, _ := ParsePagination(r)
		resp, err := h.scores.Transactions(r.Context(), id, limit)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *PlayerHandlers) ScoreHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "player_id")
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		days, ok := queryInt(r, "days", 0)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		resp, err := h.scores.ScoreHistory(r.Context(), id, days)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// Points posts a signed point change. A game_id ties it to a game.
func (h *PlayerHandlers) Points() http.HandlerFunc {
	type request struct {
		Delta  int64  `json:"delta"`
		GameID *int64 `json:"game_id"`
		Reason string `json:"reason"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "player_id")
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		var req request
		if !decodeJSON(w, r, &req) {
			return
		}
		var (
			tx  *store.Transaction
			err error
		)
		switch {
		case req.Delta > 0:
			tx, err = h.scores.Award(r.Context(), id, req.Delta, req.GameID, req.Reason)
		case req.Delta < 0:
			tx, err = h.scores.Deduct(r.Context(), id, -req.Delta, req.GameID, req.Reason)
		default:
			err = store.ErrInvalidDelta
		}
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, tx)
	}
}

// Transfer moves points between two players outside any game unless the body
// names one.
func (h *PlayerHandlers) Transfer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req appscores.TransferRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		tr, err := h.scores.Transfer(r.Context(), req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, tr)
	}
}

var _ PlayerService = (*appplayers.Service)(nil)
var _ ScoreService = (*appscores.Service)(nil)
