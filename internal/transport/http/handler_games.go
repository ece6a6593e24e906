package httptransport

import (
	"context"
	"net/http"

	appgames "qipai-scores/internal/app/games"
	appscores "qipai-scores/internal/app/scores"
	"qipai-scores/internal/store"
)

type GameService interface {
	Start(ctx context.Context, req appgames.StartRequest) (*appgames.StartResponse, error)
	Get(ctx context.Context, gameID int64) (*store.Game, error)
	Participants(ctx context.Context, gameID int64) (*appgames.ParticipantsResponse, error)
	EndWithResults(ctx context.Context, gameID int64, results []appgames.Result) (*appgames.EndResponse, error)
	Join(ctx context.Context, gameID int64, req appgames.JoinRequest) (*store.Participant, error)
	Leave(ctx context.Context, gameID, playerID int64) (*store.Participant, error)
}

type GameHandlers struct {
	games  GameService
	scores ScoreService
}

func NewGameHandlers(games GameService, scores ScoreService) *GameHandlers {
	return &GameHandlers{games: games, scores: scores}
}

func (h *GameHandlers) Start() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req appgames.StartRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		resp, err := h.games.Start(r.Context(), req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}

func (h *GameHandlers) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "game_id")
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		g, err := h.games.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, g)
	}
}

func (h *GameHandlers) Participants() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "game_id")
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		resp, err := h.games.Participants(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *GameHandlers) End() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "game_id")
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		var req appgames.EndRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		resp, err := h.games.EndWithResults(r.Context(), id, req.Results)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *GameHandlers) Join() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "game_id")
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		var req appgames.JoinRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		p, err := h.games.Join(r.Context(), id, req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

func (h *GameHandlers) Leave() http.HandlerFunc {
	type request struct {
		PlayerID int64 `json:"player_id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "game_id")
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		var req request
		if !decodeJSON(w, r, &req) {
			return
		}
		p, err := h.games.Leave(r.Context(), id, req.PlayerID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// Transfer moves points between two seated players of the game in the path.
func (h *GameHandlers) Transfer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "game_id")
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		var req appscores.TransferRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.GameID != nil && *req.GameID != id {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		req.GameID = &id
		tr, err := h.scores.Transfer(r.Context(), req)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, tr)
	}
}

var _ GameService = (*appgames.Service)(nil)
