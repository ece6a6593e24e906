package httptransport

import (
	"context"
	"net/http"
	"time"

	appscores "qipai-scores/internal/app/scores"
	"qipai-scores/internal/store"
)

type ScoreService interface {
	Award(ctx context.Context, playerID, amount int64, gameID *int64, reason string) (*store.Transaction, error)
	Deduct(ctx context.Context, playerID, amount int64, gameID *int64, reason string) (*store.Transaction, error)
	Transfer(ctx context.Context, req appscores.TransferRequest) (*store.Transfer, error)
	Transactions(ctx context.Context, playerID int64, limit int) (*appscores.TransactionsResponse, error)
	ScoreHistory(ctx context.Context, playerID int64, days int) (*appscores.ScoreHistoryResponse, error)
	Leaderboard(ctx context.Context, limit int) (*appscores.LeaderboardResponse, error)
	DailyChanges(ctx context.Context, day time.Time) (*appscores.DailyChangesResponse, error)
	GameTypeStats(ctx context.Context) (*appscores.GameTypeStatsResponse, error)
}

type StatsHandlers struct {
	scores ScoreService
	now    func() time.Time
}

func NewStatsHandlers(scores ScoreService) *StatsHandlers {
	return &StatsHandlers{scores: scores, now: time.Now}
}

func (h *StatsHandlers) Leaderboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, ok := queryInt(r, "limit", 0)
		if !ok {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		resp, err := h.scores.Leaderboard(r.Context(), limit)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// Daily reports the given ?date=YYYY-MM-DD, today (UTC) when omitted.
func (h *StatsHandlers) Daily() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day := h.now()
		if v := r.URL.Query().Get("date"); v != "" {
			parsed, err := appscores.ParseDay(v)
			if err != nil {
				WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
				return
			}
			day = parsed
		}
		resp, err := h.scores.DailyChanges(r.Context(), day)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (h *StatsHandlers) GameTypes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := h.scores.GameTypeStats(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
