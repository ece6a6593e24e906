package httptransport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	appgames "qipai-scores/internal/app/games"
	appplayers "qipai-scores/internal/app/players"
	appscores "qipai-scores/internal/app/scores"
	"qipai-scores/internal/ledger"
	"qipai-scores/internal/logging"
	"qipai-scores/internal/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 1 << 20

func APILogMiddleware() func(http.Handler) http.Handler {
	return httplog.RequestLogger(
		slog.New(slog.NewJSONHandler(logging.Writer(), &slog.HandlerOptions{})),
		&httplog.Options{
			Level:              slog.LevelInfo,
			Schema:             httplog.Schema{ResponseStatus: "status", ResponseDuration: "duration_ms"},
			LogRequestBody:     func(*http.Request) bool { return false },
			LogResponseBody:    func(*http.Request) bool { return false },
			LogRequestHeaders:  []string{},
			LogResponseHeaders: []string{},
			LogExtraAttrs: func(req *http.Request, _ string, _ int) []slog.Attr {
				route := req.URL.Path
				if rc := chi.RouteContext(req.Context()); rc != nil && rc.RoutePattern() != "" {
					route = rc.RoutePattern()
				}
				return []slog.Attr{
					slog.String("request_id", chimw.GetReqID(req.Context())),
					slog.String("method", req.Method),
					slog.String("route", route),
				}
			},
		},
	)
}

func WriteHTTPError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps domain errors to a status and echoes the sentinel's
// code. Anything unrecognised is logged and reported as internal_error.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, appplayers.ErrInvalidRequest),
		errors.Is(err, appgames.ErrInvalidRequest),
		errors.Is(err, appscores.ErrInvalidRequest):
		WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
	case errors.Is(err, store.ErrInvalidDelta):
		WriteHTTPError(w, http.StatusBadRequest, store.ErrInvalidDelta.Error())
	case errors.Is(err, ledger.ErrInvalidAmount):
		WriteHTTPError(w, http.StatusBadRequest, ledger.ErrInvalidAmount.Error())
	case errors.Is(err, store.ErrSelfTransfer):
		WriteHTTPError(w, http.StatusBadRequest, store.ErrSelfTransfer.Error())
	case errors.Is(err, store.ErrPlayerNotFound):
		WriteHTTPError(w, http.StatusNotFound, store.ErrPlayerNotFound.Error())
	case errors.Is(err, store.ErrGameNotFound):
		WriteHTTPError(w, http.StatusNotFound, store.ErrGameNotFound.Error())
	case errors.Is(err, store.ErrDuplicateUsername):
		WriteHTTPError(w, http.StatusConflict, store.ErrDuplicateUsername.Error())
	case errors.Is(err, store.ErrAlreadyEnded):
		WriteHTTPError(w, http.StatusConflict, store.ErrAlreadyEnded.Error())
	case errors.Is(err, store.ErrAlreadySeated):
		WriteHTTPError(w, http.StatusConflict, store.ErrAlreadySeated.Error())
	case errors.Is(err, store.ErrNotParticipant):
		WriteHTTPError(w, http.StatusUnprocessableEntity, store.ErrNotParticipant.Error())
	case errors.Is(err, store.ErrInsufficientBalance):
		WriteHTTPError(w, http.StatusUnprocessableEntity, store.ErrInsufficientBalance.Error())
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
		return false
	}
	return true
}

func ParsePagination(r *http.Request) (int, int) {
	limit := 50
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 500 {
		limit = 500
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// queryInt returns def when the parameter is absent and ok=false when it is
// present but not an integer.
func queryInt(r *http.Request, name string, def int) (int, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
