package httptransport

import (
	"context"
	"net/http"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			WriteHTTPError(w, http.StatusServiceUnavailable, "db_unavailable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}
