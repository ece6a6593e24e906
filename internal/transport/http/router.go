package httptransport

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type Services struct {
	DB      Pinger
	Players PlayerService
	Games   GameService
	Scores  ScoreService
}

func NewRouter(svc Services) *chi.Mux {
	playerHandlers := NewPlayerHandlers(svc.Players, svc.Scores)
	gameHandlers := NewGameHandlers(svc.Games, svc.Scores)
	statsHandlers := NewStatsHandlers(svc.Scores)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", HealthHandler(svc.DB))

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())

		r.Post("/players", playerHandlers.Register())
		r.Get("/players", playerHandlers.List())
		r.Get("/players/{player_id}", playerHandlers.Get())
		r.Get("/players/{player_id}/stats", playerHandlers.Stats())
		r.Get("/players/{player_id}/transactions", playerHandlers.Transactions())
		r.Get("/players/{player_id}/history", playerHandlers.ScoreHistory())
		r.Post("/players/{player_id}/points", playerHandlers.Points())
		r.Post("/transfers", playerHandlers.Transfer())

		r.Post("/games", gameHandlers.Start())
		r.Get("/games/{game_id}", gameHandlers.Get())
		r.Get("/games/{game_id}/participants", gameHandlers.Participants())
		r.Post("/games/{game_id}/join", gameHandlers.Join())
		r.Post("/games/{game_id}/leave", gameHandlers.Leave())
		r.Post("/games/{game_id}/transfer", gameHandlers.Transfer())
		r.Post("/games/{game_id}/end", gameHandlers.End())

		r.Get("/leaderboard", statsHandlers.Leaderboard())
		r.Get("/stats/daily", statsHandlers.Daily())
		r.Get("/stats/game-types", statsHandlers.GameTypes())
	})
	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 32)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
