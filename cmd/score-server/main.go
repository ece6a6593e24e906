package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	appgames "qipai-scores/internal/app/games"
	appplayers "qipai-scores/internal/app/players"
	appscores "qipai-scores/internal/app/scores"
	"qipai-scores/internal/cache"
	"qipai-scores/internal/config"
	"qipai-scores/internal/jobs"
	"qipai-scores/internal/ledger"
	"qipai-scores/internal/logging"
	"qipai-scores/internal/store"
	httptransport "qipai-scores/internal/transport/http"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.New(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer st.Close()
	if err := st.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}

	snapshots := newLeaderboardCache(cfg.Server)
	defer func() { _ = snapshots.Close() }()

	led := ledger.New(st)
	scoreSvc := appscores.NewService(led, st, snapshots)
	playerSvc := appplayers.NewService(st)
	gameSvc := appgames.NewService(st, scoreSvc)

	if cfg.Server.RollupEnabled {
		sched, err := jobs.NewScheduler(cfg.Server, scoreSvc)
		if err != nil {
			log.Fatal().Err(err).Str("cron", cfg.Server.RollupCron).Msg("scheduler init failed")
		}
		sched.Start()
		defer sched.Stop()
	}

	r := httptransport.NewRouter(httptransport.Services{
		DB:      st,
		Players: playerSvc,
		Games:   gameSvc,
		Scores:  scoreSvc,
	})
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("http listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("server stopped")
		return
	}
	log.Info().Msg("server stopped")
}

func newLeaderboardCache(cfg config.ServerConfig) cache.Leaderboard {
	if cfg.RedisURL == "" {
		log.Info().Msg("leaderboard cache disabled")
		return cache.Noop{}
	}
	c, err := cache.NewRedis(cfg.RedisURL, cfg.LeaderboardCacheTTL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, leaderboard cache disabled")
		return cache.Noop{}
	}
	log.Info().Dur("ttl", cfg.LeaderboardCacheTTL).Msg("leaderboard cache enabled")
	return c
}
