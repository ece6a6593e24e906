// Package jobs runs the score server's periodic work on a cron schedule.
package jobs

import (
	"context"
	"time"

	appscores "qipai-scores/internal/app/scores"
	"qipai-scores/internal/config"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const refreshLeaderboardLimit = 10

type Rollup interface {
	DailyChanges(ctx context.Context, day time.Time) (*appscores.DailyChangesResponse, error)
	RefreshLeaderboard(ctx context.Context, limit int) error
}

type Scheduler struct {
	cron   *cron.Cron
	rollup Rollup
	now    func() time.Time
}

// NewScheduler registers the nightly rollup. An unknown timezone falls back
// to UTC; a bad cron expression is an error.
func NewScheduler(cfg config.ServerConfig, rollup Rollup) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.RollupTimezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", cfg.RollupTimezone).Msg("unknown rollup timezone, using UTC")
		loc = time.UTC
	}
	s := &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		rollup: rollup,
		now:    time.Now,
	}
	if _, err := s.cron.AddFunc(cfg.RollupCron, func() { s.RunRollup(context.Background()) }); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info().Int("jobs", len(s.cron.Entries())).Msg("scheduler started")
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunRollup logs the previous UTC day's per-player changes and rebuilds the
// leaderboard snapshot.
func (s *Scheduler) RunRollup(ctx context.Context) {
	day := s.now().UTC().AddDate(0, 0, -1)
	resp, err := s.rollup.DailyChanges(ctx, day)
	if err != nil {
		log.Error().Err(err).Msg("daily rollup failed")
	} else {
		var net int64
		for _, it := range resp.Items {
			net += it.DailyChange
		}
		log.Info().Str("date", resp.Date).Int("players", len(resp.Items)).Int64("net_change", net).Msg("daily rollup")
		for _, it := range resp.Items {
			log.Debug().Str("date", resp.Date).Int64("player_id", it.PlayerID).Int64("daily_change", it.DailyChange).
				Int64("current_total", it.CurrentTotal).Msg("daily rollup row")
		}
	}
	if err := s.rollup.RefreshLeaderboard(ctx, refreshLeaderboardLimit); err != nil {
		log.Warn().Err(err).Msg("leaderboard refresh failed")
	}
}
