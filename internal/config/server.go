package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type ServerConfig struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// Empty disables the leaderboard snapshot cache.
	RedisURL            string        `env:"REDIS_URL"`
	LeaderboardCacheTTL time.Duration `env:"LEADERBOARD_CACHE_TTL" envDefault:"30s"`

	RollupEnabled  bool   `env:"ROLLUP_ENABLED" envDefault:"true"`
	RollupCron     string `env:"ROLLUP_CRON" envDefault:"5 0 * * *"`
	RollupTimezone string `env:"ROLLUP_TIMEZONE" envDefault:"UTC"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
