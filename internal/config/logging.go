package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

const maxLogBackups = 9

// LogConfig drives logging.Init. File is optional; when set, output is also
// written there and rotated every MaxMB megabytes, keeping Backups old files.
type LogConfig struct {
	Level       string `env:"LOG_LEVEL" envDefault:"info"`
	Pretty      bool   `env:"LOG_PRETTY" envDefault:"false"`
	SampleEvery int    `env:"LOG_SAMPLE_EVERY" envDefault:"0"`
	Service     string `env:"LOG_SERVICE" envDefault:"qipai-scores"`
	File        string `env:"LOG_FILE"`
	MaxMB       int    `env:"LOG_MAX_MB" envDefault:"10"`
	Backups     int    `env:"LOG_BACKUPS" envDefault:"3"`
}

func LoadLog() (LogConfig, error) {
	var cfg LogConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	cfg.Level = strings.ToLower(strings.TrimSpace(cfg.Level))
	cfg.File = strings.TrimSpace(cfg.File)
	if cfg.MaxMB <= 0 {
		return cfg, fmt.Errorf("LOG_MAX_MB must be positive, got %d", cfg.MaxMB)
	}
	if cfg.Backups < 0 || cfg.Backups > maxLogBackups {
		return cfg, fmt.Errorf("LOG_BACKUPS must be between 0 and %d, got %d", maxLogBackups, cfg.Backups)
	}
	return cfg, nil
}
