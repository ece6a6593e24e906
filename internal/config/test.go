package config

import "github.com/caarlos0/env/v11"

// TestConfig gates the integration tests. Database tests skip when
// TEST_POSTGRES_DSN is unset; Redis cache tests fall back to an in-process
// server unless TEST_REDIS_URL points at a real one.
type TestConfig struct {
	TestPostgresDSN string `env:"TEST_POSTGRES_DSN,required,notEmpty"`
	// KeepSchema leaves each test's throwaway schema behind for inspection.
	KeepSchema bool `env:"TEST_KEEP_SCHEMA" envDefault:"false"`
}

func LoadTest() (TestConfig, error) {
	var cfg TestConfig
	err := env.Parse(&cfg)
	return cfg, err
}

// TestRedisURL returns TEST_REDIS_URL, empty when unset.
func TestRedisURL() string {
	var cfg struct {
		URL string `env:"TEST_REDIS_URL"`
	}
	_ = env.Parse(&cfg)
	return cfg.URL
}
