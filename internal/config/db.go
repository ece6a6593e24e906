package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/caarlos0/env/v11"
)

// DBConfig holds the connection parameters and pool bounds for the score store.
// DSN, when set, wins over the individual fields.
type DBConfig struct {
	DSN      string `env:"POSTGRES_DSN"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     int    `env:"DB_PORT" envDefault:"5432"`
	Name     string `env:"DB_NAME" envDefault:"qipai"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"prefer"`

	PoolMinSize int32 `env:"DB_POOL_MIN_SIZE" envDefault:"1"`
	PoolMaxSize int32 `env:"DB_POOL_MAX_SIZE" envDefault:"10"`
}

func LoadDB() (DBConfig, error) {
	var cfg DBConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c DBConfig) Validate() error {
	if c.PoolMaxSize <= 0 {
		return errors.New("DB_POOL_MAX_SIZE must be > 0")
	}
	if c.PoolMinSize < 0 || c.PoolMinSize > c.PoolMaxSize {
		return fmt.Errorf("DB_POOL_MIN_SIZE must be within [0, %d]", c.PoolMaxSize)
	}
	if c.DSN == "" && c.Host == "" {
		return errors.New("DB_HOST or POSTGRES_DSN is required")
	}
	return nil
}

// ConnString returns the postgres URL used to open the pool.
func (c DBConfig) ConnString() string {
	if c.DSN != "" {
		return c.DSN
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Name,
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	} else if c.User != "" {
		u.User = url.User(c.User)
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{c.SSLMode}}.Encode()
	}
	return u.String()
}
