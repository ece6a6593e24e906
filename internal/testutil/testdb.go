// Package testutil opens throwaway Postgres schemas for tests outside the
// store package. Tests skip when TEST_POSTGRES_DSN is unset.
package testutil

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"qipai-scores/internal/config"
	"qipai-scores/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const initMigration = "000001_init.up.sql"

// OpenTestStore returns a store bound to a fresh schema holding the init
// migration. The schema is dropped when the test ends unless TEST_KEEP_SCHEMA
// is set.
func OpenTestStore(t *testing.T) *store.Store {
	t.Helper()
	cfg, err := config.LoadTest()
	if err != nil {
		t.Skipf("skip test db: %v", err)
	}
	ctx := context.Background()
	schema := "t_" + strings.ToLower(store.NewTransactionID())
	ident := pgx.Identifier{schema}.Sanitize()

	if err := execOnce(ctx, cfg.TestPostgresDSN, "CREATE SCHEMA "+ident); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	st, err := store.NewFromDSN(withSearchPath(cfg.TestPostgresDSN, schema))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
		if cfg.KeepSchema {
			t.Logf("kept test schema %s", schema)
			return
		}
		_ = execOnce(context.Background(), cfg.TestPostgresDSN, "DROP SCHEMA "+ident+" CASCADE")
	})

	ddl, err := readInitMigration()
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	if _, err := st.Pool.Exec(ctx, ddl); err != nil {
		t.Fatalf("apply migration: %v", err)
	}
	return st
}

// SeedPlayer registers username and, when balance > 0, credits it.
func SeedPlayer(t *testing.T, st *store.Store, username string, balance int64) int64 {
	t.Helper()
	ctx := context.Background()
	p, err := st.CreatePlayer(ctx, username)
	if err != nil {
		t.Fatalf("seed player %s: %v", username, err)
	}
	if balance > 0 {
		if _, err := st.ApplyDelta(ctx, p.ID, balance, nil); err != nil {
			t.Fatalf("seed balance %s: %v", username, err)
		}
	}
	return p.ID
}

func execOnce(ctx context.Context, dsn, sql string) error {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()
	_, err = pool.Exec(ctx, sql)
	return err
}

func readInitMigration() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for start := dir; ; {
		p := filepath.Join(dir, "migrations", initMigration)
		if b, err := os.ReadFile(p); err == nil {
			return string(b), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%s not found above %s", initMigration, start)
		}
		dir = parent
	}
}

func withSearchPath(dsn, schema string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" {
		return dsn + " search_path=" + schema
	}
	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()
	return u.String()
}
