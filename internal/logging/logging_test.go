package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"qipai-scores/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestInitLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	Init(config.LogConfig{Level: "DEBUG"})
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Fatalf("level = %v, want debug", zerolog.GlobalLevel())
	}

	Init(config.LogConfig{Level: "nonsense"})
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Fatalf("level = %v, want info fallback", zerolog.GlobalLevel())
	}
}

func TestInitMirrorsToFile(t *testing.T) {
	defer setWriter(os.Stdout)
	path := filepath.Join(t.TempDir(), "scores.log")

	Init(config.LogConfig{Level: "info", Service: "score-server", File: path, MaxMB: 1, Backups: 1})
	log.Info().Int64("player_id", 7).Msg("points applied")

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), `"player_id":7`) || !strings.Contains(string(b), `"service":"score-server"`) {
		t.Fatalf("log file missing entry: %q", b)
	}
	if Writer() == os.Stdout {
		t.Fatal("Writer() should include the log file")
	}
}
