package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"qipai-scores/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	writerMu sync.RWMutex
	writer   io.Writer = os.Stdout
)

// Init configures the global zerolog logger. When cfg.File is set, output is
// mirrored to a rotating file next to stdout. Every entry carries the service
// name so the HTTP server and the console can share one log file.
func Init(cfg config.LogConfig) {
	level := zerolog.InfoLevel
	if v := strings.TrimSpace(cfg.Level); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}

	var out io.Writer = os.Stdout
	var fileErr error
	if cfg.File != "" {
		f, err := openRotatingFile(cfg.File, cfg.MaxMB, cfg.Backups)
		if err != nil {
			fileErr = err
		} else {
			out = io.MultiWriter(os.Stdout, f)
		}
	}
	setWriter(out)

	var console io.Writer = out
	if cfg.Pretty {
		console = zerolog.ConsoleWriter{Out: out}
	}

	zerolog.SetGlobalLevel(level)
	ctx := zerolog.New(console).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	logger := ctx.Logger()
	if cfg.SampleEvery > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(cfg.SampleEvery)})
	}
	log.Logger = logger
	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", cfg.File).Msg("log file disabled")
	}
}

// Writer returns the raw (non-pretty) destination picked by Init. HTTP access
// logs share it.
func Writer() io.Writer {
	writerMu.RLock()
	defer writerMu.RUnlock()
	return writer
}

func setWriter(w io.Writer) {
	writerMu.Lock()
	writer = w
	writerMu.Unlock()
}
