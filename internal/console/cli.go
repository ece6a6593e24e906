package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"qipai-scores/internal/config"
	"qipai-scores/internal/logging"
	"qipai-scores/internal/store"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Connector opens an executor for a database config. The returned close
// function releases the connection pool.
type Connector func(ctx context.Context, cfg config.DBConfig) (Executor, func(), error)

func PgConnector(ctx context.Context, cfg config.DBConfig) (Executor, func(), error) {
	st, err := store.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := st.Ping(ctx); err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("connect to %s: %w", cfg.Name, err)
	}
	return NewPgExecutor(st.Pool), st.Close, nil
}

type cliState struct {
	dsn     string
	console *Console
	close   func()
}

// closing releases the connection once fn returns, whatever the outcome.
func (s *cliState) closing(fn func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer func() {
			if s.close != nil {
				s.close()
				s.close = nil
			}
		}()
		return fn(cmd, args)
	}
}

// NewRootCmd builds the sqlconsole command tree. Without a subcommand it
// starts the interactive shell.
func NewRootCmd(connect Connector, in io.Reader, out io.Writer) *cobra.Command {
	state := &cliState{}

	root := &cobra.Command{
		Use:   "sqlconsole",
		Short: "Run SQL against the scores database",
		Long: `sqlconsole runs SQL statements, SQL files or an interactive shell
against the scores database configured through DB_* / POSTGRES_DSN.

Statements bypass the score ledger. Use the HTTP API to move points.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadSettingsFile(); err != nil {
				return err
			}
			logCfg, err := config.LoadLog()
			if err != nil {
				return err
			}
			logging.Init(logCfg)
			dbCfg, err := config.LoadDB()
			if err != nil {
				return err
			}
			if state.dsn != "" {
				dbCfg.DSN = state.dsn
			}
			consoleCfg, err := config.LoadConsole()
			if err != nil {
				return err
			}
			exec, closeFn, err := connect(cmd.Context(), dbCfg)
			if err != nil {
				return err
			}
			log.Debug().Str("database", dbCfg.Name).Msg("console connected")
			state.console = New(exec, out, consoleCfg.PreviewRows, consoleCfg.Prompt)
			state.close = closeFn
			return nil
		},
		RunE: state.closing(func(cmd *cobra.Command, _ []string) error {
			return state.console.Shell(cmd.Context(), in)
		}),
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&state.dsn, "dsn", "", "connection string, overrides DB_* settings (env: POSTGRES_DSN)")
	root.SetOut(out)

	root.AddCommand(&cobra.Command{
		Use:   "exec <sql>...",
		Short: "Run one statement and print its result",
		Args:  cobra.MinimumNArgs(1),
		RunE: state.closing(func(cmd *cobra.Command, args []string) error {
			return state.console.Exec(cmd.Context(), strings.Join(args, " "))
		}),
	})
	root.AddCommand(&cobra.Command{
		Use:   "file <path>",
		Short: "Run every statement of a SQL file, continuing past failures",
		Args:  cobra.ExactArgs(1),
		RunE: state.closing(func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			sum := state.console.RunScript(cmd.Context(), string(b))
			if sum.Failed > 0 {
				return fmt.Errorf("%d of %d statements failed", sum.Failed, sum.Total)
			}
			return nil
		}),
	})
	root.AddCommand(&cobra.Command{
		Use:   "shell",
		Short: "Start the interactive shell",
		Args:  cobra.NoArgs,
		RunE: state.closing(func(cmd *cobra.Command, _ []string) error {
			return state.console.Shell(cmd.Context(), in)
		}),
	})
	return root
}

// Execute runs the console against stdin/stdout.
func Execute(ctx context.Context) int {
	if err := NewRootCmd(PgConnector, os.Stdin, os.Stdout).ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
