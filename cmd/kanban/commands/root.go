package commands

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gosuda/kanban/internal/config"
	"github.com/gosuda/kanban/internal/store/postgres"
)

// cfg is loaded once per invocation before any subcommand runs.
var cfg *config.Config

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "kanban",
		Short:         "Kanban boards with drag-drop ordering and realtime refresh",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded
			setupLogging(cmd.ErrOrStderr(), cfg.Log)
			return nil
		},
	}

	root.AddCommand(serveCmd(), migrateCmd(), exportCmd(), importCmd(), markdownCmd())
	return root
}

// setupLogging configures the global zerolog logger. An unparseable level
// falls back to info.
func setupLogging(out io.Writer, lc config.LogConfig) {
	level, err := zerolog.ParseLevel(lc.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if lc.Format == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	}
}

func openStore(ctx context.Context) (*postgres.Store, error) {
	if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
		return nil, fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
	}
	return postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
}

func parseBoardID(arg string) (uuid.UUID, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid board id %q: %w", arg, err)
	}
	return id, nil
}
