package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gosuda/kanban/internal/server"
	redisstore "github.com/gosuda/kanban/internal/store/redis"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Graceful shutdown on SIGINT / SIGTERM.
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if migrate {
				if err := store.Migrate(ctx); err != nil {
					return err
				}
			}

			pubsub, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
			if err != nil {
				return err
			}
			defer pubsub.Close()

			srv, err := server.New(ctx, cfg, store, pubsub)
			if err != nil {
				return err
			}

			go func() {
				log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
				if startErr := srv.Start(ctx); startErr != nil {
					log.Error().Err(startErr).Msg("server error")
					cancel()
				}
			}()

			<-ctx.Done()
			log.Info().Msg("shutting down")

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer shutdownCancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}

			log.Info().Msg("stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "create missing tables before serving")
	return cmd
}
