package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gosuda/kanban/internal/changefeed"
	"github.com/gosuda/kanban/internal/domain"
	"github.com/gosuda/kanban/internal/export"
	redisstore "github.com/gosuda/kanban/internal/store/redis"
)

var errS3Disabled = errors.New("s3 export is not configured: set KANBAN_S3_BUCKET")

func openArchive(ctx context.Context) (*export.Archive, error) {
	if !cfg.S3.Enabled() {
		return nil, errS3Disabled
	}
	client, err := export.NewS3Client(ctx, cfg.S3)
	if err != nil {
		return nil, err
	}
	return export.NewArchive(client, cfg.S3.Bucket), nil
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <board-id>",
		Short: "Save a board snapshot to the configured S3 bucket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBoardID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			archive, err := openArchive(ctx)
			if err != nil {
				return err
			}

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			snap, err := store.Boards().Snapshot(ctx, id)
			if err != nil {
				return err
			}

			key, err := archive.Save(ctx, snap)
			if err != nil {
				return err
			}
			log.Info().Str("bucket", cfg.S3.Bucket).Str("key", key).Msg("board exported")
			return nil
		},
	}
}

func markdownCmd() *cobra.Command {
	var (
		output      string
		fromArchive bool
	)

	cmd := &cobra.Command{
		Use:   "markdown <board-id>",
		Short: "Render a board as markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseBoardID(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var snap *domain.BoardSnapshot
			if fromArchive {
				archive, err := openArchive(ctx)
				if err != nil {
					return err
				}
				if snap, err = archive.Load(ctx, id); err != nil {
					return err
				}
			} else {
				store, err := openStore(ctx)
				if err != nil {
					return err
				}
				defer store.Close()
				if snap, err = store.Boards().Snapshot(ctx, id); err != nil {
					return err
				}
			}

			data := export.RenderMarkdown(snap)
			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o600); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&fromArchive, "from-archive", false, "render the snapshot saved in S3 instead of the live board")
	return cmd
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.md>",
		Short: "Create a board from a markdown file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			doc, err := export.ParseMarkdown(source)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			board, err := export.Import(ctx, store, doc)
			if err != nil {
				return err
			}
			announceBoard(ctx, board)

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "/board/%s\n", board.ID)
			return err
		},
	}
}

// announceBoard tells running servers about the new board. The import has
// already succeeded, so an unreachable broker is only logged.
func announceBoard(ctx context.Context, board *domain.Board) {
	pubsub, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Warn().Err(err).Msg("change feed unavailable; open boards will not refresh")
		return
	}
	defer pubsub.Close()

	changefeed.NewPublisher(pubsub, cfg.Realtime.Schema).Publish(ctx, board.ID, domain.OpInsert, board)
}
