package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/marketpro/internal/backup"
	"github.com/alfredjeanlab/marketpro/internal/config"
	"github.com/alfredjeanlab/marketpro/internal/store"
	"github.com/alfredjeanlab/marketpro/internal/ui"
)

var backupCmd = &cobra.Command{
	Use:     "backup",
	Short:   "Export, restore or back up the stored site document",
	GroupID: "system",
	Long: `Operate directly on the store configured by the MARKETPRO_* environment
variables, the same way 'marketpro serve' does.`,
	// These commands open the store themselves.
	PersistentPreRunE: noClient,
}

// withStore opens the configured store for the duration of fn.
func withStore(fn func(ctx context.Context, cfg *config.Config, st store.Store, logger *slog.Logger) error) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx := context.Background()
	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(ctx, cfg, st, logger)
}

var backupExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write a snapshot of the document to a file or stdout",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, _ *config.Config, st store.Store, _ *slog.Logger) error {
			var w io.Writer = cmd.OutOrStdout()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Create(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return backup.Export(ctx, st, w)
		})
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Replace the stored document with a snapshot (- for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, _ *config.Config, st store.Store, _ *slog.Logger) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			if err := backup.Restore(ctx, st, r); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Restored from %s\n", ui.RenderSuccess("✓"), args[0])
			return nil
		})
	},
}

var backupRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Push the document to every configured backup destination once",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, cfg *config.Config, st store.Store, logger *slog.Logger) error {
			dests := backupDestinations(ctx, cfg, logger)
			if len(dests) == 0 {
				return errors.New("no backup destinations configured (set MARKETPRO_BACKUP_S3_BUCKET or MARKETPRO_BACKUP_GIT_REPO)")
			}
			if err := backup.NewScheduler(st, dests, cfg.BackupInterval, logger).RunOnce(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Backed up to %d destination(s)\n", ui.RenderSuccess("✓"), len(dests))
			return nil
		})
	},
}

var backupPullCmd = &cobra.Command{
	Use:   "pull [destination]",
	Short: "Restore the stored document from a backup destination",
	Long: `Restore the document from the first configured backup destination, or
from the one whose name contains the given argument (for example "s3" or "git").`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(ctx context.Context, cfg *config.Config, st store.Store, logger *slog.Logger) error {
			want := ""
			if len(args) == 1 {
				want = args[0]
			}
			dest := pickDestination(backupDestinations(ctx, cfg, logger), want)
			if dest == nil {
				return fmt.Errorf("no backup destination matches %q", want)
			}
			if err := backup.Pull(ctx, st, dest); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Restored from %s\n", ui.RenderSuccess("✓"), dest.Name())
			return nil
		})
	},
}

// pickDestination returns the first destination whose name contains want.
func pickDestination(dests []backup.Destination, want string) backup.Destination {
	for _, d := range dests {
		if strings.Contains(d.Name(), want) {
			return d
		}
	}
	return nil
}

func init() {
	backupCmd.AddCommand(backupExportCmd)
	backupCmd.AddCommand(backupPullCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	backupCmd.AddCommand(backupRunCmd)
}
