package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/alfredjeanlab/marketpro/internal/events"
	"github.com/alfredjeanlab/marketpro/internal/hooks"
)

var hookCmd = &cobra.Command{
	Use:     "hook <command>",
	Short:   "Run a command on this machine whenever the site document changes",
	GroupID: "system",
	Long: `Subscribe to document updates over NATS and run a shell command for each.
The new document is passed on stdin; MARKETPRO_EVENT and MARKETPRO_REMOTE are
set in the environment. Updates that arrive while the command runs are
coalesced into one run.`,
	Args: cobra.ExactArgs(1),
	// Talks to NATS, not the site API.
	PersistentPreRunE: noClient,
	RunE: func(cmd *cobra.Command, args []string) error {
		timeout, _ := cmd.Flags().GetDuration("timeout")
		natsURL, _ := cmd.Flags().GetString("nats")
		if natsURL == "" {
			natsURL = os.Getenv("MARKETPRO_NATS_URL")
		}
		if natsURL == "" {
			natsURL = activeRemote().NATSURL
		}
		if natsURL == "" {
			return errors.New("no NATS URL: pass --nats, set MARKETPRO_NATS_URL or add one to the active remote")
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		sub, err := events.NewNATSSubscriber(natsURL)
		if err != nil {
			return fmt.Errorf("connecting to NATS: %w", err)
		}
		defer sub.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		h := hooks.NewHandler(args[0], timeout, logger)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return h.Run(gctx) })
		g.Go(func() error { return h.StartSubscriber(gctx, sub) })
		logger.Info("waiting for document updates", "nats_url", natsURL)
		return g.Wait()
	},
}

func init() {
	hookCmd.Flags().Duration("timeout", hooks.DefaultTimeout, "kill the command after this long")
	hookCmd.Flags().String("nats", "", "NATS URL (default MARKETPRO_NATS_URL or the active remote's)")
}
