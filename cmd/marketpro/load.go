package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/marketpro/internal/cache"
	"github.com/alfredjeanlab/marketpro/internal/editor"
	"github.com/alfredjeanlab/marketpro/internal/model"
	"github.com/alfredjeanlab/marketpro/internal/ui"
)

// openEditor returns an editor over the site client and the local cache,
// logging to stderr at debug level when --verbose is set.
func openEditor(cmd *cobra.Command) *editor.Editor {
	level := slog.LevelWarn
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var remote editor.Remote
	if siteClient != nil {
		remote = siteClient
	}
	var c editor.Cache
	if lc, err := cache.New(""); err != nil {
		logger.Warn("local cache unavailable", "err", err)
	} else {
		c = lc
	}
	return editor.New(remote, c, logger)
}

// loadEditor opens an editor and loads the document, noting on stderr when
// the server could not be reached.
func loadEditor(ctx context.Context, cmd *cobra.Command, doing string) *editor.Editor {
	ed := openEditor(cmd)
	if src := ed.Load(ctx); src != editor.SourceRemote {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s server unreachable, %s the %s copy\n", ui.RenderMuted("note:"), doing, src)
	}
	return ed
}

// loadDocument returns the site document for display. It never fails: an
// unreachable server falls back to the local cache, then the defaults.
func loadDocument(ctx context.Context, cmd *cobra.Command) *model.SiteDocument {
	return loadEditor(ctx, cmd, "showing").Document()
}
