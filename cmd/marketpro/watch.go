package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"reflect"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/marketpro/internal/events"
	"github.com/alfredjeanlab/marketpro/internal/model"
	"github.com/alfredjeanlab/marketpro/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Watch the site document for changes",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		once, _ := cmd.Flags().GetBool("once")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		w := &docWatcher{out: cmd.OutOrStdout()}
		if err := w.refresh(ctx); err != nil {
			return err
		}
		if once {
			return nil
		}

		natsURL := os.Getenv("MARKETPRO_NATS_URL")
		if natsURL == "" {
			natsURL = activeRemote().NATSURL
		}
		if natsURL != "" {
			return watchNATS(ctx, natsURL, w)
		}
		return watchPoll(ctx, interval, w)
	},
}

// docWatcher remembers the last document seen and reports what changed.
type docWatcher struct {
	out  io.Writer
	last *model.SiteDocument
}

func (w *docWatcher) refresh(ctx context.Context) error {
	raw, err := siteClient.GetDocument(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	doc, err := model.Merge(raw)
	if err != nil {
		return fmt.Errorf("decode site document: %w", err)
	}
	w.report(doc, time.Now())
	return nil
}

func (w *docWatcher) report(doc *model.SiteDocument, at time.Time) {
	ts := ui.RenderMuted(at.Format("15:04:05"))
	if w.last == nil {
		fmt.Fprintf(w.out, "%s watching %s (%d services, %d projects, %d testimonials)\n",
			ts, siteClient.BaseURL(), len(doc.Services), len(doc.Projects), len(doc.Testimonials))
	} else {
		for _, s := range changedSections(w.last, doc) {
			fmt.Fprintf(w.out, "%s %s changed\n", ts, ui.RenderAccent(s))
		}
	}
	w.last = doc
}

// changedSections lists the top-level sections that differ between a and b.
func changedSections(a, b *model.SiteDocument) []string {
	var out []string
	if a.Hero != b.Hero {
		out = append(out, "hero")
	}
	if !reflect.DeepEqual(a.About, b.About) {
		out = append(out, "about")
	}
	if !reflect.DeepEqual(a.Services, b.Services) {
		out = append(out, "services")
	}
	if !reflect.DeepEqual(a.Projects, b.Projects) {
		out = append(out, "projects")
	}
	if !reflect.DeepEqual(a.Testimonials, b.Testimonials) {
		out = append(out, "testimonials")
	}
	return out
}

// watchNATS subscribes to site events and re-fetches on changes with debounce.
func watchNATS(ctx context.Context, natsURL string, w *docWatcher) error {
	// reconnectCh receives a signal when the NATS client reconnects after
	// a disconnect, so we can immediately re-fetch for missed events.
	reconnectCh := make(chan struct{}, 1)

	sub, err := events.NewNATSSubscriber(natsURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats: disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats: reconnected")
			select {
			case reconnectCh <- struct{}{}:
			default:
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe(events.TopicDocumentUpdated)
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	debounce := time.NewTimer(0)
	debounce.Stop()
	// Drain the timer channel in case it fired between NewTimer and Stop.
	select {
	case <-debounce.C:
	default:
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			debounce.Reset(200 * time.Millisecond)
		case <-reconnectCh:
			debounce.Reset(0)
		case <-debounce.C:
			if err := w.refresh(ctx); err != nil {
				return err
			}
		}
	}
}

// watchPoll re-fetches the document at the given interval.
func watchPoll(ctx context.Context, interval time.Duration, w *docWatcher) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
		if err := w.refresh(ctx); err != nil {
			return err
		}
	}
}

func init() {
	watchCmd.Flags().Duration("interval", 5*time.Second, "polling interval when NATS is not configured")
	watchCmd.Flags().Bool("once", false, "exit after the first fetch")
}
