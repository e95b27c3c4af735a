package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/marketpro/internal/carousel"
	"github.com/alfredjeanlab/marketpro/internal/model"
	"github.com/alfredjeanlab/marketpro/internal/render"
	"github.com/alfredjeanlab/marketpro/internal/ui"
)

var testimonialsCmd = &cobra.Command{
	Use:     "testimonials",
	Short:   "Cycle through client testimonials",
	GroupID: "visitor",
	Long: `Show client testimonials one at a time, advancing automatically.

While running, type n (next), p (previous), a number to jump, or q to quit,
each followed by Enter.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		once, _ := cmd.Flags().GetBool("once")
		start, _ := cmd.Flags().GetInt("start")

		items := loadDocument(context.Background(), cmd).Testimonials
		if len(items) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderMuted("No testimonials yet."))
			return nil
		}

		c := carousel.New(len(items))
		if start > 1 {
			if err := c.JumpTo(start - 1); err != nil {
				return err
			}
		}

		v := &testimonialView{w: cmd.OutOrStdout(), items: items}
		v.show(c.Index())
		if once {
			return nil
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		go func() {
			navigate(ctx, cmd.InOrStdin(), c, v)
			cancel()
		}()

		err := c.Run(ctx, interval, func(index int, _ carousel.Direction) { v.show(index) })
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

// testimonialView serializes output from the timer and the keyboard.
type testimonialView struct {
	mu    sync.Mutex
	w     io.Writer
	items []model.Testimonial
}

func (v *testimonialView) show(index int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintln(v.w)
	render.Testimonial(v.w, v.items[index], index, len(v.items))
	fmt.Fprintf(v.w, "        %s\n", ui.Dots(index, len(v.items)))
}

// navigate applies keyboard commands to c until q, EOF or ctx ends.
func navigate(ctx context.Context, in io.Reader, c *carousel.Carousel, v *testimonialView) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		cmd := strings.TrimSpace(scanner.Text())
		switch cmd {
		case "":
			continue
		case "q", "quit":
			return
		case "n", "next":
			v.show(c.Next())
		case "p", "prev":
			v.show(c.Prev())
		default:
			n, err := strconv.Atoi(cmd)
			if err != nil {
				fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
				continue
			}
			if err := c.JumpTo(n - 1); err != nil {
				fmt.Fprintln(os.Stderr, ui.RenderError(err.Error()))
				continue
			}
			v.show(c.Index())
		}
	}
	// Stdin closed: keep cycling until interrupted.
	if scanner.Err() == nil {
		<-ctx.Done()
	}
}

func init() {
	testimonialsCmd.Flags().Duration("interval", 5*time.Second, "time between testimonials")
	testimonialsCmd.Flags().Bool("once", false, "print the current testimonial and exit")
	testimonialsCmd.Flags().Int("start", 1, "testimonial to start at (1-based)")
}
