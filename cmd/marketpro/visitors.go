package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/marketpro/internal/ui"
)

var visitorsCmd = &cobra.Command{
	Use:     "visitors",
	Short:   "List recent site visitors",
	GroupID: "content",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		window, _ := cmd.Flags().GetDuration("window")

		entries, err := siteClient.Visitors(context.Background(), window)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(cmd.OutOrStdout(), entries)
			return nil
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No visitors.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "VISITOR\tLAST\tIDLE\tREQUESTS\tCHATS\tCONTACTED")
		for _, e := range entries {
			visitor := e.Visitor
			if e.Gone {
				visitor = ui.RenderMuted(visitor)
			}
			contacted := ""
			if e.Contacted {
				contacted = ui.RenderSuccess("yes")
			}
			idle := (time.Duration(e.IdleSecs) * time.Second).Round(time.Second)
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n", visitor, e.LastKind, idle, e.Requests, e.Chats, contacted)
		}
		return w.Flush()
	},
}

func init() {
	visitorsCmd.Flags().Duration("window", 30*time.Minute, "only show visitors seen within this window (0 for all)")
}
