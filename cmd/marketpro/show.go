package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/marketpro/internal/render"
)

var showCmd = &cobra.Command{
	Use:     "show",
	Short:   "Show the published site content",
	GroupID: "content",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc := loadDocument(context.Background(), cmd)
		if jsonOutput {
			printJSON(cmd.OutOrStdout(), doc)
			return nil
		}
		return render.Text(cmd.OutOrStdout(), doc)
	},
}
