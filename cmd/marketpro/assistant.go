package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/marketpro/internal/assistant"
	"github.com/alfredjeanlab/marketpro/internal/ui"
)

var chatCmd = &cobra.Command{
	Use:     "chat [message]",
	Short:   "Ask the site assistant a marketing question",
	GroupID: "visitor",
	Long: `Ask the site assistant a question. With a message argument the reply is
printed and the command exits; without one, an interactive session reads
questions from stdin until EOF.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		out := cmd.OutOrStdout()

		if len(args) > 0 {
			reply, err := siteClient.Chat(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(out, reply)
			return nil
		}

		fmt.Fprintln(out, ui.RenderAccent(assistant.Greeting))
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for {
			fmt.Fprint(out, ui.RenderMuted("> "))
			if !scanner.Scan() {
				fmt.Fprintln(out)
				return scanner.Err()
			}
			msg := strings.TrimSpace(scanner.Text())
			if msg == "" {
				continue
			}
			reply, err := siteClient.Chat(ctx, msg)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), ui.RenderError(err.Error()))
				continue
			}
			fmt.Fprintln(out, reply)
		}
	},
}

var suggestCmd = &cobra.Command{
	Use:     "suggest [section]",
	Short:   "Generate alternative headlines for a section",
	GroupID: "content",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		section := "hero"
		if len(args) == 1 {
			section = args[0]
		}
		suggestions, err := siteClient.Suggest(context.Background(), section)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(cmd.OutOrStdout(), suggestions)
			return nil
		}
		for i, s := range suggestions {
			fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, s)
		}
		return nil
	},
}
