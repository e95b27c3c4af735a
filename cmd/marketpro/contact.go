package main

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/marketpro/internal/contact"
	"github.com/alfredjeanlab/marketpro/internal/ui"
)

var contactCmd = &cobra.Command{
	Use:     "contact",
	Short:   "Send a message through the site's contact form",
	GroupID: "visitor",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		message, _ := cmd.Flags().GetString("message")
		delay, _ := cmd.Flags().GetDuration("delay")

		form := contact.Form{Name: name, Email: email, Message: message}

		var (
			id      string
			sendErr error
		)
		sub := contact.NewSubmission(delay, 0)
		defer sub.Close()
		sub.OnSent = func(ctx context.Context, f contact.Form) {
			id, sendErr = siteClient.SubmitContact(ctx, f)
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderMuted("Sending..."))
		err := sub.Submit(context.Background(), form)

		var fields contact.FieldErrors
		if errors.As(err, &fields) || errors.As(sendErr, &fields) {
			printFieldErrors(cmd, fields)
			return errors.New("contact form is invalid")
		}
		if err != nil {
			return err
		}
		if sendErr != nil {
			return sendErr
		}

		if jsonOutput {
			printJSON(cmd.OutOrStdout(), map[string]string{"id": id, "status": sub.State().String()})
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Message sent! I'll get back to you soon. (%s)\n", ui.RenderSuccess("✓"), id)
		return nil
	},
}

func printFieldErrors(cmd *cobra.Command, fields contact.FieldErrors) {
	names := make([]string, 0, len(fields))
	for f := range fields {
		names = append(names, f)
	}
	sort.Strings(names)
	for _, f := range names {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: %s\n", ui.RenderError("✗"), f, fields[f])
	}
}

func init() {
	contactCmd.Flags().String("name", "", "your name")
	contactCmd.Flags().String("email", "", "your email address")
	contactCmd.Flags().String("message", "", "your message")
	contactCmd.Flags().Duration("delay", contact.DefaultDelay, "simulated delivery delay")
}
