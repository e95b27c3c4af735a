package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/marketpro/internal/client"
	"github.com/alfredjeanlab/marketpro/internal/ui"
)

var loginCmd = &cobra.Command{
	Use:     "login",
	Short:   "Sign in as the site admin and remember the session token",
	GroupID: "content",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			p, err := ui.ReadPassword(cmd.ErrOrStderr(), os.Stdin, "Password: ")
			if err != nil {
				return err
			}
			password = p
		}

		tok, err := siteClient.Login(context.Background(), username, password)
		if errors.Is(err, client.ErrInvalidCredentials) {
			return errors.New("invalid credentials")
		}
		if err != nil {
			return err
		}

		name, err := storeToken(siteClient.BaseURL(), tok)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s could not save token: %v\n", ui.RenderError("warning:"), err)
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in. Pass --token %s on later commands.\n", tok)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Logged in to %s (remote %q)\n", ui.RenderSuccess("✓"), siteClient.BaseURL(), name)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringP("username", "u", "admin", "admin username")
	loginCmd.Flags().StringP("password", "p", "", "admin password (prompted when omitted)")
}
