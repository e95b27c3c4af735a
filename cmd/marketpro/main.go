package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/marketpro/internal/client"
	"github.com/alfredjeanlab/marketpro/internal/ui"
)

var (
	siteURL    string
	token      string
	jsonOutput bool

	siteClient *client.HTTPClient
)

func defaultSiteURL() string {
	if s := os.Getenv("MARKETPRO_URL"); s != "" {
		return s
	}
	if u := activeRemote().URL; u != "" {
		return u
	}
	return "http://localhost:3000"
}

func defaultToken() string {
	if s := os.Getenv("MARKETPRO_TOKEN"); s != "" {
		return s
	}
	return activeRemote().Token
}

var rootCmd = &cobra.Command{
	Use:           "marketpro <command>",
	Short:         "Serve and edit the marketing portfolio site",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		siteClient = client.NewHTTPClient(siteURL, token)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if siteClient != nil {
			siteClient.Close()
		}
	},
}

// noClient skips creating the HTTP client for commands that work locally.
func noClient(cmd *cobra.Command, args []string) error { return nil }

func init() {
	rootCmd.PersistentFlags().StringVar(&siteURL, "url", defaultSiteURL(), "site base URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", defaultToken(), "session token for writes")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddGroup(
		&cobra.Group{ID: "content", Title: "Content:"},
		&cobra.Group{ID: "visitor", Title: "Visitor:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Content
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(visitorsCmd)

	// Visitor
	rootCmd.AddCommand(testimonialsCmd)
	rootCmd.AddCommand(contactCmd)
	rootCmd.AddCommand(chatCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if !ui.ShouldUseColor() {
		ui.ForceNoColor()
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
