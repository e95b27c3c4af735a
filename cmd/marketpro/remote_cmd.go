package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/marketpro/internal/ui"
)

var remoteCmd = &cobra.Command{
	Use:     "remote",
	Short:   "Manage the sites this CLI talks to",
	GroupID: "system",
	Long: `Remotes are named site URLs kept in ~/.local/state/marketpro/remotes.toml
together with the session token from 'marketpro login'. The active remote
is used whenever --url and MARKETPRO_URL are not set.`,
	PersistentPreRunE: noClient,
}

// editRemotes loads remotes.toml, applies fn and saves the result.
func editRemotes(fn func(b *remoteBook) error) error {
	b, err := loadRemotes()
	if err != nil {
		return err
	}
	if err := fn(b); err != nil {
		return err
	}
	return b.save()
}

var remoteAddCmd = &cobra.Command{
	Use:   "add <name> <url>",
	Short: "Add a remote, or update its URL",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		siteURL, err := parseSiteURL(args[1])
		if err != nil {
			return err
		}
		tok, _ := cmd.Flags().GetString("token")
		natsURL, _ := cmd.Flags().GetString("nats")
		use, _ := cmd.Flags().GetBool("use")

		err = editRemotes(func(b *remoteBook) error {
			r := b.Remotes[name]
			if r.URL != siteURL {
				// A token is only valid for the site that issued it.
				r.Token = ""
			}
			r.URL = siteURL
			if tok != "" {
				r.Token = tok
			}
			if natsURL != "" {
				r.NATSURL = natsURL
			}
			b.Remotes[name] = r
			if use || b.Active == "" {
				b.Active = name
			}
			return nil
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s remote %q → %s\n", ui.RenderSuccess("✓"), name, siteURL)
		return nil
	},
}

var remoteRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Forget a remote and its token",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := editRemotes(func(b *remoteBook) error {
			name, _, err := b.lookup(args[0])
			if err != nil {
				return err
			}
			delete(b.Remotes, name)
			if b.Active == name {
				b.Active = ""
			}
			return nil
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "remote %q removed\n", args[0])
		return nil
	},
}

var remoteUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Make a remote the default for other commands",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := editRemotes(func(b *remoteBook) error {
			name, _, err := b.lookup(args[0])
			if err != nil {
				return err
			}
			b.Active = name
			return nil
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "now using remote %q\n", args[0])
		return nil
	},
}

var remoteLogoutCmd = &cobra.Command{
	Use:   "logout [name]",
	Short: "Drop the stored session token (defaults to the active remote)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		want := ""
		if len(args) == 1 {
			want = args[0]
		}
		var name string
		err := editRemotes(func(b *remoteBook) error {
			var (
				r   Remote
				err error
			)
			name, r, err = b.lookup(want)
			if err != nil {
				return err
			}
			r.Token = ""
			b.Remotes[name] = r
			return nil
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "logged out of %q\n", name)
		return nil
	},
}

// remoteView is the JSON shape of one remote; tokens are never printed.
type remoteView struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	NATSURL  string `json:"nats_url,omitempty"`
	Active   bool   `json:"active"`
	LoggedIn bool   `json:"logged_in"`
}

var remoteListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List remotes; * marks the active one",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadRemotes()
		if err != nil {
			return err
		}
		views := make([]remoteView, 0, len(b.Remotes))
		for _, name := range b.names() {
			r := b.Remotes[name]
			views = append(views, remoteView{
				Name: name, URL: r.URL, NATSURL: r.NATSURL,
				Active: name == b.Active, LoggedIn: r.Token != "",
			})
		}
		if jsonOutput {
			printJSON(cmd.OutOrStdout(), views)
			return nil
		}
		if len(views) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no remotes configured")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  NAME\tURL\tSESSION")
		for _, v := range views {
			marker, session := "  ", "-"
			if v.Active {
				marker = "* "
			}
			if v.LoggedIn {
				session = maskToken(b.Remotes[v.Name].Token, 4)
			}
			fmt.Fprintf(w, "%s%s\t%s\t%s\n", marker, v.Name, v.URL, session)
		}
		return w.Flush()
	},
}

var remoteShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show one remote (defaults to the active one)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadRemotes()
		if err != nil {
			return err
		}
		want := ""
		if len(args) == 1 {
			want = args[0]
		}
		name, r, err := b.lookup(want)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		active := ""
		if name == b.Active {
			active = " (active)"
		}
		fmt.Fprintf(w, "name:\t%s%s\n", name, active)
		fmt.Fprintf(w, "url:\t%s\n", r.URL)
		if r.Token != "" {
			fmt.Fprintf(w, "token:\t%s\n", maskToken(r.Token, 8))
		} else {
			fmt.Fprintf(w, "token:\t(not logged in)\n")
		}
		if r.NATSURL != "" {
			fmt.Fprintf(w, "nats:\t%s\n", r.NATSURL)
		}
		return w.Flush()
	},
}

func init() {
	remoteAddCmd.Flags().String("token", "", "session token to store with the remote")
	remoteAddCmd.Flags().String("nats", "", "NATS URL for 'marketpro watch' and 'marketpro hook'")
	remoteAddCmd.Flags().Bool("use", false, "make this the active remote")

	remoteCmd.AddCommand(remoteAddCmd)
	remoteCmd.AddCommand(remoteRemoveCmd)
	remoteCmd.AddCommand(remoteUseCmd)
	remoteCmd.AddCommand(remoteListCmd)
	remoteCmd.AddCommand(remoteShowCmd)
	remoteCmd.AddCommand(remoteLogoutCmd)
}
