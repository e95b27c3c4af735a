package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/marketpro/internal/client"
	"github.com/alfredjeanlab/marketpro/internal/editor"
	"github.com/alfredjeanlab/marketpro/internal/model"
	"github.com/alfredjeanlab/marketpro/internal/ui"
)

var editCmd = &cobra.Command{
	Use:     "edit",
	Short:   "Edit site content",
	GroupID: "content",
	Long: `Edit the site document. Each subcommand loads the current document (from
the server, else the local cache, else the built-in defaults), applies one
change and saves the whole document back. The local cache is updated only
after the server accepts the save; a change the server rejects is not kept.`,
}

// runEdit loads the document, applies fn and saves if anything changed.
func runEdit(cmd *cobra.Command, fn func(e *editor.Editor) error) error {
	ctx := context.Background()
	ed := loadEditor(ctx, cmd, "editing")

	if err := fn(ed); err != nil {
		return err
	}
	if !ed.Dirty() {
		fmt.Fprintln(cmd.OutOrStdout(), "No changes.")
		return nil
	}

	if err := ed.Save(ctx); err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w (run 'marketpro login' first; the change was not saved)", err)
		}
		return fmt.Errorf("%w (the change was not saved)", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s Saved.\n", ui.RenderSuccess("✓"))
	return nil
}

var editHeroCmd = &cobra.Command{
	Use:       "hero <field> <value>",
	Short:     "Set a hero field (" + strings.Join(editor.HeroFields, ", ") + ")",
	Args:      cobra.ExactArgs(2),
	ValidArgs: editor.HeroFields,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEdit(cmd, func(e *editor.Editor) error { return e.SetHero(args[0], args[1]) })
	},
}

var editAboutCmd = &cobra.Command{
	Use:       "about <field> <value>",
	Short:     "Set an about field (" + strings.Join(editor.AboutFields, ", ") + ")",
	Args:      cobra.ExactArgs(2),
	ValidArgs: editor.AboutFields,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEdit(cmd, func(e *editor.Editor) error { return e.SetAbout(args[0], args[1]) })
	},
}

var editSkillsCmd = &cobra.Command{
	Use:   "skills <skill>...",
	Short: "Replace the skill list",
	Long:  `Replace the skill list. Arguments may also be a single comma-separated list.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		skills := splitSkills(args)
		return runEdit(cmd, func(e *editor.Editor) error {
			e.SetSkills(skills)
			return nil
		})
	},
}

var editStatCmd = &cobra.Command{
	Use:   "stat <label> <value>",
	Short: "Set a stat value, adding the stat if needed",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEdit(cmd, func(e *editor.Editor) error {
			e.SetStat(args[0], args[1])
			return nil
		})
	},
}

var editImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the whole document from a JSON file (- for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		doc, err := decodeImport(data)
		if err != nil {
			return err
		}
		return runEdit(cmd, func(e *editor.Editor) error { return e.Replace(doc) })
	},
}

// decodeImport accepts a bare document or a backup snapshot wrapping one.
func decodeImport(data []byte) (*model.SiteDocument, error) {
	var snap struct {
		Type     string          `json:"type"`
		Document json.RawMessage `json:"document"`
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if snap.Type == "site-document" && len(snap.Document) > 0 {
		data = snap.Document
	}
	doc, err := model.Merge(data)
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

// listOps adapts the editor's per-list methods to one shape.
type listOps struct {
	add    func(e *editor.Editor) (string, error)
	update func(e *editor.Editor, id, field, value string) error
	remove func(e *editor.Editor, id string) error
}

var (
	serviceOps = listOps{
		add:    func(e *editor.Editor) (string, error) { return e.AddService(model.Service{}) },
		update: (*editor.Editor).UpdateService,
		remove: (*editor.Editor).RemoveService,
	}
	projectOps = listOps{
		add:    func(e *editor.Editor) (string, error) { return e.AddProject(model.Project{}) },
		update: (*editor.Editor).UpdateProject,
		remove: (*editor.Editor).RemoveProject,
	}
	testimonialOps = listOps{
		add:    func(e *editor.Editor) (string, error) { return e.AddTestimonial(model.Testimonial{}) },
		update: (*editor.Editor).UpdateTestimonial,
		remove: (*editor.Editor).RemoveTestimonial,
	}
)

// newListCmd builds the set/add/remove subcommands for one list section.
func newListCmd(kind string, fields []string, ops listOps) *cobra.Command {
	parent := &cobra.Command{
		Use:   kind,
		Short: "Edit " + kind + "s",
	}

	parent.AddCommand(&cobra.Command{
		Use:   "set <id> <field> <value>",
		Short: "Set a " + kind + " field (" + strings.Join(fields, ", ") + ")",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, func(e *editor.Editor) error { return ops.update(e, args[0], args[1], args[2]) })
		},
	})

	parent.AddCommand(&cobra.Command{
		Use:   "add <field>=<value>...",
		Short: "Add a " + kind,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs, err := parseAssignments(args)
			if err != nil {
				return err
			}
			var id string
			err = runEdit(cmd, func(e *editor.Editor) error {
				var err error
				if id, err = ops.add(e); err != nil {
					return err
				}
				for _, p := range pairs {
					if err := ops.update(e, id, p.field, p.value); err != nil {
						return err
					}
				}
				return nil
			})
			if err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", kind, ui.RenderAccent(id))
			}
			return err
		},
	})

	parent.AddCommand(&cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a " + kind,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, func(e *editor.Editor) error { return ops.remove(e, args[0]) })
		},
	})

	return parent
}

type assignment struct {
	field string
	value string
}

// parseAssignments splits field=value arguments, keeping their order.
func parseAssignments(args []string) ([]assignment, error) {
	out := make([]assignment, 0, len(args))
	for _, a := range args {
		field, value, ok := strings.Cut(a, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return nil, fmt.Errorf("expected field=value, got %q", a)
		}
		out = append(out, assignment{field: field, value: value})
	}
	return out, nil
}

func splitSkills(args []string) []string {
	var skills []string
	for _, a := range args {
		for _, s := range strings.Split(a, ",") {
			if s = strings.TrimSpace(s); s != "" {
				skills = append(skills, s)
			}
		}
	}
	return skills
}

func init() {
	editCmd.PersistentFlags().BoolP("verbose", "v", false, "log where the document was loaded from")

	editCmd.AddCommand(editHeroCmd)
	editCmd.AddCommand(editAboutCmd)
	editCmd.AddCommand(editSkillsCmd)
	editCmd.AddCommand(editStatCmd)
	editCmd.AddCommand(newListCmd("service", editor.ServiceFields, serviceOps))
	editCmd.AddCommand(newListCmd("project", editor.ProjectFields, projectOps))
	editCmd.AddCommand(newListCmd("testimonial", editor.TestimonialFields, testimonialOps))
	editCmd.AddCommand(editImportCmd)
}
