// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nsload/nsload/internal/app/session"
	"github.com/nsload/nsload/pkg/types"
)

const (
	outputText = "text"
	outputYAML = "yaml"
)

type (
	bindingsView struct {
		Policy    string        `yaml:"policy"`
		Separator string        `yaml:"separator"`
		Delimiter string        `yaml:"delimiter"`
		Bindings  []bindingView `yaml:"bindings"`
		Members   []memberView  `yaml:"members,omitempty"`
	}

	bindingView struct {
		ID        string `yaml:"id"`
		Prefix    string `yaml:"prefix"`
		Directory string `yaml:"directory"`
		RootFile  string `yaml:"root_file,omitempty"`
	}

	memberView struct {
		Name               string `yaml:"name"`
		ID                 string `yaml:"id"`
		ComponentDirectory string `yaml:"component_directory"`
	}
)

func newBindingsCommand(app *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "bindings",
		Short: "List active namespace bindings and members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != outputText && output != outputYAML {
				return &ExitError{Code: types.ExitUsage, Err: fmt.Errorf("unsupported output format %q (want text or yaml)", output)}
			}
			return app.withSession(cmd.Context(), func(s *session.Session) error {
				view := newBindingsView(s)
				if output == outputYAML {
					return encodeYAML(app.stdout, view)
				}
				writeBindingsText(app.stdout, view)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format (text, yaml)")
	return cmd
}

func newBindingsView(s *session.Session) bindingsView {
	reg := s.Registry
	view := bindingsView{
		Policy:    reg.Policy().String(),
		Separator: reg.Separator(),
		Delimiter: reg.Builder().Delimiter().String(),
		Bindings:  []bindingView{},
	}
	for _, b := range reg.Bindings() {
		view.Bindings = append(view.Bindings, bindingView{
			ID:        b.ID.String(),
			Prefix:    b.Prefix,
			Directory: b.Directory,
			RootFile:  b.RootFile,
		})
	}
	for _, name := range s.Members.Names() {
		m, _ := s.Members.Get(name)
		view.Members = append(view.Members, memberView{
			Name:               m.Name(),
			ID:                 m.ID(),
			ComponentDirectory: m.ComponentDirectory(),
		})
	}
	return view
}

func writeBindingsText(w io.Writer, view bindingsView) {
	fmt.Fprintln(w, TitleStyle.Render("Bindings"))
	if len(view.Bindings) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none active)"))
	}
	for _, b := range view.Bindings {
		fmt.Fprintf(w, "  %s -> %s", IdentStyle.Render(b.Prefix), b.Directory)
		if b.RootFile != "" {
			fmt.Fprintf(w, " %s", SubtitleStyle.Render("(root: "+b.RootFile+")"))
		}
		fmt.Fprintln(w)
	}

	if len(view.Members) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, TitleStyle.Render("Members"))
		for _, m := range view.Members {
			fmt.Fprintf(w, "  %s [%s] -> %s\n", IdentStyle.Render(m.Name), m.ID, m.ComponentDirectory)
		}
	}
}
