// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nsload/nsload/internal/app/session"
	"github.com/nsload/nsload/pkg/unit"
)

type (
	unitView struct {
		Name        string           `yaml:"name"`
		Path        string           `yaml:"path"`
		Definitions []definitionView `yaml:"definitions"`
	}

	definitionView struct {
		Name  string `yaml:"name"`
		Value any    `yaml:"value"`
	}
)

func newDescribeCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <identifier>",
		Short: "Look up an identifier and print its unit as YAML",
		Long: `Ask the host for an identifier the way a program would: a defined unit is
returned directly, otherwise the first namespace binding that claims the
identifier loads it lazily.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withSession(cmd.Context(), func(s *session.Session) error {
				u, err := s.Lookup(cmd.Context(), args[0])
				if err != nil {
					return &ExitError{Code: exitCodeFor(err), Err: err}
				}
				return writeUnit(app.stdout, u)
			})
		},
	}
}

func writeUnit(w io.Writer, u *unit.Unit) error {
	view := unitView{
		Name:        u.Name,
		Path:        u.Path,
		Definitions: make([]definitionView, len(u.Definitions)),
	}
	for i, d := range u.Definitions {
		view.Definitions[i] = definitionView{Name: d.Name, Value: d.Value}
	}
	return encodeYAML(w, view)
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
