// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nsload/nsload/internal/app/session"
	"github.com/nsload/nsload/pkg/types"
)

func newIncludeCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "include <member> <component>...",
		Short: "Load components from a member's component directory",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withSession(cmd.Context(), func(s *session.Session) error {
				name := strings.TrimSpace(args[0])
				if err := s.Include(cmd.Context(), name, args[1:]...); err != nil {
					code := exitCodeFor(err)
					if code == types.ExitFailure {
						code = types.ExitUsage
					}
					return &ExitError{Code: code, Err: err}
				}

				m, _ := s.Members.Get(name)
				for _, c := range args[1:] {
					c = strings.TrimSpace(c)
					if c == "" {
						continue
					}
					path := m.ComponentPath(c)
					status := WarningStyle.Render("not found")
					if s.Loader.Loaded(path) {
						status = SuccessStyle.Render("loaded")
					}
					fmt.Fprintf(app.stdout, "%s %s %s\n", IdentStyle.Render(name+s.Registry.Separator()+c), path, status)
				}
				return nil
			})
		},
	}
}
