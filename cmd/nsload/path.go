// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nsload/nsload/internal/app/session"
	"github.com/nsload/nsload/pkg/types"
)

func newPathCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "path <identifier>...",
		Short: "Print the file each identifier maps to, without loading it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withSession(cmd.Context(), func(s *session.Session) error {
				var unbound int
				for _, id := range args {
					id = strings.TrimSpace(id)
					path, b, ok := s.Registry.Candidate(id)
					switch {
					case b.Prefix == "":
						unbound++
						fmt.Fprintf(app.stdout, "%s %s\n", IdentStyle.Render(id), WarningStyle.Render("unbound"))
					case !ok:
						fmt.Fprintf(app.stdout, "%s %s\n", IdentStyle.Render(id), SubtitleStyle.Render("(no root file)"))
					default:
						fmt.Fprintf(app.stdout, "%s %s\n", IdentStyle.Render(id), path)
					}
				}
				if unbound > 0 {
					return &ExitError{
						Code: types.ExitUnresolved,
						Err:  fmt.Errorf("%d of %d identifiers unbound", unbound, len(args)),
					}
				}
				return nil
			})
		},
	}
}
