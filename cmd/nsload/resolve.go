// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nsload/nsload/internal/app/session"
	"github.com/nsload/nsload/pkg/types"
)

func newResolveCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <identifier>...",
		Short: "Resolve identifiers and load their units",
		Long: `Resolve each identifier through the namespace bindings and load the unit
file it maps to. Exits with status 3 when an identifier is unbound or its
file does not exist, and 4 when a file fails to load.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withSession(cmd.Context(), func(s *session.Session) error {
				return resolveIdentifiers(cmd.Context(), app.stdout, s, args)
			})
		},
	}
}

func resolveIdentifiers(ctx context.Context, w io.Writer, s *session.Session, ids []string) error {
	var unresolved int
	for _, id := range ids {
		id = strings.TrimSpace(id)
		res, err := s.Resolve(ctx, id)
		if err != nil {
			return &ExitError{Code: exitCodeFor(err), Err: err}
		}

		switch {
		case !res.Bound:
			unresolved++
			fmt.Fprintf(w, "%s %s\n", IdentStyle.Render(id), WarningStyle.Render("unbound"))
		case !res.Found:
			unresolved++
			path := res.Path
			if path == "" {
				path = "(no root file)"
			}
			fmt.Fprintf(w, "%s %s %s\n", IdentStyle.Render(id), path, WarningStyle.Render("not found"))
		case res.Loaded:
			fmt.Fprintf(w, "%s %s %s\n", IdentStyle.Render(id), res.Path, SuccessStyle.Render("loaded"))
		default:
			fmt.Fprintf(w, "%s %s %s\n", IdentStyle.Render(id), res.Path, SubtitleStyle.Render("already loaded"))
		}
	}

	if unresolved > 0 {
		return &ExitError{
			Code: types.ExitUnresolved,
			Err:  fmt.Errorf("%d of %d identifiers unresolved", unresolved, len(ids)),
		}
	}
	return nil
}
