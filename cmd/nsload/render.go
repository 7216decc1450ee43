// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/nsload/nsload/internal/issue"
	"github.com/nsload/nsload/pkg/host"
	"github.com/nsload/nsload/pkg/loader"
	"github.com/nsload/nsload/pkg/namespace"
)

// issueStyle is the glamour style used for issue pages. "notty" keeps the
// output free of escape sequences when stderr is redirected.
var issueStyle = "notty"

// formatErrorForDisplay formats an error for user display. Actionable
// errors include their suggestions, and the cause chain in verbose mode.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// issueFor picks the catalogue page that explains err, if any.
func issueFor(err error) (issue.Id, bool) {
	var ae *issue.ActionableError
	switch {
	case errors.As(err, &ae) && ae.Issue != 0:
		return ae.Issue, true
	case errors.Is(err, loader.ErrLoadFailed):
		return issue.UnitLoadFailedId, true
	case errors.Is(err, host.ErrUndefined):
		return issue.UndefinedIdentifierId, true
	default:
		return 0, false
	}
}

// renderIssueFor writes the issue page explaining err to w.
func renderIssueFor(w io.Writer, err error) {
	id, ok := issueFor(err)
	if !ok {
		return
	}
	page := issue.Get(id)
	if page == nil {
		return
	}
	rendered, renderErr := page.Render(issueStyle)
	if renderErr != nil {
		return
	}
	fmt.Fprint(w, rendered)
}

func renderDiagnostics(w io.Writer, diags []namespace.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	fmt.Fprintln(w, TitleStyle.Render("Diagnostics"))
	for _, d := range diags {
		line := fmt.Sprintf("  %s %s: %s", WarningStyle.Render(string(d.Severity)), d.Code, d.Message)
		if d.Cause != nil {
			line += SubtitleStyle.Render(" (" + d.Cause.Error() + ")")
		}
		fmt.Fprintln(w, line)
	}
}
