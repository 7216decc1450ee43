// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the nsload command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nsload",
		Short: "Lazy namespace-scoped unit resolver",
		Long: TitleStyle.Render("nsload") + SubtitleStyle.Render(" - lazy namespace-scoped unit resolver") + `

nsload maps qualified identifiers such as Acme.Http.Router to source files
under directories bound to namespace prefixes, and loads each file at most
once, the first time one of its identifiers is asked for.

Namespaces and members are declared in nsload.cue; source units may be
written in CUE, TOML or HCL.

` + SubtitleStyle.Render("Examples:") + `
  nsload bindings                  List active namespace bindings
  nsload path Acme.Http.Router     Show the file an identifier maps to
  nsload describe Acme.Http.Router Load a unit and print its definitions
  nsload include Acme.Blog Title   Load components of a member
  nsload id Acme.HttpServer        Print the derived identifier`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&app.flags.configFile, "config", "", "config file (default is ./nsload.cue, then the user config dir)")
	flags.StringVar(&app.flags.configDir, "config-dir", "", "directory searched for nsload.cue")
	flags.StringVar(&app.flags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	flags.BoolVarP(&app.flags.verbose, "verbose", "v", false, "print diagnostics and detailed errors")

	rootCmd.AddCommand(
		newResolveCommand(app),
		newDescribeCommand(app),
		newIncludeCommand(app),
		newBindingsCommand(app),
		newIDCommand(app),
		newPathCommand(app),
		newConfigCommand(app),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the code carried by the returned error.
func Execute() {
	app := NewApp(Dependencies{})
	rootCmd := NewRootCommand(app)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		if app.flags.verbose {
			renderIssueFor(app.stderr, err)
		}
		os.Exit(int(exitCodeFor(err)))
	}
}
