// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nsload/nsload/internal/config"
)

// newConfigCommand creates the `nsload config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect nsload configuration",
		Long: `Inspect nsload configuration.

nsload reads the first nsload.cue found in:
  - the file given with --config
  - the directory given with --config-dir
  - the working directory
  - the user config directory (e.g. ~/.config/nsload on Linux)

Any scalar setting can be overridden with an NSLOAD_ environment variable,
e.g. NSLOAD_SEPARATOR or NSLOAD_LOG_LEVEL.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show which configuration file is in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			if cfg.Source != "" {
				fmt.Fprintf(app.stdout, "%s: %s\n", IdentStyle.Render("Config file"), cfg.Source)
			} else {
				fmt.Fprintf(app.stdout, "%s: %s\n", IdentStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
			}
			fmt.Fprintf(app.stdout, "%s: %s\n", IdentStyle.Render("Base directory"), cfg.BaseDir)
			if dir, err := config.ConfigDir(); err == nil {
				fmt.Fprintf(app.stdout, "%s: %s\n", IdentStyle.Render("User config"), filepath.Join(dir, config.ConfigFileName))
			}
			return nil
		},
	})

	return cfgCmd
}
