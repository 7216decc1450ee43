// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nsload/nsload/pkg/identity"
)

func newIDCommand(app *App) *cobra.Command {
	var (
		separator string
		short     bool
	)

	cmd := &cobra.Command{
		Use:   "id <qualified-name>...",
		Short: "Print the identifier derived from each qualified name",
		Long: `Print the lowercase, hyphenated identifier derived from each qualified name,
e.g. Acme.HttpServer becomes acme.http-server. The separator defaults to the
configured one.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("separator") {
				cfg, err := app.loadConfig(cmd.Context())
				if err != nil {
					return err
				}
				separator = cfg.Separator
			}
			for _, name := range args {
				if short {
					fmt.Fprintln(app.stdout, identity.ShortName(name, separator))
					continue
				}
				fmt.Fprintln(app.stdout, identity.DeriveIDWith(name, separator))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&separator, "separator", "", "namespace separator (default from config)")
	cmd.Flags().BoolVar(&short, "short", false, "print the last segment of the name instead")
	return cmd
}
