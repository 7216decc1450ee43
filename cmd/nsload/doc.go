// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the nsload command line interface.
//
// Every command builds its resolver through session.New from the loaded
// configuration, so the CLI exercises exactly the wiring a library user
// gets. Commands never call os.Exit; non-zero exits travel as *ExitError.
package cmd
