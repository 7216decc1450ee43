// SPDX-License-Identifier: MPL-2.0

// Command nsload inspects and exercises lazy namespace bindings.
package main

import cmd "github.com/nsload/nsload/cmd/nsload"

func main() {
	cmd.Execute()
}
