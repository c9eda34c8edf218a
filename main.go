// SPDX-License-Identifier: MPL-2.0

// modsmith is a consistency-keeping mod installation manager.
package main

import cmd "modsmith-cli/cmd/modsmith"

func main() {
	cmd.Execute()
}
