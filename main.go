// SPDX-License-Identifier: MPL-2.0

// Command solpack repackages managed solution exports as rebranded
// unmanaged solutions.
package main

import cmd "github.com/solpack/solpack/cmd/solpack"

func main() {
	cmd.Execute()
}
