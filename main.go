// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/flatpaker/flatpaker/cmd/flatpaker"

func main() {
	cmd.Execute()
}
