// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/kura-dev/kura/cmd/kura"

func main() {
	cmd.Execute()
}
