// Command todo is a keyboard-driven task list for the terminal.
package main

import (
	"fmt"
	"os"

	"todo/internal/cli"
)

// Set by the release build.
var version = "dev"

func main() {
	cli.Version = version
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
