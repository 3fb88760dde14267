// Package main is the entry point for the tfadopt CLI.
package main

import (
	"os"

	"tfadopt/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
