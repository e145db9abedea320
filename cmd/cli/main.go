// Package main is the entry point for the repairdesk CLI.
package main

import (
	"os"

	"repairdesk/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
