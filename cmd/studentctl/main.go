// Package main provides the studentctl CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/studentctl/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
