// Package main provides the leapsched command-line tool.
package main

import (
	"os"

	"github.com/leapstack-labs/leapsched/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
