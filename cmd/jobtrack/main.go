// Package main provides the jobtrack command-line entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/runnerr0/jobtrack/internal/cli"
)

var version = "dev"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// The parser already reports errors on stderr.
	if err := cli.Run(version); err != nil {
		os.Exit(1)
	}
}
