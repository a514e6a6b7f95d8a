package main

import (
	"os"

	"github.com/ewilliams-labs/soundscope/internal/cli"
	"github.com/ewilliams-labs/soundscope/internal/config"
)

func main() {
	// 1. Configuration (environment variables, then an optional .env file)
	cfg := config.Load()

	// 2. Commands wire the adapters into the explorer themselves
	if err := cli.NewRootCommand(cfg).Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
