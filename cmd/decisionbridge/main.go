// Package main is the entry point for decisionbridge, a JSON API that
// bridges FEEL-typed decision engines onto a plain JSON transport.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/openfeel/decisionbridge/bootstrap"
	"github.com/openfeel/decisionbridge/config"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "decisionbridge.yaml", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	validate := flag.Bool("validate", false, "Validate configuration and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("decisionbridge %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	if *validate {
		cfg, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Configuration invalid: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Configuration valid\n")
		fmt.Printf("  Listen: %s:%d\n", cfg.Server.Host, cfg.Server.Port)
		fmt.Printf("  Services: %d\n", len(cfg.Services))
		fmt.Printf("  Audit: %v\n", cfg.Audit.Enabled)
		os.Exit(0)
	}

	app, err := bootstrap.New(*configPath, version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	if err := app.Run(); err != nil {
		app.Logger.Error().Err(err).Msg("application error")
		os.Exit(1)
	}
}
