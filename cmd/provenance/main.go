package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

var (
	// Version information (set via ldflags during build)
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "provenance",
		Usage: "Supply-chain provenance from ERC-20 Transfer logs",
		Description: `Reconstructs the journey of a product token from its Transfer logs
and summarises transfer activity across tokens. All reads are done over
JSON-RPC; nothing is written on chain.`,
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		Commands: []*cli.Command{
			journeyCommand(),
			summaryCommand(),
			blockTimeCommand(),
			headCommand(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				EnvVars: []string{"FF_PROVENANCE_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "env",
				Usage: "Path to environment files",
				Value: "config/",
			},
			&cli.StringFlag{
				Name:  "jq",
				Usage: "jq filter applied to the JSON output (e.g. '.stages[].stage')",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
	}
}
