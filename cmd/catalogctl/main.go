// Copyright (c) 2026 Springfield. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command catalogctl runs maintenance tasks against the Springfield store:
// schema migrations and loading the starter dataset.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/taibuivan/springfield/internal/platform/logging"
)

func main() {
	console := logging.NewConsole(os.Getenv("DEBUG") == "true")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := &Runner{console: console}

	command := &cli.Command{
		Name:  "catalogctl",
		Usage: "Maintain the Springfield catalog store",
		Commands: []*cli.Command{
			{
				Name:   "seed",
				Usage:  "Load the embedded dataset into an empty PostgreSQL catalog",
				Action: runner.Seed,
			},
			{
				Name:  "migrate",
				Usage: "Apply or roll back schema migrations",
				Commands: []*cli.Command{
					{
						Name:   "up",
						Usage:  "Apply every pending migration",
						Action: runner.MigrateUp,
					},
					{
						Name:  "down",
						Usage: "Roll back the latest migrations",
						Flags: []cli.Flag{
							&cli.IntFlag{
								Name:  "steps",
								Usage: "Number of migrations to roll back",
								Value: 1,
							},
						},
						Action: runner.MigrateDown,
					},
				},
			},
		},
	}

	if err := command.Run(ctx, os.Args); err != nil {
		stop()
		console.Fatal("command failed", "error", err)
	}
}
