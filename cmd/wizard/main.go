// Package main provides the wizard command line interface for designing,
// validating and exporting workflows.
package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/workflowwiz/wizard/pkg/log"
	"github.com/workflowwiz/wizard/pkg/pipeline"
)

func main() {
	command := &cli.Command{
		Name:                  "wizard",
		Usage:                 "Turn natural language requests into automation workflows",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "create",
				Aliases:   []string{"c"},
				Usage:     "Design a workflow from a natural language request",
				ArgsUsage: "<request>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "target",
						Aliases: []string{"t"},
						Usage:   "Export target platform (n8n, zapier, code, json, yaml)",
						Value:   "",
					},
					&cli.StringFlag{
						Name:    "database-url",
						Usage:   "Database connection URL for persistence",
						Value:   "file://./data",
						Sources: cli.EnvVars("DATABASE_URL"),
					},
					&cli.IntFlag{
						Name:    "max-repairs",
						Usage:   "Maximum repair attempts before giving up",
						Value:   pipeline.DefaultMaxRepairs,
						Sources: cli.EnvVars("MAX_REPAIRS"),
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the export artifact to this file instead of stdout",
						Value:   "",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					log.Setup(cmd.String("log-level"))

					return runCreate(ctx, cmd)
				},
			},
			{
				Name:      "validate",
				Aliases:   []string{"v"},
				Usage:     "Validate a workflow document",
				ArgsUsage: "<workflow.json>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					log.Setup(cmd.String("log-level"))

					return runValidate(ctx, cmd)
				},
			},
			{
				Name:  "tools",
				Usage: "List the registered tool integrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					log.Setup(cmd.String("log-level"))

					return runTools(ctx, cmd)
				},
			},
			{
				Name:  "targets",
				Usage: "List the registered export targets",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					log.Setup(cmd.String("log-level"))

					return runTargets(ctx, cmd)
				},
			},
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		log.WithModule("cli").Error("Command failed", "error", err)
		os.Exit(1)
	}
}
