package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/workflowwiz/wizard/pkg/cmd"
	"github.com/workflowwiz/wizard/pkg/intent"
	"github.com/workflowwiz/wizard/pkg/log"
	"github.com/workflowwiz/wizard/pkg/otelhelper"
	"github.com/workflowwiz/wizard/pkg/pipeline"
	"github.com/workflowwiz/wizard/pkg/planner"
	"github.com/workflowwiz/wizard/pkg/validation"
)

const defaultPort = 9091

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "wizard-api",
		Usage:                 "Design workflows from natural language requests",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (gochannel, kafka)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS"),
			},
			&cli.IntFlag{
				Name:    "max-repairs",
				Usage:   "Maximum repair attempts before a request is declared unresolvable",
				Value:   pipeline.DefaultMaxRepairs,
				Sources: cli.EnvVars("MAX_REPAIRS"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Enable OpenTelemetry tracing",
				Sources: cli.EnvVars("TRACING_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing Wizard API")

			toolRegistry := cmd.NewToolRegistry(logger)
			rendererRegistry := cmd.NewRendererRegistry(logger)
			collab := cmd.NewCollaborator()

			store := cmd.NewPersistence(command.String("database-url"))

			defer func() {
				if err := store.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus := cmd.NewEventBus(command.String("event-bus"), logger)
			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			cfg := pipeline.Config{
				Intent:      intent.NewStage(collab, logger),
				Planner:     planner.NewStage(collab, toolRegistry, logger),
				Validator:   validation.New(toolRegistry, logger),
				Exporter:    rendererRegistry,
				Persistence: store,
				EventBus:    eventBus,
				Logger:      logger,
				MaxRepairs:  command.Int("max-repairs"),
			}

			if command.Bool("tracing") {
				tracer, err := otelhelper.NewTracer(ctx, "wizard-api")
				if err != nil {
					return err
				}

				cfg.Tracer = tracer
			}

			api := NewAPI(
				logger,
				pipeline.New(cfg),
				cfg.Validator,
				toolRegistry,
				rendererRegistry,
				store,
			)

			err := api.Start(command.Int("port"))
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return nil
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
