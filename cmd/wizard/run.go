package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	cli "github.com/urfave/cli/v3"

	"github.com/workflowwiz/wizard/pkg/cmd"
	"github.com/workflowwiz/wizard/pkg/intent"
	"github.com/workflowwiz/wizard/pkg/log"
	"github.com/workflowwiz/wizard/pkg/models"
	"github.com/workflowwiz/wizard/pkg/pipeline"
	"github.com/workflowwiz/wizard/pkg/planner"
	"github.com/workflowwiz/wizard/pkg/validation"
)

func runCreate(ctx context.Context, command *cli.Command) error {
	request := strings.TrimSpace(strings.Join(command.Args().Slice(), " "))
	if request == "" {
		return errors.New("a natural language request is required")
	}

	logger := log.WithModule("cli")

	toolRegistry := cmd.NewToolRegistry(logger)
	rendererRegistry := cmd.NewRendererRegistry(logger)
	collab := cmd.NewCollaborator()
	store := cmd.NewPersistence(command.String("database-url"))

	defer func() {
		if err := store.Close(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
		}
	}()

	designPipeline := pipeline.New(pipeline.Config{
		Intent:      intent.NewStage(collab, logger),
		Planner:     planner.NewStage(collab, toolRegistry, logger),
		Validator:   validation.New(toolRegistry, logger),
		Exporter:    rendererRegistry,
		Persistence: store,
		Logger:      logger,
		MaxRepairs:  command.Int("max-repairs"),
	})

	result, err := designPipeline.Run(ctx, request, command.String("target"))
	if err != nil {
		return err
	}

	if result.Artifact != nil {
		if output := command.String("output"); output != "" {
			if err := os.WriteFile(output, result.Artifact.Payload, 0o644); err != nil {
				return fmt.Errorf("failed to write artifact: %w", err)
			}

			fmt.Fprintf(os.Stderr, "Workflow %s exported to %s (%s)\n",
				result.Workflow.ID, output, result.Artifact.Target)

			return nil
		}

		_, err := os.Stdout.Write(result.Artifact.Payload)

		return err
	}

	return printJSON(result.Workflow)
}

func runValidate(ctx context.Context, command *cli.Command) error {
	path := command.Args().First()
	if path == "" {
		return errors.New("a workflow document path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read workflow document: %w", err)
	}

	var workflow models.Workflow
	if err := json.Unmarshal(data, &workflow); err != nil {
		return fmt.Errorf("failed to decode workflow document: %w", err)
	}

	logger := log.WithModule("cli")
	validator := validation.New(cmd.NewToolRegistry(logger), logger)

	result := validator.Validate(&workflow)
	if err := printJSON(result); err != nil {
		return err
	}

	if !result.Accepted {
		return fmt.Errorf("workflow rejected with %d violations", len(result.Violations))
	}

	return nil
}

func runTools(_ context.Context, _ *cli.Command) error {
	registry := cmd.NewToolRegistry(log.WithModule("cli"))

	return printJSON(registry.All())
}

func runTargets(_ context.Context, _ *cli.Command) error {
	registry := cmd.NewRendererRegistry(log.WithModule("cli"))

	return printJSON(registry.Targets())
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}
