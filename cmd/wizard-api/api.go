// Package main provides the Wizard API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/workflowwiz/wizard/pkg/export"
	"github.com/workflowwiz/wizard/pkg/persistence"
	"github.com/workflowwiz/wizard/pkg/pipeline"
	"github.com/workflowwiz/wizard/pkg/tools"
	"github.com/workflowwiz/wizard/pkg/validation"
	"github.com/workflowwiz/wizard/pkg/web"
)

type API struct {
	logger      *slog.Logger
	pipeline    *pipeline.Pipeline
	wfValidator *validation.Validator
	tools       *tools.Registry
	exporter    *export.Registry
	persistence persistence.Persistence
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	designPipeline *pipeline.Pipeline,
	wfValidator *validation.Validator,
	toolRegistry *tools.Registry,
	exporter *export.Registry,
	store persistence.Persistence,
) *API {
	return &API{
		logger:      logger,
		pipeline:    designPipeline,
		wfValidator: wfValidator,
		tools:       toolRegistry,
		exporter:    exporter,
		persistence: store,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(
		a.pipeline,
		a.wfValidator,
		a.tools,
		a.exporter,
		a.persistence,
		a.validate,
	)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Wizard API")
	})

	w := app.Group("/workflows")
	w.Get("/", handlers.GetWorkflows)
	w.Post("/", handlers.DesignWorkflow)
	w.Post("/validate", handlers.ValidateWorkflow)
	w.Get("/:id", handlers.GetWorkflow)
	w.Get("/:id/artifacts", handlers.GetWorkflowArtifacts)

	app.Get("/tools", handlers.GetTools)
	app.Get("/targets", handlers.GetTargets)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
