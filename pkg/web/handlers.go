// Package web provides HTTP handlers and REST API endpoints for workflow
// design.
package web

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/workflowwiz/wizard/pkg/export"
	"github.com/workflowwiz/wizard/pkg/persistence"
	"github.com/workflowwiz/wizard/pkg/pipeline"
	"github.com/workflowwiz/wizard/pkg/tools"
	"github.com/workflowwiz/wizard/pkg/validation"
)

type APIHandlers struct {
	pipeline    *pipeline.Pipeline
	wfValidator *validation.Validator
	tools       *tools.Registry
	exporter    *export.Registry
	persistence persistence.Persistence
	validator   *validator.Validate
}

func NewAPIHandlers(
	designPipeline *pipeline.Pipeline,
	wfValidator *validation.Validator,
	toolRegistry *tools.Registry,
	exporter *export.Registry,
	store persistence.Persistence,
	validate *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		pipeline:    designPipeline,
		wfValidator: wfValidator,
		tools:       toolRegistry,
		exporter:    exporter,
		persistence: store,
		validator:   validate,
	}
}

// DesignWorkflow runs the full pipeline for a natural language request.
func (h *APIHandlers) DesignWorkflow(c fiber.Ctx) error {
	var req DesignWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.pipeline.Run(c.Context(), req.Request, req.Target)
	if err != nil {
		return handlePipelineError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(DesignWorkflowResponse{
		Workflow: result.Workflow,
		Intent:   result.Intent,
		Attempts: result.Attempts,
		Artifact: result.Artifact,
	})
}

// ValidateWorkflow checks a workflow document and returns the verdict
// without repairing or persisting anything.
func (h *APIHandlers) ValidateWorkflow(c fiber.Ctx) error {
	var req ValidateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if req.Workflow == nil {
		return badRequest(c, "Workflow document is required")
	}

	for _, node := range req.Workflow.Nodes {
		if node == nil {
			return badRequest(c, "Workflow nodes must not contain null entries")
		}
	}

	for _, edge := range req.Workflow.Edges {
		if edge == nil {
			return badRequest(c, "Workflow edges must not contain null entries")
		}
	}

	return c.JSON(h.wfValidator.Validate(req.Workflow))
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	workflows, err := h.persistence.Workflows(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"workflows":   workflows,
		"total_count": len(workflows),
	})
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	workflow, err := h.persistence.WorkflowByID(c.Context(), id)
	if err != nil {
		if persistence.IsWorkflowNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		return internalError(c, err)
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) GetWorkflowArtifacts(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	if _, err := h.persistence.WorkflowByID(c.Context(), id); err != nil {
		if persistence.IsWorkflowNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		return internalError(c, err)
	}

	artifacts, err := h.persistence.ArtifactsByWorkflow(c.Context(), id)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"artifacts": artifacts})
}

// GetTools returns the tool catalog the planner binds against.
func (h *APIHandlers) GetTools(c fiber.Ctx) error {
	descriptors := h.tools.All()

	catalog := make([]ToolResponse, 0, len(descriptors))
	for _, descriptor := range descriptors {
		catalog = append(catalog, TransformToolResponse(descriptor))
	}

	return c.JSON(fiber.Map{"tools": catalog})
}

// GetTargets returns the registered export platform identifiers.
func (h *APIHandlers) GetTargets(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"targets": h.exporter.Targets()})
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	toolsCheck, toolsOk := h.tools.HealthCheck()
	exporterCheck, exporterOk := h.exporter.HealthCheck()

	storeOk := true
	storeCheck := "ok"

	if err := h.persistence.HealthCheck(c.Context()); err != nil {
		storeOk = false
		storeCheck = err.Error()
	}

	status := "unhealthy"
	message := "Wizard API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if toolsOk && exporterOk && storeOk {
		status = "healthy"
		message = "Wizard API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"tools":      toolsCheck,
			"exporter":   exporterCheck,
			"repository": storeCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}
