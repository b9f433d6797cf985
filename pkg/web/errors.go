package web

import (
	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"

	"github.com/workflowwiz/wizard/pkg/collaborator"
	"github.com/workflowwiz/wizard/pkg/export"
	"github.com/workflowwiz/wizard/pkg/intent"
	"github.com/workflowwiz/wizard/pkg/persistence"
	"github.com/workflowwiz/wizard/pkg/pipeline"
	"github.com/workflowwiz/wizard/pkg/planner"
)

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func notFound(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(404).
		WithInstance(c.Path()).
		WithType("not_found").
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}

func internalError(c fiber.Ctx, err error) error {
	problem := problems.NewStatusProblem(500).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(problem)
}

// handlePipelineError maps design stage errors onto problem responses.
func handlePipelineError(c fiber.Ctx, err error) error {
	switch {
	case intent.IsIntentError(err):
		problem := problems.NewStatusProblem(422).
			WithInstance(c.Path()).
			WithType("intent_error").
			WithDetail(err.Error())

		return c.Status(fiber.StatusUnprocessableEntity).JSON(problem)

	case planner.IsPlanningError(err):
		problem := problems.NewStatusProblem(422).
			WithInstance(c.Path()).
			WithType("planning_error").
			WithDetail(err.Error())

		return c.Status(fiber.StatusUnprocessableEntity).JSON(problem)

	case pipeline.IsUnresolvable(err):
		problem := problems.NewStatusProblem(422).
			WithInstance(c.Path()).
			WithType("workflow_unresolvable").
			WithDetail(err.Error())

		return c.Status(fiber.StatusUnprocessableEntity).JSON(problem)

	case export.IsUnsupportedTarget(err):
		problem := problems.NewStatusProblem(400).
			WithInstance(c.Path()).
			WithType("unsupported_target").
			WithDetail(err.Error())

		return c.Status(fiber.StatusBadRequest).JSON(problem)

	case export.IsPreconditionError(err):
		problem := problems.NewStatusProblem(409).
			WithInstance(c.Path()).
			WithType("precondition_failed").
			WithDetail(err.Error())

		return c.Status(fiber.StatusConflict).JSON(problem)

	case collaborator.IsCollaboratorError(err):
		problem := problems.NewStatusProblem(503).
			WithInstance(c.Path()).
			WithType("collaborator_unavailable").
			WithDetail(err.Error())

		return c.Status(fiber.StatusServiceUnavailable).JSON(problem)

	case persistence.IsWorkflowNotFound(err):
		problem := problems.NewStatusProblem(404).
			WithInstance(c.Path()).
			WithType("workflow_not_found").
			WithDetail("workflow not found")

		return c.Status(fiber.StatusNotFound).JSON(problem)

	default:
		// Unexpected errors are not echoed back to the client.
		problem := problems.NewStatusProblem(500).
			WithInstance(c.Path()).
			WithType("internal_error")

		return c.Status(fiber.StatusInternalServerError).JSON(problem)
	}
}
