// Package pipeline orchestrates the design stages: intent extraction,
// planning, validation with a bounded repair loop, and optional export.
package pipeline

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/workflowwiz/wizard/pkg/eventbus"
	"github.com/workflowwiz/wizard/pkg/events"
	"github.com/workflowwiz/wizard/pkg/export"
	"github.com/workflowwiz/wizard/pkg/intent"
	"github.com/workflowwiz/wizard/pkg/models"
	"github.com/workflowwiz/wizard/pkg/otelhelper"
	"github.com/workflowwiz/wizard/pkg/persistence"
	"github.com/workflowwiz/wizard/pkg/planner"
	"github.com/workflowwiz/wizard/pkg/validation"
)

// DefaultMaxRepairs bounds how many times a rejected plan is sent back to
// the planner before the run is declared unresolvable.
const DefaultMaxRepairs = 3

// Attempt records one validation round of the repair loop.
type Attempt struct {
	Revision   int                `json:"revision"`
	Accepted   bool               `json:"accepted"`
	Violations []models.Violation `json:"violations,omitempty"`
}

// Result is the outcome of a successful pipeline run.
type Result struct {
	Intent   *models.Intent         `json:"intent"`
	Workflow *models.Workflow       `json:"workflow"`
	Attempts []Attempt              `json:"attempts"`
	Artifact *models.ExportArtifact `json:"artifact,omitempty"`
}

// Config carries the collaborating components of a Pipeline. Persistence,
// EventBus and Tracer are optional.
type Config struct {
	Intent      *intent.Stage
	Planner     *planner.Stage
	Validator   *validation.Validator
	Exporter    *export.Registry
	Persistence persistence.Persistence
	EventBus    eventbus.EventBus
	Tracer      trace.Tracer
	Logger      *slog.Logger
	MaxRepairs  int
}

type Pipeline struct {
	intent      *intent.Stage
	planner     *planner.Stage
	validator   *validation.Validator
	exporter    *export.Registry
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	tracer      trace.Tracer
	logger      *slog.Logger
	maxRepairs  int
}

func New(cfg Config) *Pipeline {
	maxRepairs := cfg.MaxRepairs
	if maxRepairs <= 0 {
		maxRepairs = DefaultMaxRepairs
	}

	tracer := cfg.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("pipeline")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		intent:      cfg.Intent,
		planner:     cfg.Planner,
		validator:   cfg.Validator,
		exporter:    cfg.Exporter,
		persistence: cfg.Persistence,
		eventBus:    cfg.EventBus,
		tracer:      tracer,
		logger:      logger.With("module", "pipeline"),
		maxRepairs:  maxRepairs,
	}
}

// Run drives a request through all stages. When target is empty the
// accepted workflow is returned without an export artifact.
func (p *Pipeline) Run(ctx context.Context, request, target string) (*Result, error) {
	ctx, span := otelhelper.StartSpan(ctx, p.tracer, "pipeline.run",
		attribute.Int(otelhelper.RequestLengthKey, len(request)),
		attribute.String(otelhelper.TargetKey, target),
	)
	defer span.End()

	parsed, err := p.parseIntent(ctx, request)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	workflow, err := p.plan(ctx, parsed)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	workflow, attempts, err := p.resolve(ctx, parsed, workflow)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	result := &Result{Intent: parsed, Workflow: workflow, Attempts: attempts}

	if target != "" {
		artifact, err := p.export(ctx, workflow, target)
		if err != nil {
			otelhelper.SetError(span, err)

			return nil, err
		}

		result.Artifact = artifact
	}

	if err := p.save(ctx, result); err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	span.SetAttributes(
		attribute.String(otelhelper.WorkflowIDKey, workflow.ID),
		attribute.Int(otelhelper.RevisionKey, workflow.Revision),
	)

	return result, nil
}

func (p *Pipeline) parseIntent(ctx context.Context, request string) (*models.Intent, error) {
	ctx, span := otelhelper.StartSpan(ctx, p.tracer, "pipeline.intent")
	defer span.End()

	parsed, err := p.intent.Parse(ctx, request)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	p.logger.InfoContext(ctx, "Intent extracted",
		"goal", parsed.Goal, "trigger_type", parsed.Trigger.Type)

	p.publish(ctx, events.IntentExtracted{
		BaseEvent:   events.NewBaseEvent(events.IntentExtractedEvent, ""),
		Goal:        parsed.Goal,
		TriggerType: parsed.Trigger.Type,
	})

	return parsed, nil
}

func (p *Pipeline) plan(ctx context.Context, parsed *models.Intent) (*models.Workflow, error) {
	ctx, span := otelhelper.StartSpan(ctx, p.tracer, "pipeline.plan")
	defer span.End()

	workflow, err := p.planner.Plan(ctx, parsed)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	span.SetAttributes(attribute.String(otelhelper.WorkflowIDKey, workflow.ID))

	p.publish(ctx, events.WorkflowPlanned{
		BaseEvent: events.NewBaseEvent(events.WorkflowPlannedEvent, workflow.ID),
		Revision:  workflow.Revision,
		Nodes:     len(workflow.Nodes),
	})

	return workflow, nil
}

// resolve runs the validate/repair loop. The first validation plus up to
// maxRepairs replans; the loop never runs unbounded.
func (p *Pipeline) resolve(ctx context.Context, parsed *models.Intent, workflow *models.Workflow) (*models.Workflow, []Attempt, error) {
	ctx, span := otelhelper.StartSpan(ctx, p.tracer, "pipeline.resolve",
		attribute.String(otelhelper.WorkflowIDKey, workflow.ID),
	)
	defer span.End()

	attempts := make([]Attempt, 0, p.maxRepairs+1)

	for attempt := 1; ; attempt++ {
		result := p.validator.Validate(workflow)

		attempts = append(attempts, Attempt{
			Revision:   workflow.Revision,
			Accepted:   result.Accepted,
			Violations: result.Violations,
		})

		if result.Accepted {
			workflow.Status = models.WorkflowStatusAccepted

			span.SetAttributes(attribute.Int(otelhelper.AttemptKey, attempt))
			p.logger.InfoContext(ctx, "Workflow accepted",
				"workflow_id", workflow.ID, "revision", workflow.Revision, "attempt", attempt)

			p.publish(ctx, events.WorkflowAccepted{
				BaseEvent: events.NewBaseEvent(events.WorkflowAcceptedEvent, workflow.ID),
				Revision:  workflow.Revision,
			})

			return workflow, attempts, nil
		}

		p.logger.WarnContext(ctx, "Workflow rejected",
			"workflow_id", workflow.ID, "revision", workflow.Revision,
			"violations", len(result.Violations))

		p.publish(ctx, events.WorkflowRejected{
			BaseEvent:  events.NewBaseEvent(events.WorkflowRejectedEvent, workflow.ID),
			Revision:   workflow.Revision,
			Violations: result.Violations,
		})

		if attempt > p.maxRepairs {
			span.SetAttributes(attribute.Int(otelhelper.ViolationsKey, len(result.Violations)))

			p.publish(ctx, events.WorkflowUnresolvable{
				BaseEvent:  events.NewBaseEvent(events.WorkflowUnresolvableEvent, workflow.ID),
				Attempts:   attempt,
				Violations: result.Violations,
			})

			return nil, attempts, &UnresolvableError{
				WorkflowID: workflow.ID,
				Attempts:   attempt,
				Violations: result.Violations,
			}
		}

		repaired, err := p.planner.Replan(ctx, parsed, workflow, result.Violations)
		if err != nil {
			otelhelper.SetError(span, err)

			return nil, attempts, err
		}

		workflow = repaired
	}
}

func (p *Pipeline) export(ctx context.Context, workflow *models.Workflow, target string) (*models.ExportArtifact, error) {
	ctx, span := otelhelper.StartSpan(ctx, p.tracer, "pipeline.export",
		attribute.String(otelhelper.WorkflowIDKey, workflow.ID),
		attribute.String(otelhelper.TargetKey, target),
	)
	defer span.End()

	artifact, err := p.exporter.Export(workflow, target)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	workflow.Status = models.WorkflowStatusExported

	p.publish(ctx, events.WorkflowExported{
		BaseEvent: events.NewBaseEvent(events.WorkflowExportedEvent, workflow.ID),
		Target:    artifact.Target,
		Format:    artifact.Format,
		Checksum:  artifact.Checksum,
	})

	return artifact, nil
}

func (p *Pipeline) save(ctx context.Context, result *Result) error {
	if p.persistence == nil {
		return nil
	}

	if err := p.persistence.SaveWorkflow(ctx, result.Workflow); err != nil {
		return err
	}

	if result.Artifact == nil {
		return nil
	}

	return p.persistence.SaveArtifact(ctx, result.Artifact)
}

// publish is best effort. A failing event bus never fails the run.
func (p *Pipeline) publish(ctx context.Context, event events.Event) {
	if p.eventBus == nil {
		return
	}

	if err := p.eventBus.Publish(ctx, event); err != nil {
		p.logger.WarnContext(ctx, "Failed to publish event",
			"event_type", event.GetType(), "error", err)
	}
}
