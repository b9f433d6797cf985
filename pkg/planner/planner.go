// Package planner turns a structured intent into a draft workflow graph.
package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/workflowwiz/wizard/pkg/collaborator"
	"github.com/workflowwiz/wizard/pkg/models"
	"github.com/workflowwiz/wizard/pkg/tools"
)

// ErrNoFeasiblePlan indicates that no combination of the available tools can
// satisfy the intent's goal under its constraints.
var ErrNoFeasiblePlan = errors.New("no feasible plan for the requested goal")

// Error marks an intent the planner could not turn into a workflow.
type Error struct {
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("planning failed: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsPlanningError reports whether err came from the planner stage.
func IsPlanningError(err error) bool {
	var target *Error

	return errors.As(err, &target)
}

// Stage produces draft workflows. Node ids are assigned monotonically within
// a single planning call ("node-1", "node-2", ...) and stay stable across
// repair passes.
type Stage struct {
	collab collaborator.Collaborator
	tools  *tools.Registry
	logger *slog.Logger
}

func NewStage(collab collaborator.Collaborator, registry *tools.Registry, logger *slog.Logger) *Stage {
	return &Stage{
		collab: collab,
		tools:  registry,
		logger: logger.With("stage", "planner"),
	}
}

const promptInstructions = `You design workflow automations. Given the intent
analysis below, propose an ordered list of steps. Each step names the tool
integration and the action to perform. Answer with a single JSON object
matching the provided schema.`

// Plan asks the collaborator for a step proposal and deterministically binds
// it to registered tools. The returned graph satisfies the single-trigger
// and DAG invariants by construction: one trigger node followed by a linear
// action chain.
func (s *Stage) Plan(ctx context.Context, intent *models.Intent) (*models.Workflow, error) {
	intentJSON, err := json.Marshal(intent)
	if err != nil {
		return nil, &Error{Err: err}
	}

	prompt := promptInstructions + "\n\n" + collaborator.RequestSection + "\n" + string(intentJSON)

	raw, err := collaborator.Infer(ctx, s.collab, prompt, Schema())
	if err != nil {
		return nil, &Error{Err: err}
	}

	proposal, err := decode(raw)
	if err != nil {
		return nil, &Error{Err: err}
	}

	if len(proposal.Steps) == 0 {
		return nil, &Error{Err: ErrNoFeasiblePlan}
	}

	now := time.Now().UTC()
	workflow := &models.Workflow{
		ID:          uuid.New().String(),
		Name:        workflowName(proposal, intent),
		Description: intent.Goal,
		Status:      models.WorkflowStatusDraft,
		Revision:    1,
		CreatedAt:   now,
		UpdatedAt:   now,
		Metadata: map[string]any{
			"request": intent.RawInput,
		},
	}

	ids := newIDSequence()

	trigger := &models.WorkflowNode{
		ID:         ids.next(),
		Kind:       models.NodeKindTrigger,
		Name:       triggerName(intent.Trigger.Type),
		Tool:       models.ToolNone,
		Action:     string(intent.Trigger.Type),
		Parameters: intent.Trigger.Parameters,
	}
	workflow.Nodes = append(workflow.Nodes, trigger)

	previous := trigger.ID

	for _, step := range proposal.Steps {
		descriptor, capability, err := s.bind(step, intent)
		if err != nil {
			return nil, err
		}

		node := &models.WorkflowNode{
			ID:             ids.next(),
			Kind:           models.NodeKindAction,
			Name:           stepName(step, capability),
			Tool:           descriptor.ID,
			Action:         capability.Action,
			Parameters:     stepParameters(step, capability),
			RetriesAllowed: !capability.Terminal,
		}

		workflow.Nodes = append(workflow.Nodes, node)
		workflow.Edges = append(workflow.Edges, &models.Edge{From: previous, To: node.ID})
		previous = node.ID
	}

	s.logger.Debug("Planned workflow",
		"workflow_id", workflow.ID,
		"nodes", len(workflow.Nodes),
	)

	return workflow, nil
}

// bind resolves a proposed step to a registered tool capability. When
// several tools offer the action, the tool explicitly named in the request
// text wins over the inferred default.
func (s *Stage) bind(step proposedStep, intent *models.Intent) (*models.ToolDescriptor, *models.Capability, error) {
	if step.Tool != "" {
		descriptor, ok := s.tools.Get(step.Tool)
		if !ok {
			return nil, nil, &Error{Err: fmt.Errorf("%w: unknown tool %q", ErrNoFeasiblePlan, step.Tool)}
		}

		capability, ok := descriptor.Capability(step.Action)
		if !ok {
			return nil, nil, &Error{Err: fmt.Errorf("%w: tool %q has no action %q",
				ErrNoFeasiblePlan, step.Tool, step.Action)}
		}

		return descriptor, capability, nil
	}

	candidates := s.tools.FindByAction(step.Action)
	if len(candidates) == 0 {
		return nil, nil, &Error{Err: fmt.Errorf("%w: no tool offers action %q", ErrNoFeasiblePlan, step.Action)}
	}

	chosen := candidates[0]
	request := strings.ToLower(intent.RawInput)

	for _, candidate := range candidates {
		if strings.Contains(request, candidate.ID) || strings.Contains(request, strings.ToLower(candidate.Name)) {
			chosen = candidate

			break
		}
	}

	capability, _ := chosen.Capability(step.Action)

	return chosen, capability, nil
}

// stepParameters merges proposal parameters over the capability's schema
// defaults so that a well-known action is complete by construction.
func stepParameters(step proposedStep, capability *models.Capability) map[string]any {
	params := make(map[string]any)

	if capability.Parameters != nil {
		for name, property := range capability.Parameters.Properties {
			if property.Default != nil {
				params[name] = property.Default
			}
		}
	}

	for name, value := range step.Parameters {
		params[name] = value
	}

	if len(params) == 0 {
		return nil
	}

	return params
}

func workflowName(proposal *proposedPlan, intent *models.Intent) string {
	name := strings.TrimSpace(proposal.WorkflowName)
	if name == "" {
		name = strings.TrimSpace(intent.Summary)
	}

	if len(name) < 3 {
		name = "Untitled workflow"
	}

	return name
}

func triggerName(triggerType models.TriggerType) string {
	switch triggerType {
	case models.TriggerTypeSchedule:
		return "Schedule trigger"
	case models.TriggerTypeEvent:
		return "Event trigger"
	default:
		return "Manual trigger"
	}
}

func stepName(step proposedStep, capability *models.Capability) string {
	if strings.TrimSpace(step.Name) != "" {
		return strings.TrimSpace(step.Name)
	}

	return capability.Action
}

type idSequence struct {
	counter int
}

func newIDSequence() *idSequence {
	return &idSequence{}
}

func (s *idSequence) next() string {
	s.counter++

	return fmt.Sprintf("node-%d", s.counter)
}

// proposedPlan mirrors the collaborator's JSON answer for a plan prompt.
type proposedPlan struct {
	WorkflowName string         `json:"workflow_name"`
	Description  string         `json:"description"`
	Steps        []proposedStep `json:"steps"`
}

type proposedStep struct {
	Name       string         `json:"name"`
	Tool       string         `json:"tool"`
	Action     string         `json:"action"`
	Parameters map[string]any `json:"parameters"`
}

func decode(raw map[string]any) (*proposedPlan, error) {
	payload, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}

	var proposal proposedPlan
	if err := json.Unmarshal(payload, &proposal); err != nil {
		return nil, fmt.Errorf("%w: %v", collaborator.ErrMalformedResponse, err)
	}

	return &proposal, nil
}

// Schema describes the JSON shape the collaborator must answer with for a
// plan prompt.
func Schema() *models.JSONSchema {
	return &models.JSONSchema{
		Title: "plan",
		Type:  "object",
		Properties: map[string]*models.Property{
			"workflow_name": {Type: "string"},
			"description":   {Type: "string"},
			"steps": {
				Type: "array",
				Items: &models.Property{
					Type: "object",
					Properties: map[string]*models.Property{
						"name":       {Type: "string"},
						"tool":       {Type: "string"},
						"action":     {Type: "string"},
						"parameters": {Type: "object"},
					},
					Required: []string{"action"},
				},
			},
		},
		Required: []string{"steps"},
	}
}
