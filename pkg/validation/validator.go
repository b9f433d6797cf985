// Package validation checks draft workflow graphs against structural and
// semantic rules.
package validation

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/robfig/cron/v3"
	"github.com/workflowwiz/wizard/pkg/models"
	"github.com/workflowwiz/wizard/pkg/tools"
	"github.com/xeipuuv/gojsonschema"
)

// Validator runs the ordered rule set over a workflow. It accumulates every
// violation in a single pass instead of failing fast, so one repair cycle
// can address multiple defects. Structural violations always precede
// semantic ones; within each class violations are ordered by node id.
type Validator struct {
	tools  *tools.Registry
	logger *slog.Logger
}

func New(registry *tools.Registry, logger *slog.Logger) *Validator {
	return &Validator{
		tools:  registry,
		logger: logger.With("stage", "validator"),
	}
}

// Validate is a pure function over the workflow: it never mutates its input
// and yields identical results for identical inputs.
func (v *Validator) Validate(workflow *models.Workflow) models.ValidationResult {
	violations := v.structural(workflow)
	violations = append(violations, v.semantic(workflow)...)

	if len(violations) == 0 {
		return models.AcceptedResult()
	}

	v.logger.Debug("Workflow rejected",
		"workflow_id", workflow.ID,
		"revision", workflow.Revision,
		"violations", len(violations),
	)

	return models.RejectedResult(violations)
}

func (v *Validator) structural(workflow *models.Workflow) []models.Violation {
	var violations []models.Violation

	triggers := workflow.TriggerNodes()

	switch {
	case len(triggers) == 0:
		violations = append(violations, models.Violation{
			Code:      models.ViolationNoTrigger,
			EdgeIndex: -1,
			Message:   "workflow has no trigger node",
			Severity:  models.SeverityError,
		})
	case len(triggers) > 1:
		extras := triggers[1:]
		sort.Slice(extras, func(i, j int) bool { return extras[i].ID < extras[j].ID })

		for _, extra := range extras {
			violations = append(violations, models.Violation{
				Code:      models.ViolationMultipleTriggers,
				NodeID:    extra.ID,
				EdgeIndex: -1,
				Message:   fmt.Sprintf("surplus trigger node %q; a workflow has exactly one trigger", extra.ID),
				Severity:  models.SeverityError,
			})
		}
	}

	for i, edge := range workflow.Edges {
		// Decoded documents may carry JSON nulls; a null entry is no edge.
		if edge == nil {
			continue
		}

		for _, endpoint := range []string{edge.From, edge.To} {
			if workflow.Node(endpoint) == nil {
				violations = append(violations, models.Violation{
					Code:      models.ViolationUnknownEndpoint,
					EdgeIndex: i,
					Message:   fmt.Sprintf("edge %d references unknown node %q", i, endpoint),
					Severity:  models.SeverityError,
				})
			}
		}
	}

	if workflow.HasCycle() {
		violations = append(violations, models.Violation{
			Code:      models.ViolationCycle,
			EdgeIndex: -1,
			Message:   "workflow graph contains a cycle",
			Severity:  models.SeverityError,
		})
	}

	if len(triggers) == 1 {
		reached := workflow.ReachableFrom(triggers[0].ID)

		unreachable := make([]string, 0)

		for _, node := range workflow.Nodes {
			if node != nil && !node.IsTriggerNode() && !reached[node.ID] {
				unreachable = append(unreachable, node.ID)
			}
		}

		sort.Strings(unreachable)

		for _, id := range unreachable {
			violations = append(violations, models.Violation{
				Code:      models.ViolationUnreachable,
				NodeID:    id,
				EdgeIndex: -1,
				Message:   fmt.Sprintf("node %q is not reachable from the trigger", id),
				Severity:  models.SeverityError,
			})
		}
	}

	return violations
}

func (v *Validator) semantic(workflow *models.Workflow) []models.Violation {
	var violations []models.Violation

	nodes := make([]*models.WorkflowNode, 0, len(workflow.Nodes))

	for _, node := range workflow.Nodes {
		if node != nil {
			nodes = append(nodes, node)
		}
	}

	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	for _, node := range nodes {
		if node.IsTriggerNode() {
			violations = append(violations, v.checkTrigger(node)...)
			// A trigger is never terminal; alone it drives nothing.
			violations = append(violations, v.checkDeadEnd(workflow, node)...)

			continue
		}

		bindingViolations := v.checkBinding(workflow, node)
		violations = append(violations, bindingViolations...)

		// Dead-end detection only makes sense for nodes with a known
		// binding; unknown tools are already flagged above.
		if len(bindingViolations) == 0 {
			violations = append(violations, v.checkDeadEnd(workflow, node)...)
		}
	}

	return violations
}

// scheduleParser accepts the standard 5-field cron format.
var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

func (v *Validator) checkTrigger(node *models.WorkflowNode) []models.Violation {
	if node.Action != string(models.TriggerTypeSchedule) {
		return nil
	}

	expression, _ := node.Parameters["cron"].(string)
	if expression == "" {
		return []models.Violation{{
			Code:      models.ViolationInvalidSchedule,
			NodeID:    node.ID,
			EdgeIndex: -1,
			Message:   fmt.Sprintf("schedule trigger %q has no cron expression", node.ID),
			Severity:  models.SeverityError,
		}}
	}

	if _, err := scheduleParser.Parse(expression); err != nil {
		return []models.Violation{{
			Code:      models.ViolationInvalidSchedule,
			NodeID:    node.ID,
			EdgeIndex: -1,
			Message:   fmt.Sprintf("schedule trigger %q has invalid cron expression %q: %v", node.ID, expression, err),
			Severity:  models.SeverityError,
		}}
	}

	return nil
}

func (v *Validator) checkBinding(workflow *models.Workflow, node *models.WorkflowNode) []models.Violation {
	if node.Tool == models.ToolNone {
		return nil
	}

	descriptor, ok := v.tools.Get(node.Tool)
	if !ok {
		return []models.Violation{{
			Code:      models.ViolationUnknownTool,
			NodeID:    node.ID,
			EdgeIndex: -1,
			Message:   fmt.Sprintf("node %q references unknown tool %q", node.ID, node.Tool),
			Severity:  models.SeverityError,
		}}
	}

	capability, ok := descriptor.Capability(node.Action)
	if !ok {
		return []models.Violation{{
			Code:      models.ViolationUnknownAction,
			NodeID:    node.ID,
			EdgeIndex: -1,
			Message:   fmt.Sprintf("tool %q offers no action %q", node.Tool, node.Action),
			Severity:  models.SeverityError,
		}}
	}

	return v.checkParameters(node, capability)
}

// checkParameters validates node parameters against the capability schema.
func (v *Validator) checkParameters(node *models.WorkflowNode, capability *models.Capability) []models.Violation {
	if capability.Parameters == nil {
		return nil
	}

	schemaJSON, err := json.Marshal(capability.Parameters)
	if err != nil {
		return nil
	}

	parameters := node.Parameters
	if parameters == nil {
		parameters = map[string]any{}
	}

	outcome, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewGoLoader(parameters),
	)
	if err != nil {
		return []models.Violation{{
			Code:      models.ViolationInvalidParameter,
			NodeID:    node.ID,
			EdgeIndex: -1,
			Message:   fmt.Sprintf("node %q parameters could not be validated: %v", node.ID, err),
			Severity:  models.SeverityError,
		}}
	}

	if outcome.Valid() {
		return nil
	}

	var violations []models.Violation

	for _, schemaError := range outcome.Errors() {
		code := models.ViolationInvalidParameter
		if schemaError.Type() == "required" {
			code = models.ViolationMissingParameter
		}

		violations = append(violations, models.Violation{
			Code:      code,
			NodeID:    node.ID,
			EdgeIndex: -1,
			Message:   fmt.Sprintf("node %q: %s", node.ID, schemaError.String()),
			Severity:  models.SeverityError,
		})
	}

	return violations
}

func (v *Validator) checkDeadEnd(workflow *models.Workflow, node *models.WorkflowNode) []models.Violation {
	if workflow.OutDegree(node.ID) > 0 {
		return nil
	}

	if node.Tool != models.ToolNone {
		descriptor, ok := v.tools.Get(node.Tool)
		if ok {
			if capability, ok := descriptor.Capability(node.Action); ok && capability.Terminal {
				return nil
			}
		}
	}

	return []models.Violation{{
		Code:      models.ViolationDeadEnd,
		NodeID:    node.ID,
		EdgeIndex: -1,
		Message:   fmt.Sprintf("node %q has no outgoing edge and is not terminal-capable", node.ID),
		Severity:  models.SeverityError,
	}}
}
