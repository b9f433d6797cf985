package validation_test

import (
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workflowwiz/wizard/pkg/models"
	"github.com/workflowwiz/wizard/pkg/tools"
	"github.com/workflowwiz/wizard/pkg/tools/gmail"
	"github.com/workflowwiz/wizard/pkg/tools/notion"
	"github.com/workflowwiz/wizard/pkg/tools/sheets"
	"github.com/workflowwiz/wizard/pkg/tools/webhook"
	"github.com/workflowwiz/wizard/pkg/validation"
)

func testValidator(t *testing.T) *validation.Validator {
	t.Helper()

	registry := tools.NewRegistry(slog.Default())
	registry.Register(gmail.Descriptor())
	registry.Register(sheets.Descriptor())
	registry.Register(notion.Descriptor())
	registry.Register(webhook.Descriptor())

	return validation.New(registry, slog.Default())
}

// acceptedWorkflow builds the canonical schedule -> read -> send chain that
// passes every rule.
func acceptedWorkflow() *models.Workflow {
	return &models.Workflow{
		ID:       "wf-1",
		Name:     "Daily summary",
		Status:   models.WorkflowStatusDraft,
		Revision: 1,
		Nodes: []*models.WorkflowNode{
			{ID: "node-1", Kind: models.NodeKindTrigger, Tool: models.ToolNone, Action: "schedule",
				Parameters: map[string]any{"cron": "0 9 * * *"}},
			{ID: "node-2", Kind: models.NodeKindAction, Tool: "sheets", Action: "read_rows",
				Parameters: map[string]any{"spreadsheet_id": "primary", "range": "A1:Z100"}},
			{ID: "node-3", Kind: models.NodeKindAction, Tool: "gmail", Action: "send_email",
				Parameters: map[string]any{"to": "me", "subject": "Summary", "body": "{{ .results }}"}},
		},
		Edges: []*models.Edge{
			{From: "node-1", To: "node-2"},
			{From: "node-2", To: "node-3"},
		},
	}
}

func TestValidator_Validate_ToleratesNullGraphEntries(t *testing.T) {
	t.Parallel()

	validator := testValidator(t)

	// JSON documents arriving over the wire may carry null array entries.
	var workflow models.Workflow
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "wf-1",
		"name": "Nulls",
		"status": "draft",
		"revision": 1,
		"nodes": [
			{"id": "node-1", "kind": "trigger", "tool": "none", "action": "schedule",
			 "parameters": {"cron": "0 9 * * *"}},
			null
		],
		"edges": [null]
	}`), &workflow))

	result := validator.Validate(&workflow)

	assert.False(t, result.Accepted)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, models.ViolationDeadEnd, result.Violations[0].Code)
}

func TestValidator_Validate_Accepted(t *testing.T) {
	t.Parallel()

	validator := testValidator(t)

	result := validator.Validate(acceptedWorkflow())

	assert.True(t, result.Accepted)
	assert.Empty(t, result.Violations)
}

func TestValidator_Validate_Idempotent(t *testing.T) {
	t.Parallel()

	validator := testValidator(t)
	workflow := acceptedWorkflow()

	first := validator.Validate(workflow)
	second := validator.Validate(workflow)

	assert.Equal(t, first, second)
}

func TestValidator_Validate_NoTrigger(t *testing.T) {
	t.Parallel()

	validator := testValidator(t)

	workflow := acceptedWorkflow()
	workflow.Nodes = workflow.Nodes[1:]
	workflow.Edges = workflow.Edges[1:]

	result := validator.Validate(workflow)

	require.False(t, result.Accepted)
	assert.Equal(t, models.ViolationNoTrigger, result.Violations[0].Code)
	assert.Equal(t, -1, result.Violations[0].EdgeIndex)
}

func TestValidator_Validate_MultipleTriggers(t *testing.T) {
	t.Parallel()

	validator := testValidator(t)

	workflow := acceptedWorkflow()
	workflow.Nodes = append(workflow.Nodes,
		&models.WorkflowNode{ID: "node-4", Kind: models.NodeKindTrigger, Tool: models.ToolNone, Action: "manual"})
	workflow.Edges = append(workflow.Edges, &models.Edge{From: "node-4", To: "node-3"})

	result := validator.Validate(workflow)

	require.False(t, result.Accepted)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, models.ViolationMultipleTriggers, result.Violations[0].Code)
	assert.Equal(t, "node-4", result.Violations[0].NodeID)
}

func TestValidator_Validate_UnknownEndpoint(t *testing.T) {
	t.Parallel()

	validator := testValidator(t)

	workflow := acceptedWorkflow()
	workflow.Edges = append(workflow.Edges, &models.Edge{From: "node-3", To: "ghost"})

	result := validator.Validate(workflow)

	require.False(t, result.Accepted)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, models.ViolationUnknownEndpoint, result.Violations[0].Code)
	assert.Equal(t, 2, result.Violations[0].EdgeIndex)
}

func TestValidator_Validate_Cycle(t *testing.T) {
	t.Parallel()

	validator := testValidator(t)

	workflow := acceptedWorkflow()
	workflow.Edges = append(workflow.Edges, &models.Edge{From: "node-3", To: "node-2"})

	result := validator.Validate(workflow)

	require.False(t, result.Accepted)

	codes := violationCodes(result.Violations)
	assert.Contains(t, codes, models.ViolationCycle)
}

func TestValidator_Validate_UnreachableNode(t *testing.T) {
	t.Parallel()

	validator := testValidator(t)

	workflow := acceptedWorkflow()
	workflow.Nodes = append(workflow.Nodes,
		&models.WorkflowNode{ID: "node-4", Kind: models.NodeKindAction, Tool: "gmail", Action: "send_email",
			Parameters: map[string]any{"to": "me", "subject": "s", "body": "b"}})

	result := validator.Validate(workflow)

	require.False(t, result.Accepted)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, models.ViolationUnreachable, result.Violations[0].Code)
	assert.Equal(t, "node-4", result.Violations[0].NodeID)
}

func TestValidator_Validate_UnknownTool(t *testing.T) {
	t.Parallel()

	validator := testValidator(t)

	workflow := acceptedWorkflow()
	workflow.Nodes[2].Tool = "fax"

	result := validator.Validate(workflow)

	require.False(t, result.Accepted)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, models.ViolationUnknownTool, result.Violations[0].Code)
	assert.Equal(t, "node-3", result.Violations[0].NodeID)
}

func TestValidator_Validate_UnknownAction(t *testing.T) {
	t.Parallel()

	validator := testValidator(t)

	workflow := acceptedWorkflow()
	workflow.Nodes[2].Action = "teleport"

	result := validator.Validate(workflow)

	require.False(t, result.Accepted)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, models.ViolationUnknownAction, result.Violations[0].Code)
}

func TestValidator_Validate_MissingParameter(t *testing.T) {
	t.Parallel()

	validator := testValidator(t)

	workflow := acceptedWorkflow()
	workflow.Nodes = append(workflow.Nodes,
		&models.WorkflowNode{ID: "node-4", Kind: models.NodeKindAction, Tool: "webhook", Action: "post"})
	workflow.Edges = append(workflow.Edges, &models.Edge{From: "node-3", To: "node-4"})

	result := validator.Validate(workflow)

	require.False(t, result.Accepted)

	codes := violationCodes(result.Violations)
	assert.Contains(t, codes, models.ViolationMissingParameter)
}

func TestValidator_Validate_InvalidSchedule(t *testing.T) {
	t.Parallel()

	validator := testValidator(t)

	tests := []struct {
		name string
		cron any
	}{
		{name: "missing expression", cron: nil},
		{name: "gibberish expression", cron: "not-a-cron"},
		{name: "too few fields", cron: "0 9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			workflow := acceptedWorkflow()
			if tt.cron == nil {
				workflow.Nodes[0].Parameters = nil
			} else {
				workflow.Nodes[0].Parameters = map[string]any{"cron": tt.cron}
			}

			result := validator.Validate(workflow)

			require.False(t, result.Accepted)
			assert.Equal(t, models.ViolationInvalidSchedule, result.Violations[0].Code)
			assert.Equal(t, "node-1", result.Violations[0].NodeID)
		})
	}
}

func TestValidator_Validate_DeadEnd(t *testing.T) {
	t.Parallel()

	validator := testValidator(t)

	// Swap the chain so the non-terminal read step is the leaf.
	workflow := acceptedWorkflow()
	workflow.Edges = []*models.Edge{
		{From: "node-1", To: "node-3"},
		{From: "node-3", To: "node-2"},
	}

	result := validator.Validate(workflow)

	require.False(t, result.Accepted)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, models.ViolationDeadEnd, result.Violations[0].Code)
	assert.Equal(t, "node-2", result.Violations[0].NodeID)
}

func TestValidator_Validate_TerminalLeafIsNotDeadEnd(t *testing.T) {
	t.Parallel()

	validator := testValidator(t)

	// send_email is terminal-capable, so the canonical chain is fine even
	// though node-3 has no outgoing edge.
	result := validator.Validate(acceptedWorkflow())

	assert.True(t, result.Accepted)
}

func TestValidator_Validate_StructuralBeforeSemantic(t *testing.T) {
	t.Parallel()

	validator := testValidator(t)

	// No trigger and an unknown tool at once: the structural violation must
	// come first.
	workflow := acceptedWorkflow()
	workflow.Nodes = workflow.Nodes[1:]
	workflow.Edges = workflow.Edges[1:]
	workflow.Nodes[1].Tool = "fax"

	result := validator.Validate(workflow)

	require.False(t, result.Accepted)
	require.GreaterOrEqual(t, len(result.Violations), 2)
	assert.Equal(t, models.ViolationNoTrigger, result.Violations[0].Code)
}

func TestValidator_Validate_DoesNotMutateWorkflow(t *testing.T) {
	t.Parallel()

	validator := testValidator(t)

	workflow := acceptedWorkflow()
	before := workflow.Clone()

	_ = validator.Validate(workflow)

	assert.Equal(t, before.Nodes, workflow.Nodes)
	assert.Equal(t, before.Edges, workflow.Edges)
}

func violationCodes(violations []models.Violation) []models.ViolationCode {
	codes := make([]models.ViolationCode, 0, len(violations))
	for _, violation := range violations {
		codes = append(codes, violation.Code)
	}

	return codes
}
