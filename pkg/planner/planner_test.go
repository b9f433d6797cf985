package planner_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workflowwiz/wizard/pkg/collaborator/heuristic"
	"github.com/workflowwiz/wizard/pkg/intent"
	"github.com/workflowwiz/wizard/pkg/models"
	"github.com/workflowwiz/wizard/pkg/planner"
	"github.com/workflowwiz/wizard/pkg/tools"
	"github.com/workflowwiz/wizard/pkg/tools/gmail"
	"github.com/workflowwiz/wizard/pkg/tools/notion"
	"github.com/workflowwiz/wizard/pkg/tools/sheets"
	"github.com/workflowwiz/wizard/pkg/tools/webhook"
)

type stubCollaborator struct {
	result map[string]any
	err    error
}

func (s *stubCollaborator) Infer(_ context.Context, _ string, _ *models.JSONSchema) (map[string]any, error) {
	return s.result, s.err
}

func testRegistry(t *testing.T) *tools.Registry {
	t.Helper()

	registry := tools.NewRegistry(slog.Default())
	registry.Register(gmail.Descriptor())
	registry.Register(sheets.Descriptor())
	registry.Register(notion.Descriptor())
	registry.Register(webhook.Descriptor())

	return registry
}

func parseIntent(t *testing.T, request string) *models.Intent {
	t.Helper()

	stage := intent.NewStage(heuristic.New(), slog.Default())

	parsed, err := stage.Parse(context.Background(), request)
	require.NoError(t, err)

	return parsed
}

func TestStage_Plan_DailySummary(t *testing.T) {
	t.Parallel()

	stage := planner.NewStage(heuristic.New(), testRegistry(t), slog.Default())
	parsed := parseIntent(t, "Send me a daily email summary of my Google Sheets tasks")

	workflow, err := stage.Plan(context.Background(), parsed)
	require.NoError(t, err)

	assert.NotEmpty(t, workflow.ID)
	assert.Equal(t, models.WorkflowStatusDraft, workflow.Status)
	assert.Equal(t, 1, workflow.Revision)

	require.Len(t, workflow.Nodes, 3)

	trigger := workflow.Nodes[0]
	assert.Equal(t, "node-1", trigger.ID)
	assert.Equal(t, models.NodeKindTrigger, trigger.Kind)
	assert.Equal(t, models.ToolNone, trigger.Tool)
	assert.Equal(t, "schedule", trigger.Action)
	assert.Equal(t, "0 9 * * *", trigger.Parameters["cron"])

	read := workflow.Nodes[1]
	assert.Equal(t, "node-2", read.ID)
	assert.Equal(t, "sheets", read.Tool)
	assert.Equal(t, "read_rows", read.Action)
	assert.True(t, read.RetriesAllowed)

	send := workflow.Nodes[2]
	assert.Equal(t, "node-3", send.ID)
	assert.Equal(t, "gmail", send.Tool)
	assert.Equal(t, "send_email", send.Action)
	assert.False(t, send.RetriesAllowed)

	require.Len(t, workflow.Edges, 2)
	assert.Equal(t, "node-1", workflow.Edges[0].From)
	assert.Equal(t, "node-2", workflow.Edges[0].To)
	assert.Equal(t, "node-2", workflow.Edges[1].From)
	assert.Equal(t, "node-3", workflow.Edges[1].To)
}

func TestStage_Plan_FillsSchemaDefaults(t *testing.T) {
	t.Parallel()

	stage := planner.NewStage(heuristic.New(), testRegistry(t), slog.Default())
	parsed := parseIntent(t, "Send me a daily email summary of my Google Sheets tasks")

	workflow, err := stage.Plan(context.Background(), parsed)
	require.NoError(t, err)

	send := workflow.Node("node-3")
	require.NotNil(t, send)
	assert.Equal(t, "me", send.Parameters["to"])
	assert.Equal(t, "Workflow notification", send.Parameters["subject"])
	assert.NotEmpty(t, send.Parameters["body"])

	read := workflow.Node("node-2")
	require.NotNil(t, read)
	assert.Equal(t, "primary", read.Parameters["spreadsheet_id"])
	assert.Equal(t, "A1:Z100", read.Parameters["range"])
}

func TestStage_Plan_Deterministic(t *testing.T) {
	t.Parallel()

	stage := planner.NewStage(heuristic.New(), testRegistry(t), slog.Default())
	parsed := parseIntent(t, "Send me a daily email summary of my Google Sheets tasks")

	first, err := stage.Plan(context.Background(), parsed)
	require.NoError(t, err)

	second, err := stage.Plan(context.Background(), parsed)
	require.NoError(t, err)

	// Workflow ids differ; the graph itself must not.
	assert.Equal(t, first.Nodes, second.Nodes)
	assert.Equal(t, first.Edges, second.Edges)
	assert.Equal(t, first.Name, second.Name)
}

func TestStage_Plan_NoFeasiblePlan(t *testing.T) {
	t.Parallel()

	stub := &stubCollaborator{result: map[string]any{"steps": []any{}}}
	stage := planner.NewStage(stub, testRegistry(t), slog.Default())

	_, err := stage.Plan(context.Background(), &models.Intent{
		Goal:    "do nothing",
		Trigger: models.Trigger{Type: models.TriggerTypeManual},
	})
	require.Error(t, err)

	assert.True(t, planner.IsPlanningError(err))
	assert.ErrorIs(t, err, planner.ErrNoFeasiblePlan)
}

func TestStage_Plan_UnknownToolInProposal(t *testing.T) {
	t.Parallel()

	stub := &stubCollaborator{result: map[string]any{
		"steps": []any{
			map[string]any{"tool": "fax", "action": "send_fax"},
		},
	}}
	stage := planner.NewStage(stub, testRegistry(t), slog.Default())

	_, err := stage.Plan(context.Background(), &models.Intent{
		Goal:    "send a fax",
		Trigger: models.Trigger{Type: models.TriggerTypeManual},
	})
	require.Error(t, err)

	assert.True(t, planner.IsPlanningError(err))
	assert.ErrorIs(t, err, planner.ErrNoFeasiblePlan)
}

func TestStage_Plan_BindsByActionWhenToolOmitted(t *testing.T) {
	t.Parallel()

	stub := &stubCollaborator{result: map[string]any{
		"workflow_name": "Post an update",
		"steps": []any{
			map[string]any{"action": "post"},
		},
	}}
	stage := planner.NewStage(stub, testRegistry(t), slog.Default())

	workflow, err := stage.Plan(context.Background(), &models.Intent{
		Goal:     "post an update to my endpoint",
		RawInput: "post an update to my endpoint",
		Trigger:  models.Trigger{Type: models.TriggerTypeManual},
	})
	require.NoError(t, err)

	require.Len(t, workflow.Nodes, 2)
	assert.Equal(t, "webhook", workflow.Nodes[1].Tool)
	assert.Equal(t, "post", workflow.Nodes[1].Action)
}
