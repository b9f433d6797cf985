package export_test

import (
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/workflowwiz/wizard/pkg/export"
	"github.com/workflowwiz/wizard/pkg/export/codegen"
	"github.com/workflowwiz/wizard/pkg/export/jsonexport"
	"github.com/workflowwiz/wizard/pkg/export/n8n"
	"github.com/workflowwiz/wizard/pkg/export/yamlexport"
	"github.com/workflowwiz/wizard/pkg/export/zapier"
	"github.com/workflowwiz/wizard/pkg/models"
)

func testRegistry(t *testing.T) *export.Registry {
	t.Helper()

	registry := export.NewRegistry(slog.Default())
	registry.Register(n8n.NewRenderer())
	registry.Register(zapier.NewRenderer())
	registry.Register(codegen.NewRenderer())
	registry.Register(jsonexport.NewRenderer())
	registry.Register(yamlexport.NewRenderer())

	return registry
}

func acceptedWorkflow() *models.Workflow {
	return &models.Workflow{
		ID:       "wf-1",
		Name:     "Daily summary",
		Status:   models.WorkflowStatusAccepted,
		Revision: 1,
		Nodes: []*models.WorkflowNode{
			{ID: "node-1", Kind: models.NodeKindTrigger, Name: "Schedule trigger",
				Tool: models.ToolNone, Action: "schedule",
				Parameters: map[string]any{"cron": "0 9 * * *"}},
			{ID: "node-2", Kind: models.NodeKindAction, Name: "Read sheet rows",
				Tool: "sheets", Action: "read_rows",
				Parameters: map[string]any{"spreadsheet_id": "primary", "range": "A1:Z100"}},
			{ID: "node-3", Kind: models.NodeKindAction, Name: "Send email",
				Tool: "gmail", Action: "send_email",
				Parameters: map[string]any{"to": "me", "subject": "Summary", "body": "{{ .results }}"}},
		},
		Edges: []*models.Edge{
			{From: "node-1", To: "node-2"},
			{From: "node-2", To: "node-3"},
		},
	}
}

func TestRegistry_Targets_Sorted(t *testing.T) {
	t.Parallel()

	registry := testRegistry(t)

	assert.Equal(t, []string{"code", "json", "n8n", "yaml", "zapier"}, registry.Targets())
}

func TestRegistry_Export_UnsupportedTarget(t *testing.T) {
	t.Parallel()

	registry := testRegistry(t)

	_, err := registry.Export(acceptedWorkflow(), "make")
	require.Error(t, err)

	assert.True(t, export.IsUnsupportedTarget(err))

	var unsupported *export.UnsupportedTargetError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "make", unsupported.Target)
	assert.Equal(t, []string{"code", "json", "n8n", "yaml", "zapier"}, unsupported.Registered)
}

func TestRegistry_Export_RejectsDraftWorkflow(t *testing.T) {
	t.Parallel()

	registry := testRegistry(t)

	workflow := acceptedWorkflow()
	workflow.Status = models.WorkflowStatusDraft

	_, err := registry.Export(workflow, "n8n")
	require.Error(t, err)

	assert.True(t, export.IsPreconditionError(err))
}

func TestRegistry_Export_N8N(t *testing.T) {
	t.Parallel()

	registry := testRegistry(t)

	artifact, err := registry.Export(acceptedWorkflow(), "n8n")
	require.NoError(t, err)

	assert.Equal(t, "wf-1", artifact.WorkflowID)
	assert.Equal(t, "n8n", artifact.Target)
	assert.Equal(t, "json", artifact.Format)
	assert.NotEmpty(t, artifact.Checksum)

	var rendered map[string]any
	require.NoError(t, json.Unmarshal(artifact.Payload, &rendered))

	nodes, ok := rendered["nodes"].([]any)
	require.True(t, ok)
	require.Len(t, nodes, 3)

	payload := string(artifact.Payload)
	assert.Contains(t, payload, "n8n-nodes-base.scheduleTrigger")
	assert.Contains(t, payload, "n8n-nodes-base.googleSheets")
	assert.Contains(t, payload, "n8n-nodes-base.gmail")
}

func TestRegistry_Export_Zapier(t *testing.T) {
	t.Parallel()

	registry := testRegistry(t)

	artifact, err := registry.Export(acceptedWorkflow(), "zapier")
	require.NoError(t, err)

	payload := string(artifact.Payload)
	assert.Contains(t, payload, "Schedule by Zapier")
	assert.Contains(t, payload, "Google Sheets")
	assert.Contains(t, payload, "Gmail")
}

func TestRegistry_Export_Code(t *testing.T) {
	t.Parallel()

	registry := testRegistry(t)

	artifact, err := registry.Export(acceptedWorkflow(), "code")
	require.NoError(t, err)

	assert.Equal(t, "python", artifact.Format)

	payload := string(artifact.Payload)
	assert.Contains(t, payload, "def run_workflow():")
	assert.Contains(t, payload, "gmail")
}

func TestRegistry_Export_YAML(t *testing.T) {
	t.Parallel()

	registry := testRegistry(t)

	artifact, err := registry.Export(acceptedWorkflow(), "yaml")
	require.NoError(t, err)

	assert.Equal(t, "yaml", artifact.Format)

	var rendered map[string]any
	require.NoError(t, yaml.Unmarshal(artifact.Payload, &rendered))
	assert.Equal(t, "Daily summary", rendered["name"])
}

func TestRegistry_Export_Deterministic(t *testing.T) {
	t.Parallel()

	registry := testRegistry(t)

	for _, target := range registry.Targets() {
		first, err := registry.Export(acceptedWorkflow(), target)
		require.NoError(t, err)

		second, err := registry.Export(acceptedWorkflow(), target)
		require.NoError(t, err)

		assert.Equal(t, first.Payload, second.Payload, "target %s", target)
		assert.Equal(t, first.Checksum, second.Checksum, "target %s", target)
	}
}

func TestRegistry_Export_DoesNotMutateWorkflow(t *testing.T) {
	t.Parallel()

	registry := testRegistry(t)

	workflow := acceptedWorkflow()
	before := workflow.Clone()

	_, err := registry.Export(workflow, "n8n")
	require.NoError(t, err)

	assert.Equal(t, before.Nodes, workflow.Nodes)
	assert.Equal(t, before.Edges, workflow.Edges)
	assert.Equal(t, before.Status, workflow.Status)
}
