// Package zapier renders workflows into a Zapier zap description.
package zapier

import (
	"encoding/json"

	"github.com/workflowwiz/wizard/pkg/models"
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) PlatformID() string { return "zapier" }

func (r *Renderer) Format() string { return "json" }

type zapStep struct {
	App    string         `json:"app"`
	Action string         `json:"action"`
	Fields map[string]any `json:"fields"`
}

type zap struct {
	Title string    `json:"title"`
	Steps []zapStep `json:"steps"`
}

var toolApps = map[string]string{
	"gmail":   "Gmail",
	"sheets":  "Google Sheets",
	"notion":  "Notion",
	"webhook": "Webhooks",
}

func (r *Renderer) Render(workflow *models.Workflow) ([]byte, error) {
	out := zap{
		Title: workflow.Name,
		Steps: make([]zapStep, 0, len(workflow.Nodes)),
	}

	for _, node := range workflow.Nodes {
		fields := node.Parameters
		if fields == nil {
			fields = map[string]any{}
		}

		out.Steps = append(out.Steps, zapStep{
			App:    app(node),
			Action: node.Action,
			Fields: fields,
		})
	}

	return json.MarshalIndent(out, "", "  ")
}

func app(node *models.WorkflowNode) string {
	if node.IsTriggerNode() {
		switch node.Action {
		case string(models.TriggerTypeSchedule):
			return "Schedule by Zapier"
		case string(models.TriggerTypeEvent):
			return "Webhooks"
		default:
			return "Manual"
		}
	}

	if name, ok := toolApps[node.Tool]; ok {
		return name
	}

	return "Code"
}
