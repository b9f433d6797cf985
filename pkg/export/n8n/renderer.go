// Package n8n renders workflows into the n8n workflow JSON format.
package n8n

import (
	"encoding/json"

	"github.com/workflowwiz/wizard/pkg/models"
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) PlatformID() string { return "n8n" }

func (r *Renderer) Format() string { return "json" }

type n8nNode struct {
	Parameters map[string]any `json:"parameters"`
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Position   [2]int         `json:"position"`
	ID         string         `json:"id"`
}

type n8nConnection struct {
	Node  string `json:"node"`
	Type  string `json:"type"`
	Index int    `json:"index"`
}

type n8nWorkflow struct {
	Name        string                          `json:"name"`
	Nodes       []n8nNode                       `json:"nodes"`
	Connections map[string]map[string][][]n8nConnection `json:"connections"`
}

func (r *Renderer) Render(workflow *models.Workflow) ([]byte, error) {
	out := n8nWorkflow{
		Name:        workflow.Name,
		Nodes:       make([]n8nNode, 0, len(workflow.Nodes)),
		Connections: make(map[string]map[string][][]n8nConnection),
	}

	for i, node := range workflow.Nodes {
		parameters := node.Parameters
		if parameters == nil {
			parameters = map[string]any{}
		}

		out.Nodes = append(out.Nodes, n8nNode{
			Parameters: parameters,
			Name:       node.Name,
			Type:       nodeType(node),
			Position:   [2]int{250, 300 + i*150},
			ID:         node.ID,
		})
	}

	for _, edge := range workflow.Edges {
		main, ok := out.Connections[edge.From]
		if !ok {
			main = map[string][][]n8nConnection{"main": {nil}}
			out.Connections[edge.From] = main
		}

		main["main"][0] = append(main["main"][0], n8nConnection{
			Node:  edge.To,
			Type:  "main",
			Index: 0,
		})
	}

	return json.MarshalIndent(out, "", "  ")
}

var toolTypes = map[string]string{
	"gmail":   "n8n-nodes-base.gmail",
	"sheets":  "n8n-nodes-base.googleSheets",
	"notion":  "n8n-nodes-base.notion",
	"webhook": "n8n-nodes-base.webhook",
}

func nodeType(node *models.WorkflowNode) string {
	if node.IsTriggerNode() {
		switch node.Action {
		case string(models.TriggerTypeSchedule):
			return "n8n-nodes-base.scheduleTrigger"
		case string(models.TriggerTypeEvent):
			return "n8n-nodes-base.webhook"
		default:
			return "n8n-nodes-base.manualTrigger"
		}
	}

	if t, ok := toolTypes[node.Tool]; ok {
		return t
	}

	return "n8n-nodes-base.function"
}
