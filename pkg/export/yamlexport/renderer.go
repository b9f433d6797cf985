// Package yamlexport renders workflows as a YAML configuration document.
package yamlexport

import (
	"gopkg.in/yaml.v3"

	"github.com/workflowwiz/wizard/pkg/models"
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) PlatformID() string { return "yaml" }

func (r *Renderer) Format() string { return "yaml" }

type yamlNode struct {
	ID         string         `yaml:"id"`
	Kind       string         `yaml:"kind"`
	Name       string         `yaml:"name"`
	Tool       string         `yaml:"tool"`
	Action     string         `yaml:"action,omitempty"`
	Parameters map[string]any `yaml:"parameters,omitempty"`
}

type yamlEdge struct {
	From      string `yaml:"from"`
	To        string `yaml:"to"`
	Condition string `yaml:"condition,omitempty"`
}

type yamlWorkflow struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Nodes       []yamlNode `yaml:"nodes"`
	Edges       []yamlEdge `yaml:"edges"`
}

func (r *Renderer) Render(workflow *models.Workflow) ([]byte, error) {
	out := yamlWorkflow{
		Name:        workflow.Name,
		Description: workflow.Description,
		Nodes:       make([]yamlNode, 0, len(workflow.Nodes)),
		Edges:       make([]yamlEdge, 0, len(workflow.Edges)),
	}

	for _, node := range workflow.Nodes {
		out.Nodes = append(out.Nodes, yamlNode{
			ID:         node.ID,
			Kind:       string(node.Kind),
			Name:       node.Name,
			Tool:       node.Tool,
			Action:     node.Action,
			Parameters: node.Parameters,
		})
	}

	for _, edge := range workflow.Edges {
		out.Edges = append(out.Edges, yamlEdge{From: edge.From, To: edge.To, Condition: edge.Condition})
	}

	return yaml.Marshal(out)
}
