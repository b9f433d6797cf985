// Package jsonexport renders workflows as canonical indented JSON.
package jsonexport

import (
	"encoding/json"

	"github.com/workflowwiz/wizard/pkg/models"
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) PlatformID() string { return "json" }

func (r *Renderer) Format() string { return "json" }

func (r *Renderer) Render(workflow *models.Workflow) ([]byte, error) {
	return json.MarshalIndent(workflow, "", "  ")
}
