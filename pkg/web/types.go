// Package web provides HTTP request and response types for the wizard API.
package web

import (
	"github.com/workflowwiz/wizard/pkg/models"
	"github.com/workflowwiz/wizard/pkg/pipeline"
)

// DesignWorkflowRequest represents the request body for designing a workflow
// from a natural language description. Target is optional; when set the
// accepted workflow is also rendered for that platform.
type DesignWorkflowRequest struct {
	Request string `json:"request" validate:"required,min=3"`
	Target  string `json:"target,omitempty"`
}

// DesignWorkflowResponse carries the accepted workflow together with the
// validation attempts that led to it.
type DesignWorkflowResponse struct {
	Workflow *models.Workflow       `json:"workflow"`
	Intent   *models.Intent         `json:"intent"`
	Attempts []pipeline.Attempt     `json:"attempts"`
	Artifact *models.ExportArtifact `json:"artifact,omitempty"`
}

// ValidateWorkflowRequest wraps a workflow document to be checked without
// running the full pipeline.
type ValidateWorkflowRequest struct {
	Workflow *models.Workflow `json:"workflow" validate:"required"`
}

// ToolResponse describes a registered tool integration.
type ToolResponse struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	Capabilities []models.Capability `json:"capabilities"`
}

// TransformToolResponse flattens a tool descriptor for the catalog endpoint.
func TransformToolResponse(descriptor *models.ToolDescriptor) ToolResponse {
	return ToolResponse{
		ID:           descriptor.ID,
		Name:         descriptor.Name,
		Description:  descriptor.Description,
		Capabilities: descriptor.Capabilities,
	}
}
