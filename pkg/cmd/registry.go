// Package cmd provides common initialization functions for command-line
// applications.
package cmd

import (
	"log/slog"
	"os"

	"github.com/workflowwiz/wizard/pkg/collaborator"
	"github.com/workflowwiz/wizard/pkg/collaborator/heuristic"
	"github.com/workflowwiz/wizard/pkg/collaborator/httpapi"
	"github.com/workflowwiz/wizard/pkg/export"
	"github.com/workflowwiz/wizard/pkg/export/codegen"
	"github.com/workflowwiz/wizard/pkg/export/jsonexport"
	"github.com/workflowwiz/wizard/pkg/export/n8n"
	"github.com/workflowwiz/wizard/pkg/export/yamlexport"
	"github.com/workflowwiz/wizard/pkg/export/zapier"
	"github.com/workflowwiz/wizard/pkg/tools"
	"github.com/workflowwiz/wizard/pkg/tools/gmail"
	"github.com/workflowwiz/wizard/pkg/tools/notion"
	"github.com/workflowwiz/wizard/pkg/tools/sheets"
	"github.com/workflowwiz/wizard/pkg/tools/webhook"
)

// NewToolRegistry registers the native tool integrations the planner can
// bind workflow steps to.
func NewToolRegistry(log *slog.Logger) *tools.Registry {
	registry := tools.NewRegistry(log)

	registry.Register(gmail.Descriptor())
	registry.Register(sheets.Descriptor())
	registry.Register(notion.Descriptor())
	registry.Register(webhook.Descriptor())

	return registry
}

// NewRendererRegistry registers the native export renderers.
func NewRendererRegistry(log *slog.Logger) *export.Registry {
	registry := export.NewRegistry(log)

	registry.Register(n8n.NewRenderer())
	registry.Register(zapier.NewRenderer())
	registry.Register(codegen.NewRenderer())
	registry.Register(jsonexport.NewRenderer())
	registry.Register(yamlexport.NewRenderer())

	return registry
}

// NewCollaborator selects the inference backend. When COLLABORATOR_URL is
// set replies come from that HTTP endpoint, otherwise the deterministic
// heuristic collaborator is used.
//
// nolint:ireturn // Callers depend on the interface, not the backend.
func NewCollaborator() collaborator.Collaborator {
	if endpoint := os.Getenv("COLLABORATOR_URL"); endpoint != "" {
		return httpapi.New(endpoint)
	}

	return heuristic.New()
}
