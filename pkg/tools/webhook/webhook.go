// Package webhook provides the design-time descriptor for generic HTTP
// webhook calls.
package webhook

import "github.com/workflowwiz/wizard/pkg/models"

func Descriptor() *models.ToolDescriptor {
	return &models.ToolDescriptor{
		ID:          "webhook",
		Name:        "Webhooks",
		Description: "Call external HTTP endpoints",
		Capabilities: []models.Capability{
			{
				Action:      "post",
				Description: "Send a POST request to a URL",
				Terminal:    true,
				Parameters: &models.JSONSchema{
					Type: "object",
					Properties: map[string]*models.Property{
						// No sensible default exists for the target URL; a
						// plan that cannot provide one stays invalid.
						"url":     {Type: "string", Format: "uri"},
						"payload": {Type: "object"},
						"headers": {Type: "object"},
					},
					Required: []string{"url"},
				},
			},
			{
				Action:      "get",
				Description: "Send a GET request to a URL",
				Parameters: &models.JSONSchema{
					Type: "object",
					Properties: map[string]*models.Property{
						"url":     {Type: "string", Format: "uri"},
						"headers": {Type: "object"},
					},
					Required: []string{"url"},
				},
			},
		},
	}
}
