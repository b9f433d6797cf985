// Package notion provides the design-time descriptor for the Notion
// integration.
package notion

import "github.com/workflowwiz/wizard/pkg/models"

func Descriptor() *models.ToolDescriptor {
	return &models.ToolDescriptor{
		ID:          "notion",
		Name:        "Notion",
		Description: "Create pages and query databases in Notion",
		Capabilities: []models.Capability{
			{
				Action:      "create_page",
				Description: "Create a page in a database",
				Terminal:    true,
				Parameters: &models.JSONSchema{
					Type: "object",
					Properties: map[string]*models.Property{
						"database_id": {Type: "string", Default: "inbox"},
						"title":       {Type: "string", Default: "Untitled"},
						"properties":  {Type: "object"},
					},
					Required: []string{"database_id", "title"},
				},
			},
			{
				Action:      "query_database",
				Description: "Query pages from a database",
				Parameters: &models.JSONSchema{
					Type: "object",
					Properties: map[string]*models.Property{
						"database_id": {Type: "string", Default: "inbox"},
						"filter":      {Type: "object"},
					},
					Required: []string{"database_id"},
				},
			},
			{
				Action:      "append_block",
				Description: "Append content to an existing page",
				Terminal:    true,
				Parameters: &models.JSONSchema{
					Type: "object",
					Properties: map[string]*models.Property{
						"page_id": {Type: "string"},
						"content": {Type: "string", Default: ""},
					},
					Required: []string{"page_id", "content"},
				},
			},
		},
	}
}
