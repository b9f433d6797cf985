// Package gmail provides the design-time descriptor for the Gmail
// integration.
package gmail

import "github.com/workflowwiz/wizard/pkg/models"

func Descriptor() *models.ToolDescriptor {
	return &models.ToolDescriptor{
		ID:          "gmail",
		Name:        "Gmail",
		Description: "Send and read email through the Gmail API",
		Capabilities: []models.Capability{
			{
				Action:      "send_email",
				Description: "Send an email message",
				Terminal:    true,
				Parameters: &models.JSONSchema{
					Type: "object",
					Properties: map[string]*models.Property{
						"to":      {Type: "string", Default: "me"},
						"subject": {Type: "string", Default: "Workflow notification"},
						"body":    {Type: "string", Default: "{{ .results }}"},
						"cc":      {Type: "array", Items: &models.Property{Type: "string"}},
						"bcc":     {Type: "array", Items: &models.Property{Type: "string"}},
					},
					Required: []string{"to", "subject", "body"},
				},
			},
			{
				Action:      "read_emails",
				Description: "Read messages matching a Gmail search query",
				Parameters: &models.JSONSchema{
					Type: "object",
					Properties: map[string]*models.Property{
						"query":       {Type: "string", Default: "is:unread"},
						"max_results": {Type: "integer", Default: 10},
					},
				},
			},
			{
				Action:      "get_labels",
				Description: "List all Gmail labels",
			},
		},
	}
}
