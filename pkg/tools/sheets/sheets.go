// Package sheets provides the design-time descriptor for the Google Sheets
// integration.
package sheets

import "github.com/workflowwiz/wizard/pkg/models"

func Descriptor() *models.ToolDescriptor {
	return &models.ToolDescriptor{
		ID:          "sheets",
		Name:        "Google Sheets",
		Description: "Read and write spreadsheet data",
		Capabilities: []models.Capability{
			{
				Action:      "read_rows",
				Description: "Read rows from a spreadsheet range",
				Parameters: &models.JSONSchema{
					Type: "object",
					Properties: map[string]*models.Property{
						"spreadsheet_id": {Type: "string", Default: "primary"},
						"range":          {Type: "string", Default: "A1:Z100"},
					},
					Required: []string{"spreadsheet_id", "range"},
				},
			},
			{
				Action:      "append_row",
				Description: "Append a row to a spreadsheet",
				Terminal:    true,
				Parameters: &models.JSONSchema{
					Type: "object",
					Properties: map[string]*models.Property{
						"spreadsheet_id": {Type: "string", Default: "primary"},
						"values":         {Type: "array", Items: &models.Property{Type: "string"}, Default: []any{}},
					},
					Required: []string{"spreadsheet_id", "values"},
				},
			},
			{
				Action:      "update_cell",
				Description: "Update a single cell",
				Terminal:    true,
				Parameters: &models.JSONSchema{
					Type: "object",
					Properties: map[string]*models.Property{
						"spreadsheet_id": {Type: "string", Default: "primary"},
						"cell":           {Type: "string"},
						"value":          {Type: "string"},
					},
					Required: []string{"spreadsheet_id", "cell", "value"},
				},
			},
		},
	}
}
