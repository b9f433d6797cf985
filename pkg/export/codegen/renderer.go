// Package codegen renders workflows as a runnable Python script skeleton.
package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/workflowwiz/wizard/pkg/models"
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) PlatformID() string { return "code" }

func (r *Renderer) Format() string { return "python" }

func (r *Renderer) Render(workflow *models.Workflow) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "\"\"\"\n%s\n%s\n\"\"\"\n\n", workflow.Name, workflow.Description)
	fmt.Fprintf(&b, "def run_workflow():\n")
	fmt.Fprintf(&b, "    \"\"\"Execute workflow\"\"\"\n")
	fmt.Fprintf(&b, "    print(%q)\n", "Starting workflow: "+workflow.Name)

	for _, node := range workflow.Nodes {
		if node.IsTriggerNode() {
			fmt.Fprintf(&b, "\n    # Trigger: %s (%s)\n", node.Name, node.Action)

			continue
		}

		fmt.Fprintf(&b, "\n    # %s: %s\n", node.ID, node.Name)
		fmt.Fprintf(&b, "    print(%q)\n", "Executing: "+node.Name)
		fmt.Fprintf(&b, "    # TODO: Implement %s - %s\n", node.Tool, node.Action)

		if len(node.Parameters) > 0 {
			fmt.Fprintf(&b, "    # Parameters: %s\n", renderParameters(node.Parameters))
		}
	}

	fmt.Fprintf(&b, "\n    print(\"Workflow completed!\")\n\n")
	fmt.Fprintf(&b, "if __name__ == \"__main__\":\n")
	fmt.Fprintf(&b, "    run_workflow()\n")

	return []byte(b.String()), nil
}

// renderParameters prints parameters in sorted key order so output stays
// deterministic.
func renderParameters(parameters map[string]any) string {
	keys := make([]string, 0, len(parameters))
	for k := range parameters {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, parameters[k]))
	}

	return strings.Join(parts, ", ")
}
