package models

import "time"

// WorkflowStatus represents the lifecycle state of a designed workflow.
type WorkflowStatus string

const (
	WorkflowStatusDraft    WorkflowStatus = "draft"    // Produced by the planner, not yet validated
	WorkflowStatusAccepted WorkflowStatus = "accepted" // Passed validation, exportable
	WorkflowStatusExported WorkflowStatus = "exported" // At least one artifact was rendered
)

// Workflow is the intermediate representation of an automation: a directed
// graph rooted at exactly one trigger node. Repair cycles never mutate a
// workflow in place; each cycle produces a new value with Revision+1.
type Workflow struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"        validate:"required,min=3"`
	Description string          `json:"description"`
	Status      WorkflowStatus  `json:"status"      validate:"required"`
	Revision    int             `json:"revision"`
	Nodes       []*WorkflowNode `json:"nodes"`
	Edges       []*Edge         `json:"edges"`
	Metadata    map[string]any  `json:"metadata,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Node returns the node with the given id, or nil.
func (w *Workflow) Node(id string) *WorkflowNode {
	for _, n := range w.Nodes {
		if n != nil && n.ID == id {
			return n
		}
	}

	return nil
}

func (w *Workflow) IsAccepted() bool {
	return w.Status == WorkflowStatusAccepted || w.Status == WorkflowStatusExported
}

// Clone returns a deep copy of the workflow. Repair passes operate on clones
// so that every planning attempt stays auditable.
func (w *Workflow) Clone() *Workflow {
	clone := *w

	clone.Nodes = make([]*WorkflowNode, 0, len(w.Nodes))

	for _, n := range w.Nodes {
		if n == nil {
			continue
		}

		nodeCopy := *n
		nodeCopy.Parameters = copyMap(n.Parameters)
		clone.Nodes = append(clone.Nodes, &nodeCopy)
	}

	clone.Edges = make([]*Edge, 0, len(w.Edges))

	for _, e := range w.Edges {
		if e == nil {
			continue
		}

		edgeCopy := *e
		clone.Edges = append(clone.Edges, &edgeCopy)
	}

	clone.Metadata = copyMap(w.Metadata)

	return &clone
}

func copyMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}

	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}

	return dst
}
