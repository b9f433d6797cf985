package models

// NodeKind classifies a node's role in the workflow graph.
type NodeKind string

const (
	NodeKindTrigger   NodeKind = "trigger"
	NodeKindAction    NodeKind = "action"
	NodeKindCondition NodeKind = "condition"
	NodeKindTransform NodeKind = "transform"
)

// ToolNone marks nodes that are not bound to an external integration.
const ToolNone = "none"

// WorkflowNode is a single step in a designed workflow. Node IDs are assigned
// by the planner and stay stable across validator repair passes.
type WorkflowNode struct {
	ID             string         `json:"id"                   validate:"required"`
	Kind           NodeKind       `json:"kind"                 validate:"required,oneof=trigger action condition transform"`
	Name           string         `json:"name"                 validate:"required,min=1"`
	Tool           string         `json:"tool"                 validate:"required"`
	Action         string         `json:"action,omitempty"`
	Parameters     map[string]any `json:"parameters,omitempty"`
	RetriesAllowed bool           `json:"retries_allowed"`
}

func (n *WorkflowNode) IsTriggerNode() bool {
	return n.Kind == NodeKindTrigger
}

// Edge is a directed data-flow connection between two nodes. Condition holds
// an optional predicate that gates traversal at execution time.
type Edge struct {
	From      string `json:"from"                validate:"required"`
	To        string `json:"to"                  validate:"required"`
	Condition string `json:"condition,omitempty"`
}
