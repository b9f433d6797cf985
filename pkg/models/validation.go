package models

// Severity grades a validation violation.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ViolationCode identifies the rule a workflow graph broke.
type ViolationCode string

// Structural violation codes.
const (
	ViolationNoTrigger        ViolationCode = "no_trigger"
	ViolationMultipleTriggers ViolationCode = "multiple_triggers"
	ViolationUnknownEndpoint  ViolationCode = "unknown_endpoint"
	ViolationCycle            ViolationCode = "cycle"
	ViolationUnreachable      ViolationCode = "unreachable_node"
)

// Semantic violation codes.
const (
	ViolationUnknownTool      ViolationCode = "unknown_tool"
	ViolationUnknownAction    ViolationCode = "unknown_action"
	ViolationMissingParameter ViolationCode = "missing_parameter"
	ViolationInvalidParameter ViolationCode = "invalid_parameter"
	ViolationInvalidSchedule  ViolationCode = "invalid_schedule"
	ViolationDeadEnd          ViolationCode = "dead_end"
)

// Violation describes a single defect found during validation. NodeID is
// empty for graph-wide violations; EdgeIndex is >= 0 only for edge defects.
type Violation struct {
	Code      ViolationCode `json:"code"`
	NodeID    string        `json:"node_id,omitempty"`
	EdgeIndex int           `json:"edge_index"`
	Message   string        `json:"message"`
	Severity  Severity      `json:"severity"`
}

// ValidationResult is the outcome of a validator pass: either accepted, or
// rejected with the ordered list of violations that drove the rejection.
type ValidationResult struct {
	Accepted   bool        `json:"accepted"`
	Violations []Violation `json:"violations,omitempty"`
}

// AcceptedResult returns a violation-free accepted result.
func AcceptedResult() ValidationResult {
	return ValidationResult{Accepted: true}
}

// RejectedResult wraps the given violations in a rejected result.
func RejectedResult(violations []Violation) ValidationResult {
	return ValidationResult{Accepted: false, Violations: violations}
}
