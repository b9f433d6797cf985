package models

// Capability is a single operation a tool integration offers at design time.
// Terminal capabilities may legitimately end a workflow branch (e.g. sending
// an email), so a node bound to one is not a dead end.
type Capability struct {
	Action      string      `json:"action"      validate:"required"`
	Description string      `json:"description"`
	Parameters  *JSONSchema `json:"parameters,omitempty"`
	Terminal    bool        `json:"terminal"`
}

// ToolDescriptor describes an external integration available to the planner.
// Actual tool invocation happens at workflow-execution time, outside this
// system; only the descriptor is consumed here.
type ToolDescriptor struct {
	ID           string       `json:"id"           validate:"required"`
	Name         string       `json:"name"         validate:"required"`
	Description  string       `json:"description"`
	Capabilities []Capability `json:"capabilities" validate:"required,min=1"`
}

// Capability returns the capability for the given action, if the tool
// offers it.
func (d *ToolDescriptor) Capability(action string) (*Capability, bool) {
	for i := range d.Capabilities {
		if d.Capabilities[i].Action == action {
			return &d.Capabilities[i], true
		}
	}

	return nil, false
}
