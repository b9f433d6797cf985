// Package models defines the core domain models for workflow design.
package models

// TriggerType classifies how a designed workflow is started.
type TriggerType string

const (
	TriggerTypeSchedule TriggerType = "schedule" // Time-based (cron) start
	TriggerTypeEvent    TriggerType = "event"    // Started by an external event
	TriggerTypeManual   TriggerType = "manual"   // Started explicitly by a user
)

// Trigger describes when a workflow should run.
type Trigger struct {
	Type       TriggerType    `json:"type"                 validate:"required,oneof=schedule event manual"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// Intent is the structured interpretation of a natural-language automation
// request. It is created once per request and never mutated afterwards.
type Intent struct {
	Goal             string   `json:"goal"                        validate:"required"`
	Summary          string   `json:"summary"`
	Trigger          Trigger  `json:"trigger"`
	Constraints      []string `json:"constraints,omitempty"`
	DataSources      []string `json:"data_sources,omitempty"`
	DataDestinations []string `json:"data_destinations,omitempty"`
	RequiredTools    []string `json:"required_tools,omitempty"`
	RawInput         string   `json:"raw_input"`
}
