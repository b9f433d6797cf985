// Package events defines the design-lifecycle notifications published by
// the pipeline.
package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/workflowwiz/wizard/pkg/models"
)

// Topic carries all design lifecycle events.
const Topic = "wizard.design.events"

const EventTypeMetadataKey = "event_type"

type EventType string

const (
	IntentExtractedEvent      EventType = "intent.extracted"
	WorkflowPlannedEvent      EventType = "workflow.planned"
	WorkflowRejectedEvent     EventType = "workflow.rejected"
	WorkflowAcceptedEvent     EventType = "workflow.accepted"
	WorkflowUnresolvableEvent EventType = "workflow.unresolvable"
	WorkflowExportedEvent     EventType = "workflow.exported"
)

// Event is implemented by every design lifecycle event.
type Event interface {
	GetType() EventType
}

type BaseEvent struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	WorkflowID string         `json:"workflow_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

func NewBaseEvent(eventType EventType, workflowID string) BaseEvent {
	return BaseEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		WorkflowID: workflowID,
	}
}

type IntentExtracted struct {
	BaseEvent

	Goal        string             `json:"goal"`
	TriggerType models.TriggerType `json:"trigger_type"`
}

func (e IntentExtracted) GetType() EventType { return IntentExtractedEvent }

type WorkflowPlanned struct {
	BaseEvent

	Revision int `json:"revision"`
	Nodes    int `json:"nodes"`
}

func (e WorkflowPlanned) GetType() EventType { return WorkflowPlannedEvent }

type WorkflowRejected struct {
	BaseEvent

	Revision   int                `json:"revision"`
	Violations []models.Violation `json:"violations"`
}

func (e WorkflowRejected) GetType() EventType { return WorkflowRejectedEvent }

type WorkflowAccepted struct {
	BaseEvent

	Revision int `json:"revision"`
}

func (e WorkflowAccepted) GetType() EventType { return WorkflowAcceptedEvent }

type WorkflowUnresolvable struct {
	BaseEvent

	Attempts   int                `json:"attempts"`
	Violations []models.Violation `json:"violations"`
}

func (e WorkflowUnresolvable) GetType() EventType { return WorkflowUnresolvableEvent }

type WorkflowExported struct {
	BaseEvent

	Target   string `json:"target"`
	Format   string `json:"format"`
	Checksum string `json:"checksum"`
}

func (e WorkflowExported) GetType() EventType { return WorkflowExportedEvent }
