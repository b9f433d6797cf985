// Package intent maps free-text automation requests to structured intents.
package intent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/workflowwiz/wizard/pkg/collaborator"
	"github.com/workflowwiz/wizard/pkg/models"
)

// Failure reasons surfaced by the intent stage.
var (
	ErrEmptyRequest       = errors.New("request is empty")
	ErrGoalUnextractable  = errors.New("no automation goal could be extracted")
	ErrUnsupportedTrigger = errors.New("unsupported trigger type")
)

// Error marks a request that could not be mapped to an intent.
type Error struct {
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("intent analysis failed: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsIntentError reports whether err came from the intent stage.
func IsIntentError(err error) bool {
	var target *Error

	return errors.As(err, &target)
}

// Stage extracts an Intent from a natural-language request by delegating to
// the language-understanding collaborator. The stage itself is stateless and
// safe for concurrent use.
type Stage struct {
	collab collaborator.Collaborator
	logger *slog.Logger
}

func NewStage(collab collaborator.Collaborator, logger *slog.Logger) *Stage {
	return &Stage{
		collab: collab,
		logger: logger.With("stage", "intent"),
	}
}

const promptInstructions = `You analyze workflow automation requests.
Extract the primary goal, the trigger (schedule, event or manual, with
parameters such as a cron expression), the data sources and destinations,
the required tool integrations and any constraints. Answer with a single
JSON object matching the provided schema.`

// Parse extracts the goal, trigger and constraints of a request. The
// returned Intent is immutable; callers must not modify it.
func (s *Stage) Parse(ctx context.Context, request string) (*models.Intent, error) {
	request = strings.TrimSpace(request)
	if request == "" {
		return nil, &Error{Err: ErrEmptyRequest}
	}

	prompt := promptInstructions + "\n\n" + collaborator.RequestSection + "\n" + request

	raw, err := collaborator.Infer(ctx, s.collab, prompt, Schema())
	if err != nil {
		return nil, &Error{Err: err}
	}

	parsed, err := decode(raw)
	if err != nil {
		return nil, &Error{Err: err}
	}

	if strings.TrimSpace(parsed.Goal) == "" {
		return nil, &Error{Err: ErrGoalUnextractable}
	}

	triggerType := models.TriggerType(parsed.TriggerType)
	switch triggerType {
	case models.TriggerTypeSchedule, models.TriggerTypeEvent, models.TriggerTypeManual:
	default:
		return nil, &Error{Err: fmt.Errorf("%w: %q", ErrUnsupportedTrigger, parsed.TriggerType)}
	}

	result := &models.Intent{
		Goal:    strings.TrimSpace(parsed.Goal),
		Summary: strings.TrimSpace(parsed.Summary),
		Trigger: models.Trigger{
			Type:       triggerType,
			Parameters: parsed.TriggerParameters,
		},
		Constraints:      parsed.Constraints,
		DataSources:      parsed.DataSources,
		DataDestinations: parsed.DataDestinations,
		RequiredTools:    parsed.RequiredTools,
		RawInput:         request,
	}

	if result.Summary == "" {
		result.Summary = result.Goal
	}

	s.logger.Debug("Extracted intent",
		"trigger", result.Trigger.Type,
		"tools", result.RequiredTools,
	)

	return result, nil
}

// response mirrors the collaborator's JSON answer.
type response struct {
	Goal              string         `json:"goal"`
	Summary           string         `json:"summary"`
	TriggerType       string         `json:"trigger_type"`
	TriggerParameters map[string]any `json:"trigger_parameters"`
	Constraints       []string       `json:"constraints"`
	DataSources       []string       `json:"data_sources"`
	DataDestinations  []string       `json:"data_destinations"`
	RequiredTools     []string       `json:"required_tools"`
}

func decode(raw map[string]any) (*response, error) {
	payload, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}

	var parsed response
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", collaborator.ErrMalformedResponse, err)
	}

	return &parsed, nil
}

// Schema describes the JSON shape the collaborator must answer with.
func Schema() *models.JSONSchema {
	return &models.JSONSchema{
		Title: "intent",
		Type:  "object",
		Properties: map[string]*models.Property{
			"goal":               {Type: "string"},
			"summary":            {Type: "string"},
			"trigger_type":       {Type: "string", Enum: []any{"schedule", "event", "manual"}},
			"trigger_parameters": {Type: "object"},
			"constraints":        {Type: "array", Items: &models.Property{Type: "string"}},
			"data_sources":       {Type: "array", Items: &models.Property{Type: "string"}},
			"data_destinations":  {Type: "array", Items: &models.Property{Type: "string"}},
			"required_tools":     {Type: "array", Items: &models.Property{Type: "string"}},
		},
		Required: []string{"goal", "trigger_type"},
	}
}
