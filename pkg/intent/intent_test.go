package intent_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workflowwiz/wizard/pkg/collaborator/heuristic"
	"github.com/workflowwiz/wizard/pkg/intent"
	"github.com/workflowwiz/wizard/pkg/models"
)

type stubCollaborator struct {
	result map[string]any
	err    error
}

func (s *stubCollaborator) Infer(_ context.Context, _ string, _ *models.JSONSchema) (map[string]any, error) {
	return s.result, s.err
}

func TestStage_Parse_DailySummary(t *testing.T) {
	t.Parallel()

	stage := intent.NewStage(heuristic.New(), slog.Default())

	parsed, err := stage.Parse(context.Background(),
		"Send me a daily email summary of my Google Sheets tasks")
	require.NoError(t, err)

	assert.Equal(t, models.TriggerTypeSchedule, parsed.Trigger.Type)
	assert.Equal(t, "0 9 * * *", parsed.Trigger.Parameters["cron"])
	assert.Equal(t, []string{"gmail", "sheets"}, parsed.RequiredTools)
	assert.Equal(t, []string{"sheets"}, parsed.DataSources)
	assert.Equal(t, []string{"gmail"}, parsed.DataDestinations)
	assert.NotEmpty(t, parsed.Goal)
	assert.Equal(t, "Send me a daily email summary of my Google Sheets tasks", parsed.RawInput)
}

func TestStage_Parse_EmptyRequest(t *testing.T) {
	t.Parallel()

	stage := intent.NewStage(heuristic.New(), slog.Default())

	_, err := stage.Parse(context.Background(), "   ")
	require.Error(t, err)

	assert.True(t, intent.IsIntentError(err))
	assert.ErrorIs(t, err, intent.ErrEmptyRequest)
}

func TestStage_Parse_NonsenseRequest(t *testing.T) {
	t.Parallel()

	stage := intent.NewStage(heuristic.New(), slog.Default())

	_, err := stage.Parse(context.Background(), "purple monkey dishwasher")
	require.Error(t, err)

	assert.True(t, intent.IsIntentError(err))
	assert.ErrorIs(t, err, intent.ErrGoalUnextractable)
}

func TestStage_Parse_UnsupportedTrigger(t *testing.T) {
	t.Parallel()

	stub := &stubCollaborator{result: map[string]any{
		"goal":         "do something",
		"trigger_type": "cron",
	}}
	stage := intent.NewStage(stub, slog.Default())

	_, err := stage.Parse(context.Background(), "do something on a cron")
	require.Error(t, err)

	assert.True(t, intent.IsIntentError(err))
	assert.ErrorIs(t, err, intent.ErrUnsupportedTrigger)
}

func TestStage_Parse_SummaryFallsBackToGoal(t *testing.T) {
	t.Parallel()

	stub := &stubCollaborator{result: map[string]any{
		"goal":         "Track expenses",
		"trigger_type": "manual",
	}}
	stage := intent.NewStage(stub, slog.Default())

	parsed, err := stage.Parse(context.Background(), "Track expenses")
	require.NoError(t, err)

	assert.Equal(t, "Track expenses", parsed.Summary)
}
