package eventbus_test

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workflowwiz/wizard/pkg/channels/gochannel"
	"github.com/workflowwiz/wizard/pkg/eventbus"
	"github.com/workflowwiz/wizard/pkg/events"
)

func testBus(t *testing.T) *eventbus.WatermillEventBus {
	t.Helper()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	return eventbus.NewWatermillEventBus(pub, sub)
}

func TestWatermillEventBus_PublishSubscribe(t *testing.T) {
	t.Parallel()

	bus := testBus(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	received := make(chan events.Event, 1)

	err := bus.Subscribe(ctx, func(_ context.Context, event events.Event) error {
		received <- event

		return nil
	})
	require.NoError(t, err)

	published := events.WorkflowAccepted{
		BaseEvent: events.NewBaseEvent(events.WorkflowAcceptedEvent, "wf-1"),
		Revision:  2,
	}
	require.NoError(t, bus.Publish(ctx, published))

	select {
	case event := <-received:
		accepted, ok := event.(*events.WorkflowAccepted)
		require.True(t, ok)
		assert.Equal(t, "wf-1", accepted.WorkflowID)
		assert.Equal(t, 2, accepted.Revision)
		assert.Equal(t, events.WorkflowAcceptedEvent, accepted.GetType())
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	}
}

func TestWatermillEventBus_DecodesByMetadataType(t *testing.T) {
	t.Parallel()

	bus := testBus(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	received := make(chan events.Event, 2)

	err := bus.Subscribe(ctx, func(_ context.Context, event events.Event) error {
		received <- event

		return nil
	})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, events.WorkflowExported{
		BaseEvent: events.NewBaseEvent(events.WorkflowExportedEvent, "wf-1"),
		Target:    "n8n",
		Format:    "json",
	}))

	select {
	case event := <-received:
		exported, ok := event.(*events.WorkflowExported)
		require.True(t, ok)
		assert.Equal(t, "n8n", exported.Target)
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	}
}
