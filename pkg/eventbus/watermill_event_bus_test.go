package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltway/weaver/pkg/channels/gochannel"
	"github.com/voltway/weaver/pkg/events"
)

func newTestBus(t *testing.T) EventBus {
	t.Helper()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	return NewWatermillEventBus(pub, sub)
}

func TestWatermillEventBus_PublishAndHandle(t *testing.T) {
	bus := newTestBus(t)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan *events.WorkflowEnd, 1)

	err := bus.Handle(events.WorkflowEndEvent, func(_ context.Context, event any) error {
		end, ok := event.(*events.WorkflowEnd)
		if ok {
			received <- end
		}

		return nil
	})
	require.NoError(t, err)

	require.NoError(t, bus.Subscribe(ctx))

	err = bus.Publish(ctx, "run-1", events.WorkflowEnd{
		BaseEvent: events.NewBaseEvent(events.WorkflowEndEvent, "wf-1", "run-1"),
		Status:    "completed",
	})
	require.NoError(t, err)

	select {
	case end := <-received:
		assert.Equal(t, "run-1", end.RunID)
		assert.Equal(t, "wf-1", end.WorkflowID)
	case <-time.After(5 * time.Second):
		t.Fatal("event never reached the handler")
	}
}

func TestWatermillEventBus_UnhandledTypesAreAcked(t *testing.T) {
	bus := newTestBus(t)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, bus.Subscribe(ctx))

	// No handler registered for this type; publishing must not wedge the
	// subscription loop.
	err := bus.Publish(ctx, "run-1", events.WorkflowStart{
		BaseEvent: events.NewBaseEvent(events.WorkflowStartEvent, "wf-1", "run-1"),
	})
	require.NoError(t, err)
}

func TestWatermillEventBus_GenerateID(t *testing.T) {
	bus := newTestBus(t)
	defer bus.Close()

	a := bus.GenerateID()
	b := bus.GenerateID()

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestRelay_CopiesStreamToBus(t *testing.T) {
	bus := newTestBus(t)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan *events.NodeEnd, 4)

	err := bus.Handle(events.NodeEndEvent, func(_ context.Context, event any) error {
		if end, ok := event.(*events.NodeEnd); ok {
			received <- end
		}

		return nil
	})
	require.NoError(t, err)
	require.NoError(t, bus.Subscribe(ctx))

	stream := NewStream()
	stream.Publish(events.NodeEnd{
		BaseEvent: events.NewBaseEvent(events.NodeEndEvent, "wf-1", "run-1"),
		NodeID:    "n1",
	})
	stream.Close()

	require.NoError(t, Relay(ctx, bus, "run-1", stream))

	select {
	case end := <-received:
		assert.Equal(t, "n1", end.NodeID)
	case <-time.After(5 * time.Second):
		t.Fatal("relayed event never reached the handler")
	}
}
