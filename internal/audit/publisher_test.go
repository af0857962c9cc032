package audit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublisherSyncMode(t *testing.T) {
	store := NewInMemoryStore()
	pub := NewPublisher(store, discardLogger())
	defer pub.Close()

	err := pub.Emit(context.Background(), Event{
		Action:        ActionStageTransition,
		ApplicationID: "app-1",
		Stage:         "gov_verification",
		Status:        "completed",
	})
	require.NoError(t, err)

	events, err := pub.ListByApplication(context.Background(), "app-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, ActionStageTransition, events[0].Action)
	assert.NotZero(t, events[0].ID)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestPublisherAsyncDrainsOnClose(t *testing.T) {
	store := NewInMemoryStore()
	pub := NewPublisher(store, discardLogger(), WithAsyncBuffer(100))

	for i := 0; i < 10; i++ {
		err := pub.Emit(context.Background(), Event{
			Action:        ActionDocumentUploaded,
			ApplicationID: "app-1",
		})
		require.NoError(t, err)
	}

	pub.Close()

	events, err := store.ListByApplication(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Len(t, events, 10, "all buffered events should be drained on close")
}

type captureSink struct {
	events []Event
}

func (c *captureSink) Publish(_ context.Context, event Event) error {
	c.events = append(c.events, event)
	return nil
}

func TestPublisherForwardsToSinks(t *testing.T) {
	store := NewInMemoryStore()
	sink := &captureSink{}
	pub := NewPublisher(store, discardLogger(), WithSink(sink))
	defer pub.Close()

	err := pub.Emit(context.Background(), Event{
		Action:        ActionDecisionMade,
		ApplicationID: "app-1",
		Decision:      "approved",
	})
	require.NoError(t, err)

	require.Len(t, sink.events, 1)
	assert.Equal(t, "approved", sink.events[0].Decision)
}

func TestPublisherKeepsCallerTimestamp(t *testing.T) {
	store := NewInMemoryStore()
	pub := NewPublisher(store, discardLogger())
	defer pub.Close()

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	err := pub.Emit(context.Background(), Event{
		Action:        ActionApplicationInitiated,
		ApplicationID: "app-1",
		Timestamp:     at,
	})
	require.NoError(t, err)

	events, err := store.ListByApplication(context.Background(), "app-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, at, events[0].Timestamp)
}
