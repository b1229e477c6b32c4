package event

import (
	"context"
	"errors"
	"testing"

	"github.com/fieldsale/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	fail     bool
}

func (h *recordingHandler) Handle(_ context.Context, evt shared.DomainEvent) error {
	h.received = append(h.received, evt)
	if h.fail {
		return errors.New("handler failed")
	}
	return nil
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Batch", uuid.New()),
	}
}

func TestInMemoryEventBus(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers events to type-matched handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		matched := &recordingHandler{types: []string{"ledger.batch_received"}}
		other := &recordingHandler{types: []string{"trade.invoice_created"}}
		bus.Subscribe(matched)
		bus.Subscribe(other)

		require.NoError(t, bus.Publish(ctx, newTestEvent("ledger.batch_received")))

		assert.Len(t, matched.received, 1)
		assert.Empty(t, other.received)
	})

	t.Run("handler without types receives everything", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		audit := &recordingHandler{}
		bus.Subscribe(audit)

		require.NoError(t, bus.Publish(ctx,
			newTestEvent("ledger.batch_received"),
			newTestEvent("trade.delivery_settled"),
		))

		assert.Len(t, audit.received, 2)
	})

	t.Run("failing handler does not block other handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &recordingHandler{types: []string{"trade.return_approved"}, fail: true}
		healthy := &recordingHandler{types: []string{"trade.return_approved"}}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(ctx, newTestEvent("trade.return_approved")))

		assert.Len(t, failing.received, 1)
		assert.Len(t, healthy.received, 1)
	})

	t.Run("unsubscribed handler stops receiving", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		h := &recordingHandler{types: []string{"ledger.batch_received"}}
		bus.Subscribe(h)
		bus.Unsubscribe(h)

		require.NoError(t, bus.Publish(ctx, newTestEvent("ledger.batch_received")))

		assert.Empty(t, h.received)
	})
}
