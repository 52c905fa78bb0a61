package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type recordingHandler struct {
	eventTypes []string
	received   []shared.DomainEvent
	err        error
	panics     bool
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.received = append(h.received, event)
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.eventTypes
}

func newTestEvent(eventType string) shared.DomainEvent {
	e := shared.NewBaseDomainEvent(eventType, "purchase_order", uuid.New(), uuid.New())
	return &e
}

func TestInMemoryEventBus(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers events to matching handlers only", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		poHandler := &recordingHandler{eventTypes: []string{"purchase_order.confirmed"}}
		invHandler := &recordingHandler{eventTypes: []string{"invoice.paid"}}
		bus.Subscribe(poHandler)
		bus.Subscribe(invHandler)

		err := bus.Publish(ctx, newTestEvent("purchase_order.confirmed"))

		assert.NoError(t, err)
		assert.Len(t, poHandler.received, 1)
		assert.Empty(t, invHandler.received)
	})

	t.Run("wildcard handler receives everything", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		all := &recordingHandler{}
		bus.Subscribe(all)

		err := bus.Publish(ctx,
			newTestEvent("purchase_order.confirmed"),
			newTestEvent("invoice.paid"),
		)

		assert.NoError(t, err)
		assert.Len(t, all.received, 2)
	})

	t.Run("handler error does not stop other handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &recordingHandler{eventTypes: []string{"invoice.paid"}, err: errors.New("boom")}
		healthy := &recordingHandler{eventTypes: []string{"invoice.paid"}}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		err := bus.Publish(ctx, newTestEvent("invoice.paid"))

		assert.NoError(t, err)
		assert.Len(t, healthy.received, 1)
	})

	t.Run("handler panic is contained", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		panicking := &recordingHandler{eventTypes: []string{"invoice.paid"}, panics: true}
		healthy := &recordingHandler{eventTypes: []string{"invoice.paid"}}
		bus.Subscribe(panicking)
		bus.Subscribe(healthy)

		assert.NotPanics(t, func() {
			_ = bus.Publish(ctx, newTestEvent("invoice.paid"))
		})
		assert.Len(t, healthy.received, 1)
	})

	t.Run("unsubscribed handler stops receiving", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{eventTypes: []string{"invoice.paid"}}
		bus.Subscribe(handler)
		bus.Unsubscribe(handler)

		err := bus.Publish(ctx, newTestEvent("invoice.paid"))

		assert.NoError(t, err)
		assert.Empty(t, handler.received)
	})

	t.Run("explicit event types override the handler's own", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{eventTypes: []string{"invoice.paid"}}
		bus.Subscribe(handler, "purchase_order.confirmed")

		err := bus.Publish(ctx, newTestEvent("purchase_order.confirmed"))

		assert.NoError(t, err)
		assert.Len(t, handler.received, 1)
	})
}
