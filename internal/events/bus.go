package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Handler reacts to one event.
type Handler func(ctx context.Context, ev Event) error

// Bus routes events to the handlers registered for their kind.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Kind][]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Kind][]Handler)}
}

// On registers h for events of kind k. Handlers run in registration order.
func (b *Bus) On(k Kind, h Handler) {
	b.mu.Lock()
	b.handlers[k] = append(b.handlers[k], h)
	b.mu.Unlock()
}

// Handlers returns how many handlers are registered for k.
func (b *Bus) Handlers(k Kind) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[k])
}

// Dispatch runs the handlers for ev on the calling goroutine. Every handler
// runs even if an earlier one fails; their errors are joined.
func (b *Bus) Dispatch(ctx context.Context, ev Event) error {
	b.mu.RLock()
	hs := append([]Handler(nil), b.handlers[ev.Kind()]...)
	b.mu.RUnlock()

	if len(hs) == 0 {
		slog.Debug("Unhandled event", "kind", ev.Kind())
		return nil
	}

	var errs []error
	for _, h := range hs {
		if err := h(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
