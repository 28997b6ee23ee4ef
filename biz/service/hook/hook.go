package hook

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Handler reacts to a fired event. Returning an error does not stop the
// remaining handlers.
type Handler func(ctx context.Context, name string, payload any) error

// Bus dispatches named events to registered handlers in registration order.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

func (b *Bus) Register(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

// Fire runs every handler for name and waits for all of them.
func (b *Bus) Fire(ctx context.Context, name string, payload any) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[name]...)
	b.mu.RUnlock()

	var errList []error
	for _, h := range handlers {
		if err := ctx.Err(); err != nil {
			errList = append(errList, err)
			break
		}
		if err := h(ctx, name, payload); err != nil {
			errList = append(errList, fmt.Errorf("hook %s: %w", name, err))
		}
	}
	return errors.Join(errList...)
}
