package infrastructure

import (
	"context"
	"fmt"
	"sync"

	"github.com/buslinehq/busline/pkg/application"
	"github.com/buslinehq/busline/pkg/domain"
)

// simpleEventBus fans events out to registered handlers in goroutines.
type simpleEventBus struct {
	handlers map[string][]application.EventHandler
	mu       sync.RWMutex
	logger   application.AppLogger
}

func NewSimpleEventBus(logger application.AppLogger) application.EventBus {
	return &simpleEventBus{
		handlers: make(map[string][]application.EventHandler),
		logger:   logger,
	}
}

func (bus *simpleEventBus) RegisterHandler(eventName string, handler application.EventHandler) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.handlers[eventName] = append(bus.handlers[eventName], handler)
}

func (bus *simpleEventBus) Publish(ctx context.Context, event domain.Event) error {
	bus.mu.RLock()
	handlers, found := bus.handlers[event.EventName()]
	bus.mu.RUnlock()

	if !found {
		// no subscribers is not an error
		bus.logger.Debug(ctx, "no handler registered for event", map[string]interface{}{
			"event_name": event.EventName(),
		})
		return nil
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(handlers))

	for _, handler := range handlers {
		wg.Add(1)
		go func(h application.EventHandler) {
			defer wg.Done()
			if err := h.Handle(ctx, event); err != nil {
				errChan <- err
			}
		}(handler)
	}

	wg.Wait()
	close(errChan)

	var errs []error
	for err := range errChan {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		application.LogError(ctx, bus.logger, "event handlers failed", errs[0], map[string]interface{}{
			"event_name": event.EventName(),
			"failures":   len(errs),
		})
		return fmt.Errorf("event %q: %d handler(s) failed: %v", event.EventName(), len(errs), errs)
	}
	return nil
}
