package infrastructure

import (
	"context"
	"fmt"
	"sync"

	"github.com/buslinehq/busline/pkg/application"
	"github.com/buslinehq/busline/pkg/domain"
)

type simpleQueryBus struct {
	handlers map[string]application.QueryHandler
	mu       sync.RWMutex
}

func NewSimpleQueryBus() application.QueryBus {
	return &simpleQueryBus{
		handlers: make(map[string]application.QueryHandler),
	}
}

func (bus *simpleQueryBus) RegisterHandler(queryName string, handler application.QueryHandler) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.handlers[queryName] = handler
}

func (bus *simpleQueryBus) Dispatch(ctx context.Context, query domain.Query) (any, error) {
	bus.mu.RLock()
	handler, found := bus.handlers[query.QueryName()]
	bus.mu.RUnlock()

	if !found {
		return nil, fmt.Errorf("no handler registered for query %q", query.QueryName())
	}

	resultChan := make(chan any, 1)
	errChan := make(chan error, 1)

	go func() {
		result, err := handler.Handle(ctx, query)
		if err != nil {
			errChan <- err
			return
		}
		resultChan <- result
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-resultChan:
		return result, nil
	case err := <-errChan:
		return nil, err
	}
}

// DispatchQuery dispatches the query and asserts the result to R.
func DispatchQuery[R any](ctx context.Context, bus application.QueryBus, query domain.Query) (R, error) {
	var zero R
	result, err := bus.Dispatch(ctx, query)
	if err != nil {
		return zero, err
	}
	typed, ok := result.(R)
	if !ok {
		return zero, fmt.Errorf("query %q returned unexpected type %T", query.QueryName(), result)
	}
	return typed, nil
}
