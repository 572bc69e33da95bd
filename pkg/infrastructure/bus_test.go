package infrastructure

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buslinehq/busline/pkg/application"
	"github.com/buslinehq/busline/pkg/domain"
)

type stubCommand struct {
	name string
}

func (c stubCommand) CommandName() string { return c.name }

type stubQuery struct {
	name string
}

func (q stubQuery) QueryName() string { return q.name }

type stubEvent struct {
	name    string
	payload any
}

func (e stubEvent) EventName() string { return e.name }
func (e stubEvent) Payload() any      { return e.payload }

type commandHandlerFunc func(ctx context.Context, command domain.Command) error

func (f commandHandlerFunc) Handle(ctx context.Context, command domain.Command) error {
	return f(ctx, command)
}

type queryHandlerFunc func(ctx context.Context, query domain.Query) (any, error)

func (f queryHandlerFunc) Handle(ctx context.Context, query domain.Query) (any, error) {
	return f(ctx, query)
}

type eventHandlerFunc func(ctx context.Context, event domain.Event) error

func (f eventHandlerFunc) Handle(ctx context.Context, event domain.Event) error {
	return f(ctx, event)
}

func TestCommandBusDispatch(t *testing.T) {
	bus := NewSimpleCommandBus(application.NopLogger{})

	var handled int32
	bus.RegisterHandler("DoThing", commandHandlerFunc(func(ctx context.Context, command domain.Command) error {
		atomic.AddInt32(&handled, 1)
		return nil
	}))

	err := bus.Dispatch(context.Background(), stubCommand{name: "DoThing"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&handled))
}

func TestCommandBusDispatchUnregistered(t *testing.T) {
	bus := NewSimpleCommandBus(application.NopLogger{})

	err := bus.Dispatch(context.Background(), stubCommand{name: "Unknown"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no handler registered")
}

func TestCommandBusDispatchPropagatesError(t *testing.T) {
	bus := NewSimpleCommandBus(application.NopLogger{})

	want := errors.New("boom")
	bus.RegisterHandler("DoThing", commandHandlerFunc(func(ctx context.Context, command domain.Command) error {
		return want
	}))

	err := bus.Dispatch(context.Background(), stubCommand{name: "DoThing"})
	assert.ErrorIs(t, err, want)
}

func TestQueryBusDispatch(t *testing.T) {
	bus := NewSimpleQueryBus()

	bus.RegisterHandler("FindThing", queryHandlerFunc(func(ctx context.Context, query domain.Query) (any, error) {
		return []string{"a", "b"}, nil
	}))

	result, err := DispatchQuery[[]string](context.Background(), bus, stubQuery{name: "FindThing"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, result)
}

func TestQueryBusDispatchWrongResultType(t *testing.T) {
	bus := NewSimpleQueryBus()

	bus.RegisterHandler("FindThing", queryHandlerFunc(func(ctx context.Context, query domain.Query) (any, error) {
		return 42, nil
	}))

	_, err := DispatchQuery[string](context.Background(), bus, stubQuery{name: "FindThing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected type")
}

func TestQueryBusDispatchContextCancelled(t *testing.T) {
	bus := NewSimpleQueryBus()

	blocked := make(chan struct{})
	bus.RegisterHandler("FindThing", queryHandlerFunc(func(ctx context.Context, query domain.Query) (any, error) {
		<-blocked
		return nil, nil
	}))
	defer close(blocked)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := bus.Dispatch(ctx, stubQuery{name: "FindThing"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEventBusFanOut(t *testing.T) {
	bus := NewSimpleEventBus(application.NopLogger{})

	var handled int32
	handler := eventHandlerFunc(func(ctx context.Context, event domain.Event) error {
		atomic.AddInt32(&handled, 1)
		return nil
	})
	bus.RegisterHandler("ThingHappened", handler)
	bus.RegisterHandler("ThingHappened", handler)

	err := bus.Publish(context.Background(), stubEvent{name: "ThingHappened"})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&handled))
}

func TestEventBusNoSubscribersIsNotAnError(t *testing.T) {
	bus := NewSimpleEventBus(application.NopLogger{})

	err := bus.Publish(context.Background(), stubEvent{name: "Unheard"})
	assert.NoError(t, err)
}

func TestEventBusCollectsHandlerFailures(t *testing.T) {
	bus := NewSimpleEventBus(application.NopLogger{})

	bus.RegisterHandler("ThingHappened", eventHandlerFunc(func(ctx context.Context, event domain.Event) error {
		return nil
	}))
	bus.RegisterHandler("ThingHappened", eventHandlerFunc(func(ctx context.Context, event domain.Event) error {
		return errors.New("subscriber broke")
	}))

	err := bus.Publish(context.Background(), stubEvent{name: "ThingHappened"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 handler(s) failed")
}
