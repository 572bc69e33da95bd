package infrastructure

import (
	"context"
	"fmt"
	"sync"

	"github.com/buslinehq/busline/pkg/application"
	"github.com/buslinehq/busline/pkg/domain"
)

type simpleCommandBus struct {
	handlers map[string]application.CommandHandler
	mu       sync.RWMutex
	logger   application.AppLogger
}

func NewSimpleCommandBus(logger application.AppLogger) application.CommandBus {
	return &simpleCommandBus{
		handlers: make(map[string]application.CommandHandler),
		logger:   logger,
	}
}

func (bus *simpleCommandBus) RegisterHandler(commandName string, handler application.CommandHandler) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.handlers[commandName] = handler
}

func (bus *simpleCommandBus) Dispatch(ctx context.Context, command domain.Command) error {
	bus.mu.RLock()
	handler, found := bus.handlers[command.CommandName()]
	bus.mu.RUnlock()

	if !found {
		return fmt.Errorf("no handler registered for command %q", command.CommandName())
	}

	if err := handler.Handle(ctx, command); err != nil {
		application.LogError(ctx, bus.logger, "command failed", err, map[string]interface{}{
			"command_name": command.CommandName(),
		})
		return err
	}
	return nil
}
