package application

import (
	"context"

	"github.com/buslinehq/busline/pkg/domain"
)

// CommandHandler handles commands of one or more named kinds.
type CommandHandler interface {
	Handle(ctx context.Context, command domain.Command) error
}

// CommandBus routes commands to their registered handler.
type CommandBus interface {
	RegisterHandler(commandName string, handler CommandHandler)
	Dispatch(ctx context.Context, command domain.Command) error
}
