package application

import (
	"context"

	"github.com/buslinehq/busline/pkg/domain"
)

type EventHandler interface {
	Handle(ctx context.Context, event domain.Event) error
}

type EventBus interface {
	RegisterHandler(eventName string, handler EventHandler)
	Publish(ctx context.Context, event domain.Event) error
}
