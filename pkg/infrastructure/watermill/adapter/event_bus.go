package adapter

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/buslinehq/busline/pkg/application"
	"github.com/buslinehq/busline/pkg/domain"
)

// WatermillEventBus publishes domain events to a message transport, one
// topic per event name, and delivers incoming messages to the handlers
// registered for that name. The transport (gochannel, redis streams,
// kafka) is whatever publisher/subscriber pair is passed in.
type WatermillEventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	handlers   map[string][]application.EventHandler
	mu         sync.RWMutex
	logger     application.AppLogger
}

func NewWatermillEventBus(publisher message.Publisher, subscriber message.Subscriber, logger application.AppLogger) *WatermillEventBus {
	return &WatermillEventBus{
		publisher:  publisher,
		subscriber: subscriber,
		handlers:   make(map[string][]application.EventHandler),
		logger:     logger,
	}
}

func (bus *WatermillEventBus) RegisterHandler(eventName string, handler application.EventHandler) {
	bus.mu.Lock()
	subscribed := len(bus.handlers[eventName]) > 0
	bus.handlers[eventName] = append(bus.handlers[eventName], handler)
	bus.mu.Unlock()

	if subscribed {
		return
	}

	go bus.consume(eventName)
}

func (bus *WatermillEventBus) consume(eventName string) {
	ctx := context.Background()
	messages, err := bus.subscriber.Subscribe(ctx, eventName)
	if err != nil {
		application.LogError(ctx, bus.logger, "error subscribing to event topic", err, map[string]interface{}{
			"event_name": eventName,
		})
		return
	}

	for msg := range messages {
		var payload any
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			application.LogError(ctx, bus.logger, "error unmarshalling event payload", err, map[string]interface{}{
				"event_name": eventName,
			})
			msg.Nack()
			continue
		}

		event := transportedEvent{name: eventName, payload: payload}

		bus.mu.RLock()
		handlers := bus.handlers[eventName]
		bus.mu.RUnlock()

		failed := false
		for _, handler := range handlers {
			if err := handler.Handle(msg.Context(), event); err != nil {
				application.LogError(ctx, bus.logger, "error handling event", err, map[string]interface{}{
					"event_name": eventName,
				})
				failed = true
			}
		}
		if failed {
			msg.Nack()
			continue
		}
		msg.Ack()
	}
}

func (bus *WatermillEventBus) Publish(ctx context.Context, event domain.Event) error {
	payload, err := application.MarshalPayload(event.Payload())
	if err != nil {
		application.LogError(ctx, bus.logger, "error marshalling event payload", err, map[string]interface{}{
			"event_name": event.EventName(),
		})
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	if err := bus.publisher.Publish(event.EventName(), msg); err != nil {
		application.LogError(ctx, bus.logger, "error publishing event", err, map[string]interface{}{
			"event_name": event.EventName(),
		})
		return err
	}

	application.LogInfo(ctx, bus.logger, "event published", map[string]interface{}{
		"event_name": event.EventName(),
	})
	return nil
}

// transportedEvent is an event rebuilt on the consuming side; its payload
// is whatever the JSON codec produced.
type transportedEvent struct {
	name    string
	payload any
}

func (e transportedEvent) EventName() string {
	return e.name
}

func (e transportedEvent) Payload() any {
	return e.payload
}
