package eventbus

import (
	"context"
	"log/slog"
	"sync"
)

// Subscriber receives published payloads for a routing key.
type Subscriber func(routingKey string, payload []byte)

// InProcessBus is an in-memory publisher for tests and single-process setups.
type InProcessBus struct {
	mu          sync.RWMutex
	subscribers []Subscriber
	published   []PublishedMessage
	logger      *slog.Logger
}

// PublishedMessage records a message that passed through the bus.
type PublishedMessage struct {
	RoutingKey string
	Payload    []byte
}

// NewInProcessBus creates an in-process event bus.
func NewInProcessBus(logger *slog.Logger) *InProcessBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessBus{logger: logger}
}

// Subscribe registers a subscriber for all published messages.
func (b *InProcessBus) Subscribe(fn Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

// Publish delivers the payload to all subscribers synchronously.
func (b *InProcessBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	b.mu.Lock()
	b.published = append(b.published, PublishedMessage{RoutingKey: routingKey, Payload: payload})
	subs := make([]Subscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.Unlock()

	for _, fn := range subs {
		fn(routingKey, payload)
	}

	b.logger.Debug("message published in-process", "routing_key", routingKey)
	return nil
}

// Published returns all messages seen by the bus.
func (b *InProcessBus) Published() []PublishedMessage {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]PublishedMessage, len(b.published))
	copy(out, b.published)
	return out
}

// Close is a no-op for the in-process bus.
func (b *InProcessBus) Close() error {
	return nil
}
