package eventbus

import "context"

// Publisher delivers outbox messages to a broker. The routing key follows the
// context.aggregate.event convention, e.g. "membership.member.renewed".
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}
