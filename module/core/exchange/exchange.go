// Package exchange names the RabbitMQ topology zone transitions travel on.
package exchange

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	Transitions     = "silentzone.events"
	TransitionQueue = "zone_transitions"
)

type declarer interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
}

// Declare declares the fanout exchange and the durable transitions queue
// bound to it. It is idempotent; the server and the listener both call it.
func Declare(ch declarer) error {
	if err := ch.ExchangeDeclare(Transitions, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(TransitionQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(TransitionQueue, "", Transitions, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}
