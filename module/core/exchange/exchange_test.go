package exchange

import (
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
)

type fakeDeclarer struct {
	exchange, kind     string
	queue              string
	boundQueue, boundX string
	durableX, durableQ bool
	queueErr           error
}

func (f *fakeDeclarer) ExchangeDeclare(name, kind string, durable, _, _, _ bool, _ amqp.Table) error {
	f.exchange, f.kind, f.durableX = name, kind, durable
	return nil
}

func (f *fakeDeclarer) QueueDeclare(name string, durable, _, _, _ bool, _ amqp.Table) (amqp.Queue, error) {
	f.queue, f.durableQ = name, durable
	return amqp.Queue{Name: name}, f.queueErr
}

func (f *fakeDeclarer) QueueBind(name, _, exchange string, _ bool, _ amqp.Table) error {
	f.boundQueue, f.boundX = name, exchange
	return nil
}

func TestDeclare(t *testing.T) {
	ch := &fakeDeclarer{}
	if err := Declare(ch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ch.exchange != "silentzone.events" || ch.kind != "fanout" || !ch.durableX {
		t.Errorf("unexpected exchange %s kind=%s durable=%v", ch.exchange, ch.kind, ch.durableX)
	}
	if ch.queue != "zone_transitions" || !ch.durableQ {
		t.Errorf("unexpected queue %s durable=%v", ch.queue, ch.durableQ)
	}
	if ch.boundQueue != TransitionQueue || ch.boundX != Transitions {
		t.Errorf("unexpected binding %s -> %s", ch.boundQueue, ch.boundX)
	}
}

func TestDeclare_QueueError(t *testing.T) {
	ch := &fakeDeclarer{queueErr: errors.New("access refused")}
	if err := Declare(ch); err == nil {
		t.Fatal("expected error")
	}
	if ch.boundQueue != "" {
		t.Error("queue should not be bound after a declare failure")
	}
}
