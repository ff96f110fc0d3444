package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/nandanugg/silentzone/module/core/domain"
	"github.com/nandanugg/silentzone/module/core/exchange"
	"github.com/nandanugg/silentzone/module/core/internal/repository/publisher"
)

var _ publisher.TransitionPublisher = (*TransitionPublisher)(nil)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type TransitionPublisher struct {
	ch channel
}

func NewTransitionPublisher(conn *amqp.Connection) (*TransitionPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if err := exchange.Declare(ch); err != nil {
		return nil, err
	}
	return &TransitionPublisher{ch: ch}, nil
}

type transitionMessage struct {
	ID        string                 `json:"id"`
	DeviceID  string                 `json:"device_id"`
	Event     domain.TransitionEvent `json:"event"`
	Zone      zoneBody               `json:"zone"`
	Location  locationBody           `json:"location"`
	Distance  float64                `json:"distance_m"`
	Commanded bool                   `json:"commanded"`
	Timestamp int64                  `json:"timestamp"`
}

type zoneBody struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
}

type locationBody struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (p *TransitionPublisher) PublishTransition(ctx context.Context, t *domain.ZoneTransition) error {
	msg := transitionMessage{
		ID:       t.ID,
		DeviceID: t.DeviceID,
		Event:    t.Event,
		Zone: zoneBody{
			Latitude:  t.Zone.Lat,
			Longitude: t.Zone.Lon,
			Name:      t.Zone.Name,
		},
		Location: locationBody{
			Latitude:  t.Sample.Lat,
			Longitude: t.Sample.Lon,
		},
		Distance:  t.Distance,
		Commanded: t.Commanded,
		Timestamp: t.Timestamp.Unix(),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal transition: %w", err)
	}

	return p.ch.PublishWithContext(ctx, exchange.Transitions, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		MessageId:   t.ID,
		Timestamp:   t.Timestamp,
		Body:        body,
	})
}
