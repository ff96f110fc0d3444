package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nandanugg/silentzone/module/core/domain"
	"github.com/nandanugg/silentzone/module/core/internal/repository/actuator"
	"github.com/nandanugg/silentzone/module/core/topic"
)

var _ actuator.RingerActuator = (*RingerActuator)(nil)

const publishTimeout = 5 * time.Second

type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token
}

// RingerActuator sends ringer commands to the device over MQTT with QoS 1.
type RingerActuator struct {
	client  publisher
	topic   string
	timeout time.Duration
}

func NewRingerActuator(client pahomqtt.Client, deviceID string) *RingerActuator {
	return &RingerActuator{client: client, topic: topic.Ringer(deviceID), timeout: publishTimeout}
}

type ringerMessage struct {
	Mode     domain.RingerMode `json:"mode"`
	IssuedAt int64             `json:"issued_at"`
}

func (a *RingerActuator) SetRingerMode(ctx context.Context, cmd *domain.RingerCommand) error {
	payload, err := json.Marshal(ringerMessage{Mode: cmd.Mode, IssuedAt: cmd.IssuedAt.Unix()})
	if err != nil {
		return fmt.Errorf("marshal ringer command: %w", err)
	}

	timeout := a.timeout
	if timeout <= 0 {
		timeout = publishTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	token := a.client.Publish(a.topic, 1, false, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("publish ringer command: timed out after %s", timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish ringer command: %w", err)
	}
	return nil
}
