package subscriber

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/nandanugg/silentzone/module/core/domain"
	"github.com/nandanugg/silentzone/module/core/topic"
)

type locationRecorder interface {
	Record(s domain.LocationSample)
}

type accessSetter interface {
	SetGranted(granted bool)
}

type locationMessage struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Timestamp int64    `json:"timestamp"`
}

type dndMessage struct {
	Granted bool `json:"granted"`
}

// DeviceSubscriber feeds one device's MQTT location and DND topics into the
// tracker, the access flag and the monitor's sample queue.
type DeviceSubscriber struct {
	client   mqtt.Client
	deviceID string
	tracker  locationRecorder
	access   accessSetter
	samples  chan<- domain.LocationSample
	logger   *zap.Logger
	now      func() time.Time

	ctx context.Context
}

func NewDeviceSubscriber(client mqtt.Client, deviceID string, tracker locationRecorder, access accessSetter, samples chan<- domain.LocationSample, logger *zap.Logger) *DeviceSubscriber {
	return &DeviceSubscriber{
		client:   client,
		deviceID: deviceID,
		tracker:  tracker,
		access:   access,
		samples:  samples,
		logger:   logger.With(zap.String("device_id", deviceID)),
		now:      time.Now,
		ctx:      context.Background(),
	}
}

// Start subscribes to the device topics. Enqueueing a sample blocks while the
// queue is full, until ctx is cancelled.
func (s *DeviceSubscriber) Start(ctx context.Context) error {
	s.ctx = ctx

	token := s.client.SubscribeMultiple(map[string]byte{
		topic.Location(s.deviceID): 1,
		topic.DND(s.deviceID):      1,
	}, s.route)
	token.Wait()
	return token.Error()
}

func (s *DeviceSubscriber) route(c mqtt.Client, msg mqtt.Message) {
	switch msg.Topic() {
	case topic.Location(s.deviceID):
		s.handleLocation(c, msg)
	case topic.DND(s.deviceID):
		s.handleDND(c, msg)
	default:
		s.logger.Warn("unexpected topic", zap.String("topic", msg.Topic()))
	}
}

func (s *DeviceSubscriber) handleLocation(_ mqtt.Client, msg mqtt.Message) {
	var raw locationMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		s.logger.Warn("invalid location message", zap.Error(err))
		return
	}

	if err := validateLocationMessage(&raw); err != nil {
		s.logger.Warn("location validation error", zap.Error(err))
		return
	}

	ts := s.now()
	if raw.Timestamp > 0 {
		ts = time.Unix(raw.Timestamp, 0)
	}
	sample := domain.LocationSample{Lat: *raw.Latitude, Lon: *raw.Longitude, Timestamp: ts}

	s.tracker.Record(sample)

	select {
	case s.samples <- sample:
	case <-s.ctx.Done():
		s.logger.Debug("dropping sample after shutdown")
	}
}

func (s *DeviceSubscriber) handleDND(_ mqtt.Client, msg mqtt.Message) {
	var raw dndMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		s.logger.Warn("invalid dnd message", zap.Error(err))
		return
	}
	s.access.SetGranted(raw.Granted)
	s.logger.Info("dnd access updated", zap.Bool("granted", raw.Granted))
}

func validateLocationMessage(msg *locationMessage) error {
	if msg.Latitude == nil {
		return fmt.Errorf("latitude: required")
	}
	if msg.Longitude == nil {
		return fmt.Errorf("longitude: required")
	}
	if *msg.Latitude < -90 || *msg.Latitude > 90 {
		return fmt.Errorf("latitude: must be between -90 and 90")
	}
	if *msg.Longitude < -180 || *msg.Longitude > 180 {
		return fmt.Errorf("longitude: must be between -180 and 180")
	}
	if msg.Timestamp < 0 {
		return fmt.Errorf("timestamp: must not be negative")
	}
	return nil
}
