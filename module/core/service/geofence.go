package service

import (
	"context"
	"errors"
	"math"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nandanugg/silentzone/module/core/domain"
	"github.com/nandanugg/silentzone/module/core/internal/clock"
	"github.com/nandanugg/silentzone/module/core/internal/metrics"
	"github.com/nandanugg/silentzone/module/core/internal/repository/actuator"
	"github.com/nandanugg/silentzone/module/core/internal/repository/publisher"
)

const earthRadiusMeters = 6371000

type zoneReader interface {
	GetZone(ctx context.Context) domain.Zone
}

type authorizer interface {
	HasAccess(ctx context.Context) bool
}

// GeofenceMonitor turns location samples into ringer commands. It flips
// between OUTSIDE and INSIDE on a single 100m threshold (d <= R is inside) and
// emits one command per crossing. The state follows geometry even when the
// command cannot be delivered.
type GeofenceMonitor struct {
	zones    zoneReader
	actuator actuator.RingerActuator
	access   authorizer
	events   publisher.TransitionPublisher
	metrics  *metrics.Monitor
	clock    clock.Clock
	logger   *zap.Logger
	deviceID string

	mu    sync.Mutex
	state domain.GeofenceState
}

type MonitorOption func(*GeofenceMonitor)

func WithTransitionPublisher(p publisher.TransitionPublisher) MonitorOption {
	return func(m *GeofenceMonitor) { m.events = p }
}

func WithMonitorMetrics(mm *metrics.Monitor) MonitorOption {
	return func(m *GeofenceMonitor) { m.metrics = mm }
}

func WithMonitorClock(c clock.Clock) MonitorOption {
	return func(m *GeofenceMonitor) { m.clock = c }
}

func WithMonitorLogger(l *zap.Logger) MonitorOption {
	return func(m *GeofenceMonitor) { m.logger = l }
}

func WithDeviceID(id string) MonitorOption {
	return func(m *GeofenceMonitor) { m.deviceID = id }
}

func NewGeofenceMonitor(zones zoneReader, act actuator.RingerActuator, access authorizer, opts ...MonitorOption) *GeofenceMonitor {
	m := &GeofenceMonitor{
		zones:    zones,
		actuator: act,
		access:   access,
		clock:    clock.NewSystem(),
		logger:   zap.NewNop(),
		state:    domain.StateOutside,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.metrics == nil {
		m.metrics = metrics.NewMonitor(nil)
	}
	return m
}

func (m *GeofenceMonitor) State() domain.GeofenceState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Process evaluates one sample against the current zone. It returns the
// transition when the sample crossed the boundary and nil otherwise.
func (m *GeofenceMonitor) Process(ctx context.Context, sample domain.LocationSample) *domain.ZoneTransition {
	m.mu.Lock()
	defer m.mu.Unlock()

	zone := m.zones.GetZone(ctx)
	if !zone.IsSet() {
		m.metrics.ObserveSample("no_zone")
		m.logger.Debug("no silent zone set, ignoring sample")
		return nil
	}

	dist := haversine(sample.Lat, sample.Lon, zone.Lat, zone.Lon)
	m.metrics.Distance.Set(dist)
	m.logger.Debug("distance to silent zone", zap.Float64("distance_m", dist), zap.String("state", string(m.state)))

	var (
		event domain.TransitionEvent
		mode  domain.RingerMode
	)
	switch {
	case dist <= domain.ZoneRadiusMeters && m.state == domain.StateOutside:
		m.state = domain.StateInside
		event, mode = domain.ZoneEntry, domain.RingerSilent
	case dist > domain.ZoneRadiusMeters && m.state == domain.StateInside:
		m.state = domain.StateOutside
		event, mode = domain.ZoneExit, domain.RingerNormal
	default:
		m.metrics.ObserveSample("steady")
		return nil
	}
	m.metrics.ObserveSample("crossing")
	m.metrics.ObserveTransition(event)

	now := m.clock.Now()
	t := &domain.ZoneTransition{
		ID:        uuid.NewString(),
		DeviceID:  m.deviceID,
		Event:     event,
		Zone:      zone,
		Sample:    sample,
		Distance:  dist,
		Timestamp: now,
	}
	t.Commanded = m.actuate(ctx, &domain.RingerCommand{Mode: mode, IssuedAt: now})

	m.logger.Info("zone boundary crossed",
		zap.String("event", string(event)),
		zap.Float64("distance_m", dist),
		zap.Bool("commanded", t.Commanded),
	)

	if m.events != nil {
		if err := m.events.PublishTransition(ctx, t); err != nil {
			m.logger.Warn("publish transition failed", zap.String("id", t.ID), zap.Error(err))
		}
	}
	return t
}

// actuate sends cmd when DND access is granted. Failures are logged and
// never retried.
func (m *GeofenceMonitor) actuate(ctx context.Context, cmd *domain.RingerCommand) bool {
	if !m.access.HasAccess(ctx) {
		m.metrics.ObserveCommand(cmd.Mode, metrics.ResultSuppressed)
		m.logger.Warn("ringer command suppressed",
			zap.String("mode", string(cmd.Mode)),
			zap.Error(domain.ErrActuatorDenied),
		)
		return false
	}

	if err := m.actuator.SetRingerMode(ctx, cmd); err != nil {
		m.metrics.ObserveCommand(cmd.Mode, metrics.ResultFailed)
		m.logger.Warn("ringer command failed", zap.String("mode", string(cmd.Mode)), zap.Error(err))
		return false
	}
	m.metrics.ObserveCommand(cmd.Mode, metrics.ResultSent)
	return true
}

// Run drains samples in arrival order until ctx is cancelled or the channel
// is closed.
func (m *GeofenceMonitor) Run(ctx context.Context, samples <-chan domain.LocationSample) error {
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case s, ok := <-samples:
			if !ok {
				return nil
			}
			m.Process(ctx, s)
		}
	}
}

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
