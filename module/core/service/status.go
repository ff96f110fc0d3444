package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nandanugg/silentzone/module/core/domain"
	"github.com/nandanugg/silentzone/module/core/internal/clock"
)

const (
	textNoZone   = "No silent zone configured"
	textChecking = "Checking location..."
)

// Project builds the display status from the last sample and the zone. A nil
// or stale sample yields CHECKING instead of an outdated distance.
func Project(last *domain.LocationSample, zone domain.Zone, now time.Time, maxAge time.Duration) domain.Status {
	st := domain.Status{Zone: zone, UpdatedAt: now}

	if !zone.IsSet() {
		st.State = domain.StatusNoZone
		st.Text = textNoZone
		return st
	}
	if last == nil || (maxAge > 0 && now.Sub(last.Timestamp) > maxAge) {
		st.State = domain.StatusChecking
		st.Text = textChecking
		return st
	}

	dist := haversine(last.Lat, last.Lon, zone.Lat, zone.Lon)
	st.DistanceMeters = &dist
	if dist <= domain.ZoneRadiusMeters {
		st.State = domain.StatusInside
		st.Text = fmt.Sprintf("INSIDE silent zone (%.1fm away)", dist)
	} else {
		st.State = domain.StatusOutside
		st.Text = fmt.Sprintf("OUTSIDE silent zone (%.1fm away)", dist)
	}
	return st
}

type ringerModeReader interface {
	Mode() domain.RingerMode
}

// StatusService computes the display status on demand from the live zone and
// the last sample. Run re-evaluates it on a ticker and logs state changes.
type StatusService struct {
	zones   zoneReader
	tracker lastLocation
	ringer  ringerModeReader
	clock   clock.Clock
	maxAge  time.Duration
	logger  *zap.Logger
}

// NewStatusService builds the service. ringer may be nil, in which case the
// status carries no ringer mode.
func NewStatusService(zones zoneReader, tracker lastLocation, ringer ringerModeReader, c clock.Clock, maxAge time.Duration, logger *zap.Logger) *StatusService {
	if c == nil {
		c = clock.NewSystem()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusService{zones: zones, tracker: tracker, ringer: ringer, clock: c, maxAge: maxAge, logger: logger}
}

// Current projects the status against the zone as it is now.
func (s *StatusService) Current(ctx context.Context) domain.Status {
	var last *domain.LocationSample
	sample, err := s.tracker.Last()
	switch {
	case err == nil:
		last = &sample
	case errors.Is(err, domain.ErrLocationUnavailable):
	default:
		s.logger.Warn("read last location", zap.Error(err))
	}

	st := Project(last, s.zones.GetZone(ctx), s.clock.Now(), s.maxAge)
	if s.ringer != nil {
		st.Ringer = s.ringer.Mode()
	}
	return st
}

// Run re-evaluates the status every interval until ctx is cancelled and logs
// each change of state.
func (s *StatusService) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	prev := s.Current(ctx)
	s.logger.Info("status", zap.String("state", string(prev.State)), zap.String("text", prev.Text))
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			st := s.Current(ctx)
			if st.State != prev.State {
				s.logger.Info("status changed",
					zap.String("from", string(prev.State)),
					zap.String("state", string(st.State)),
					zap.String("text", st.Text),
				)
			} else {
				s.logger.Debug("status refreshed", zap.String("text", st.Text))
			}
			prev = st
		}
	}
}
