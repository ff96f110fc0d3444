package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/nandanugg/silentzone/module/core/domain"
	"github.com/nandanugg/silentzone/module/core/internal/clock"
	"github.com/nandanugg/silentzone/module/core/internal/metrics"
	"github.com/nandanugg/silentzone/module/core/internal/repository/actuator"
)

var _ actuator.RingerActuator = (*RingerService)(nil)

// RingerService sits in front of the device's ringer actuator and remembers
// the last mode that was delivered, whether it came from the geofence monitor
// or from a manual toggle. Commands are sent one at a time.
type RingerService struct {
	actuator actuator.RingerActuator
	access   authorizer
	metrics  *metrics.Monitor
	clock    clock.Clock
	logger   *zap.Logger

	mu   sync.Mutex
	last domain.RingerMode
}

func NewRingerService(act actuator.RingerActuator, access authorizer, mm *metrics.Monitor, c clock.Clock, logger *zap.Logger) *RingerService {
	if mm == nil {
		mm = metrics.NewMonitor(nil)
	}
	if c == nil {
		c = clock.NewSystem()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RingerService{actuator: act, access: access, metrics: mm, clock: c, logger: logger}
}

// SetRingerMode forwards cmd and records its mode once delivered.
func (s *RingerService) SetRingerMode(ctx context.Context, cmd *domain.RingerCommand) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.actuator.SetRingerMode(ctx, cmd); err != nil {
		return err
	}
	s.last = cmd.Mode
	return nil
}

// Mode returns the last delivered mode, or "" before any command went out.
func (s *RingerService) Mode() domain.RingerMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Toggle switches SILENT to NORMAL and anything else to SILENT. It returns
// domain.ErrActuatorDenied without sending when DND access is not granted.
func (s *RingerService) Toggle(ctx context.Context) (domain.RingerMode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := domain.RingerSilent
	if s.last == domain.RingerSilent {
		next = domain.RingerNormal
	}

	if !s.access.HasAccess(ctx) {
		s.metrics.ObserveCommand(next, metrics.ResultSuppressed)
		s.logger.Warn("manual ringer toggle refused", zap.String("mode", string(next)), zap.Error(domain.ErrActuatorDenied))
		return "", domain.ErrActuatorDenied
	}

	cmd := &domain.RingerCommand{Mode: next, IssuedAt: s.clock.Now()}
	if err := s.actuator.SetRingerMode(ctx, cmd); err != nil {
		s.metrics.ObserveCommand(next, metrics.ResultFailed)
		s.logger.Warn("manual ringer toggle failed", zap.String("mode", string(next)), zap.Error(err))
		return "", fmt.Errorf("set ringer mode: %w", err)
	}
	s.metrics.ObserveCommand(next, metrics.ResultSent)
	s.last = next

	s.logger.Info("ringer toggled", zap.String("mode", string(next)))
	return next, nil
}
