package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/nandanugg/silentzone/module/core/domain"
	"github.com/nandanugg/silentzone/module/core/internal/clock"
	"github.com/nandanugg/silentzone/module/core/internal/repository/database"
)

type lastLocation interface {
	Last() (domain.LocationSample, error)
}

// ZoneService owns the current silent zone and its history. The current zone
// is cached as a single value and only replaced under the write lock, so a
// reader never sees coordinates and name from different writes.
type ZoneService struct {
	repo    database.ZoneRepository
	tracker lastLocation
	clock   clock.Clock
	logger  *zap.Logger

	mu      sync.RWMutex
	current domain.Zone
	loaded  bool
}

func NewZoneService(repo database.ZoneRepository, tracker lastLocation, c clock.Clock, logger *zap.Logger) *ZoneService {
	if c == nil {
		c = clock.NewSystem()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZoneService{repo: repo, tracker: tracker, clock: c, logger: logger}
}

// Load reads the current zone from the store into the cache.
func (s *ZoneService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	z, err := s.repo.GetCurrent(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	s.current = z
	s.loaded = true
	return nil
}

func (s *ZoneService) SetZone(ctx context.Context, lat, lon float64, name string) (domain.ZoneRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := domain.ZoneRecord{Lat: lat, Lon: lon, Name: name, CreatedAt: s.clock.Now()}
	if err := s.repo.SetCurrent(ctx, &rec); err != nil {
		s.logger.Error("set zone failed", zap.Error(err))
		return domain.ZoneRecord{}, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	s.current = rec.Zone()
	s.loaded = true

	s.logger.Info("silent zone set",
		zap.Float64("lat", lat),
		zap.Float64("lon", lon),
		zap.String("name", name),
	)
	return rec, nil
}

// SetZoneFromCurrentLocation uses the last known sample as the new zone.
func (s *ZoneService) SetZoneFromCurrentLocation(ctx context.Context) (domain.ZoneRecord, error) {
	sample, err := s.tracker.Last()
	if err != nil {
		return domain.ZoneRecord{}, err
	}
	return s.SetZone(ctx, sample.Lat, sample.Lon, domain.ZoneNameCurrentLocation)
}

// ClearZone resets the zone to unset and deletes the whole history.
func (s *ZoneService) ClearZone(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.ClearAll(ctx); err != nil {
		s.logger.Error("clear zone failed", zap.Error(err))
		return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	s.current = domain.Zone{}
	s.loaded = true

	s.logger.Info("silent zone cleared")
	return nil
}

// GetZone returns the current zone. An unreadable store yields the unset zone.
func (s *ZoneService) GetZone(ctx context.Context) domain.Zone {
	s.mu.RLock()
	if s.loaded {
		z := s.current
		s.mu.RUnlock()
		return z
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.current
	}

	z, err := s.repo.GetCurrent(ctx)
	if err != nil {
		s.logger.Warn("zone store unreadable, treating zone as unset",
			zap.Error(fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)),
		)
		return domain.Zone{}
	}
	s.current = z
	s.loaded = true
	return z
}

// GetAllZones returns a snapshot of the zone history in insertion order.
func (s *ZoneService) GetAllZones(ctx context.Context) ([]domain.ZoneRecord, error) {
	records, err := s.repo.ListHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	if records == nil {
		records = []domain.ZoneRecord{}
	}
	return records, nil
}
