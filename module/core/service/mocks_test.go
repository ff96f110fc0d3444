package service

import (
	"context"
	"sync"

	"github.com/nandanugg/silentzone/module/core/domain"
)

type fakeZones struct {
	mu   sync.Mutex
	zone domain.Zone
}

func (f *fakeZones) GetZone(context.Context) domain.Zone {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.zone
}

func (f *fakeZones) set(z domain.Zone) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.zone = z
}

type fakeActuator struct {
	mu    sync.Mutex
	calls []domain.RingerMode
	err   error
}

func (f *fakeActuator) SetRingerMode(_ context.Context, cmd *domain.RingerCommand) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, cmd.Mode)
	return f.err
}

func (f *fakeActuator) modes() []domain.RingerMode {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.RingerMode, len(f.calls))
	copy(out, f.calls)
	return out
}

type fakePublisher struct {
	published []*domain.ZoneTransition
	err       error
}

func (f *fakePublisher) PublishTransition(_ context.Context, t *domain.ZoneTransition) error {
	f.published = append(f.published, t)
	return f.err
}

type mockZoneRepo struct {
	setCurrentFn  func(ctx context.Context, rec *domain.ZoneRecord) error
	clearAllFn    func(ctx context.Context) error
	getCurrentFn  func(ctx context.Context) (domain.Zone, error)
	listHistoryFn func(ctx context.Context) ([]domain.ZoneRecord, error)
}

func (m *mockZoneRepo) SetCurrent(ctx context.Context, rec *domain.ZoneRecord) error {
	return m.setCurrentFn(ctx, rec)
}

func (m *mockZoneRepo) ClearAll(ctx context.Context) error {
	return m.clearAllFn(ctx)
}

func (m *mockZoneRepo) GetCurrent(ctx context.Context) (domain.Zone, error) {
	return m.getCurrentFn(ctx)
}

func (m *mockZoneRepo) ListHistory(ctx context.Context) ([]domain.ZoneRecord, error) {
	return m.listHistoryFn(ctx)
}

type fakeGeocoder struct {
	searchFn func(ctx context.Context, query string) (*domain.Coordinate, error)
}

func (f *fakeGeocoder) Search(ctx context.Context, query string) (*domain.Coordinate, error) {
	return f.searchFn(ctx, query)
}
