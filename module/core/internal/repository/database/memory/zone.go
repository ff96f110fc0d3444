package memory

import (
	"context"
	"sync"
	"time"

	"github.com/nandanugg/silentzone/module/core/domain"
	"github.com/nandanugg/silentzone/module/core/internal/repository/database"
)

var _ database.ZoneRepository = (*ZoneRepo)(nil)

// ZoneRepo keeps zones in process memory. Nothing survives a restart; it is
// meant for tests and local runs.
type ZoneRepo struct {
	mu      sync.RWMutex
	current domain.Zone
	history []domain.ZoneRecord
	nextID  int64
}

func NewZoneRepo() *ZoneRepo {
	return &ZoneRepo{nextID: 1}
}

func (r *ZoneRepo) SetCurrent(_ context.Context, rec *domain.ZoneRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	rec.ID = r.nextID
	r.nextID++

	r.current = rec.Zone()
	r.history = append(r.history, *rec)
	return nil
}

func (r *ZoneRepo) ClearAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = domain.Zone{}
	r.history = nil
	return nil
}

func (r *ZoneRepo) GetCurrent(_ context.Context) (domain.Zone, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current, nil
}

func (r *ZoneRepo) ListHistory(_ context.Context) ([]domain.ZoneRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.ZoneRecord, len(r.history))
	copy(out, r.history)
	return out, nil
}
