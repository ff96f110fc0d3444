package service

import (
	"sync"

	"github.com/nandanugg/silentzone/module/core/domain"
)

// LocationTracker remembers the most recent location sample.
type LocationTracker struct {
	mu   sync.RWMutex
	last *domain.LocationSample
}

func NewLocationTracker() *LocationTracker {
	return &LocationTracker{}
}

func (t *LocationTracker) Record(s domain.LocationSample) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = &s
}

// Last returns domain.ErrLocationUnavailable until a sample was recorded.
func (t *LocationTracker) Last() (domain.LocationSample, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.last == nil {
		return domain.LocationSample{}, domain.ErrLocationUnavailable
	}
	return *t.last, nil
}
