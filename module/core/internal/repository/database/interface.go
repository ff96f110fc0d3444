package database

import (
	"context"

	"github.com/nandanugg/silentzone/module/core/domain"
)

// ZoneRepository persists the current zone and the zone history.
// GetCurrent returns the unset zone and a nil error when nothing was ever stored.
type ZoneRepository interface {
	SetCurrent(ctx context.Context, rec *domain.ZoneRecord) error
	ClearAll(ctx context.Context) error
	GetCurrent(ctx context.Context) (domain.Zone, error)
	ListHistory(ctx context.Context) ([]domain.ZoneRecord, error)
}
