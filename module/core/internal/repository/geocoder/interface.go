package geocoder

import (
	"context"

	"github.com/nandanugg/silentzone/module/core/domain"
)

// Geocoder resolves a free-text place query. It returns domain.ErrPlaceNotFound
// when the provider has no match.
type Geocoder interface {
	Search(ctx context.Context, query string) (*domain.Coordinate, error)
}
