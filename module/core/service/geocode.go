package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nandanugg/silentzone/module/core/domain"
	"github.com/nandanugg/silentzone/module/core/internal/repository/geocoder"
)

const geocodeTimeout = 10 * time.Second

// PlaceService resolves place names for the map picker.
type PlaceService struct {
	geocoder geocoder.Geocoder
	logger   *zap.Logger
}

func NewPlaceService(g geocoder.Geocoder, logger *zap.Logger) *PlaceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlaceService{geocoder: g, logger: logger}
}

func (s *PlaceService) Search(ctx context.Context, query string) (*domain.Coordinate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}

	ctx, cancel := context.WithTimeout(ctx, geocodeTimeout)
	defer cancel()

	coord, err := s.geocoder.Search(ctx, query)
	if err != nil {
		if !errors.Is(err, domain.ErrPlaceNotFound) {
			s.logger.Warn("geocode failed", zap.String("query", query), zap.Error(err))
		}
		return nil, err
	}
	return coord, nil
}
