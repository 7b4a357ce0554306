package usecase

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"github.com/cme-savings-service/internal/domain"
	"github.com/cme-savings-service/internal/domain/repository"
	"github.com/cme-savings-service/internal/pkg/errors"
	"github.com/cme-savings-service/internal/pkg/tilemath"
	"github.com/cme-savings-service/internal/pkg/utils"
	"github.com/cme-savings-service/internal/repository/mapcache"
	"github.com/cme-savings-service/internal/usecase/dto"
)

const (
	DefaultMapWidth  = 600
	DefaultMapHeight = 400
	MaxMapSize       = 1280
	MaxMapMarkers    = 20
	MaxMapZoom       = 19
)

type StaticMapUseCase struct {
	renderers []repository.StaticMapProvider
	cache     repository.StaticMapCache
	logger    *zap.Logger
}

// NewStaticMapUseCase - рендереры пробуются по порядку до первого успеха
func NewStaticMapUseCase(
	renderers []repository.StaticMapProvider,
	cache repository.StaticMapCache,
	logger *zap.Logger,
) *StaticMapUseCase {
	return &StaticMapUseCase{
		renderers: renderers,
		cache:     cache,
		logger:    logger,
	}
}

// Render возвращает PNG карты с маркерами и флаг попадания в кеш
func (uc *StaticMapUseCase) Render(ctx context.Context, req domain.StaticMapRequest) (*domain.MapImage, bool, error) {
	if err := validateMarkers(req.Markers); err != nil {
		return nil, false, err
	}

	width, height := req.Width, req.Height
	if width == 0 {
		width = DefaultMapWidth
	}
	if height == 0 {
		height = DefaultMapHeight
	}
	if width < 1 || height < 1 || width > MaxMapSize || height > MaxMapSize {
		return nil, false, errors.ErrInvalidMapSize.WithDetails(map[string]interface{}{
			"width":  width,
			"height": height,
			"max":    MaxMapSize,
		})
	}

	points := toPoints(req.Markers)

	zoom := tilemath.OptimalZoom(points)
	if req.Zoom != nil {
		zoom = *req.Zoom
		if zoom < 0 || zoom > MaxMapZoom {
			return nil, false, errors.ErrInvalidZoom
		}
	}

	var center domain.Coordinate
	if req.Center != nil {
		if !utils.ValidateCoordinates(req.Center.Lat, req.Center.Lon) {
			return nil, false, errors.ErrInvalidCoordinates
		}
		center = *req.Center
	} else {
		c := tilemath.Center(points)
		center = domain.Coordinate{Lat: c.Lat(), Lon: c.Lon()}
	}

	key := mapcache.Key(center, req.Markers, width, height, zoom)
	if img, ok := uc.cache.Get(key); ok {
		return img, true, nil
	}

	normalized := req
	normalized.Width = width
	normalized.Height = height

	for _, r := range uc.renderers {
		img, err := r.Render(ctx, center, zoom, normalized)
		if err != nil {
			uc.logger.Warn("Static map renderer failed",
				zap.String("renderer", r.Name()),
				zap.Error(err))
			continue
		}
		if img == nil {
			continue
		}

		uc.cache.Set(key, img)
		return img, false, nil
	}

	return nil, false, errors.ErrProviderUnavailable
}

// OptimalView - зум, центр и границы для набора маркеров
func (uc *StaticMapUseCase) OptimalView(markers []domain.Coordinate) (*dto.ZoomResponse, error) {
	if err := validateMarkers(markers); err != nil {
		return nil, err
	}

	points := toPoints(markers)
	b := tilemath.Bounds(points)
	c := b.Center()

	return &dto.ZoomResponse{
		Zoom:   tilemath.OptimalZoom(points),
		Center: domain.Coordinate{Lat: c.Lat(), Lon: c.Lon()},
		Bounds: domain.BoundingBox{
			MinLat: b.Min.Lat(),
			MinLon: b.Min.Lon(),
			MaxLat: b.Max.Lat(),
			MaxLon: b.Max.Lon(),
		},
	}, nil
}

func validateMarkers(markers []domain.Coordinate) error {
	if len(markers) == 0 || len(markers) > MaxMapMarkers {
		return errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"markers": fmt.Sprintf("between 1 and %d markers required", MaxMapMarkers),
		})
	}
	for _, m := range markers {
		if !utils.ValidateCoordinates(m.Lat, m.Lon) {
			return errors.ErrInvalidCoordinates.WithDetails(map[string]interface{}{
				"lat": m.Lat,
				"lon": m.Lon,
			})
		}
	}
	return nil
}

func toPoints(markers []domain.Coordinate) []orb.Point {
	points := make([]orb.Point, len(markers))
	for i, m := range markers {
		points[i] = orb.Point{m.Lon, m.Lat}
	}
	return points
}
