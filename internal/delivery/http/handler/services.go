package handler

import (
	"context"

	"github.com/cme-savings-service/internal/calculator"
	"github.com/cme-savings-service/internal/domain"
	"github.com/cme-savings-service/internal/usecase/dto"
)

// CalculatorService - расчёты CME и экономии
type CalculatorService interface {
	CalculateCME(req dto.CMERequest) (*calculator.CMERequirement, error)
	CalculateSavings(req dto.SavingsRequest) (*calculator.SavingsResult, error)
	Project(ctx context.Context, req dto.ProjectionRequest) (*dto.ProjectionResponse, error)
}

// GeocodingService - фасад картографических провайдеров
type GeocodingService interface {
	Geocode(ctx context.Context, query string) (*domain.GeocodeResult, error)
	ReverseGeocode(ctx context.Context, lat, lon float64) (*domain.GeocodeResult, error)
	Distance(ctx context.Context, from, to domain.Coordinate) (*domain.Route, error)
}

type StaticMapService interface {
	Render(ctx context.Context, req domain.StaticMapRequest) (*domain.MapImage, bool, error)
	OptimalView(markers []domain.Coordinate) (*dto.ZoomResponse, error)
}

type TileService interface {
	GetTile(ctx context.Context, z, x, y int) ([]byte, bool, error)
}

type StatsService interface {
	GetStatistics(ctx context.Context) (*domain.Statistics, error)
}

// HealthChecker - зависимость, доступность которой проверяет /health
type HealthChecker interface {
	Health(ctx context.Context) error
}
