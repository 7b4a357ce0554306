package dto

import (
	"github.com/google/uuid"

	"github.com/cme-savings-service/internal/calculator"
	"github.com/cme-savings-service/internal/domain"
)

type RouteResponse struct {
	From            domain.Coordinate `json:"from"`
	To              domain.Coordinate `json:"to"`
	DistanceKm      float64           `json:"distance_km"`
	DurationMinutes float64           `json:"duration_minutes"`
	Source          string            `json:"source"`
}

// NewRouteResponse - маршрут в формате API
func NewRouteResponse(r *domain.Route) *RouteResponse {
	return &RouteResponse{
		From:            r.From,
		To:              r.To,
		DistanceKm:      r.DistanceKm,
		DurationMinutes: r.Duration.Minutes(),
		Source:          r.Source,
	}
}

// ProjectionResponse - результат полного расчёта
type ProjectionResponse struct {
	CalculationID uuid.UUID                 `json:"calculation_id"`
	Practice      *domain.GeocodeResult     `json:"practice"`
	Venue         *domain.GeocodeResult     `json:"venue"`
	Route         *RouteResponse            `json:"route"`
	CME           calculator.CMERequirement `json:"cme"`
	Savings       calculator.SavingsResult  `json:"savings"`
}

// ZoomResponse - подобранный вид карты для набора маркеров
type ZoomResponse struct {
	Zoom   int                `json:"zoom"`
	Center domain.Coordinate  `json:"center"`
	Bounds domain.BoundingBox `json:"bounds"`
}
