package domain

import "time"

// Coordinate - географическая точка (WGS84)
type Coordinate struct {
	Lat float64 `json:"lat" db:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" db:"lon" validate:"min=-180,max=180"`
}

type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Statistics - агрегированная статистика по журналу расчётов
type Statistics struct {
	TotalCalculations     int            `json:"total_calculations"`
	Last30Days            int            `json:"last_30_days"`
	AvgDistanceKm         float64        `json:"avg_distance_km"`
	AvgSessionsPerYear    float64        `json:"avg_sessions_per_year"`
	AvgAnnualSavings      float64        `json:"avg_annual_savings"`
	AvgSavingsPercent     float64        `json:"avg_savings_percent"`
	TotalProjectedSavings float64        `json:"total_projected_savings"`
	ByDistanceSource      map[string]int `json:"by_distance_source"`
	LastCalculationAt     *time.Time     `json:"last_calculation_at,omitempty"`
	GeneratedAt           time.Time      `json:"generated_at"`
}
