package domain

import (
	"time"

	"github.com/google/uuid"
)

// CalculationRecord - строка журнала расчётов
type CalculationRecord struct {
	ID               uuid.UUID `json:"id" db:"id"`
	SessionMinutes   int       `json:"session_minutes" db:"session_minutes"`
	PointsPerSession int       `json:"points_per_session" db:"points_per_session"`
	SessionsPerYear  int       `json:"sessions_per_year" db:"sessions_per_year"`
	Participants     int       `json:"participants" db:"participants"`
	DistanceKm       float64   `json:"distance_km" db:"distance_km"`
	DistanceSource   string    `json:"distance_source" db:"distance_source"`
	TraditionalCost  float64   `json:"traditional_cost" db:"traditional_cost"`
	OptimizedCost    float64   `json:"optimized_cost" db:"optimized_cost"`
	AnnualSavings    float64   `json:"annual_savings" db:"annual_savings"`
	SavingsPercent   float64   `json:"savings_percent" db:"savings_percent"`
	HoursSaved       float64   `json:"hours_saved" db:"hours_saved"`
	ProjectedSavings float64   `json:"projected_savings" db:"projected_savings"`
	PracticePostcode string    `json:"practice_postcode,omitempty" db:"practice_postcode"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}
