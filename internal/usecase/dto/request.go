package dto

import "github.com/cme-savings-service/internal/domain"

// CMERequest - параметры учебной сессии
type CMERequest struct {
	DurationMinutes int  `json:"duration_minutes" validate:"required,min=1,max=1440"`
	LearningControl bool `json:"learning_control"`
	Interactive     bool `json:"interactive"`
}

// SavingsRequest - расчёт экономии при известном расстоянии
type SavingsRequest struct {
	SessionsPerYear     int      `json:"sessions_per_year" validate:"min=0,max=365"`
	SessionHours        float64  `json:"session_hours" validate:"min=0,max=24"`
	OneWayDistanceKm    float64  `json:"one_way_distance_km" validate:"min=0,max=5000"`
	OneWayTravelMinutes *float64 `json:"one_way_travel_minutes,omitempty" validate:"omitempty,min=0,max=6000"`
	Participants        int      `json:"participants" validate:"min=0,max=500"`
	Years               int      `json:"years" validate:"min=0,max=50"`
}

// ProjectionRequest - полный расчёт по адресам практики и места проведения курсов
type ProjectionRequest struct {
	PracticeAddress string     `json:"practice_address" validate:"required,min=2,max=200"`
	VenueAddress    string     `json:"venue_address" validate:"required,min=2,max=200"`
	Session         CMERequest `json:"session"`
	// SessionsPerYear - 0 означает расчёт по требованию CME
	SessionsPerYear int `json:"sessions_per_year" validate:"min=0,max=365"`
	Participants    int `json:"participants" validate:"min=0,max=500"`
	Years           int `json:"years" validate:"min=0,max=50"`
}

type DistanceRequest struct {
	From domain.Coordinate `json:"from"`
	To   domain.Coordinate `json:"to"`
}

// StaticMapRequest - тело POST /maps/static
type StaticMapRequest struct {
	Center  *domain.Coordinate  `json:"center,omitempty"`
	Markers []domain.Coordinate `json:"markers" validate:"required,min=1,max=20,dive"`
	Width   int                 `json:"width,omitempty" validate:"omitempty,min=1,max=1280"`
	Height  int                 `json:"height,omitempty" validate:"omitempty,min=1,max=1280"`
	Zoom    *int                `json:"zoom,omitempty" validate:"omitempty,min=0,max=19"`
}

// ToDomain - преобразование в доменный запрос
func (r StaticMapRequest) ToDomain() domain.StaticMapRequest {
	return domain.StaticMapRequest{
		Center:  r.Center,
		Markers: r.Markers,
		Width:   r.Width,
		Height:  r.Height,
		Zoom:    r.Zoom,
	}
}
