package calculator

import (
	"github.com/cme-savings-service/internal/pkg/errors"
	"github.com/cme-savings-service/internal/pkg/utils"
)

// DefaultProjectionYears - горизонт прогноза, совпадает с циклом CME
const DefaultProjectionYears = CycleYears

var ErrInvalidInput = errors.ErrInvalidCalculationInput

// Rates - ставки, по которым считается стоимость обучения
type Rates struct {
	HourlyRate                float64 `json:"hourly_rate"`
	PerKmRate                 float64 `json:"per_km_rate"`
	AverageSpeedKmh           float64 `json:"average_speed_kmh"`
	TraditionalFeePerSession  float64 `json:"traditional_fee_per_session"`
	OnlineSubscriptionPerYear float64 `json:"online_subscription_per_year"`
	OnlinePracticeTimeShare   float64 `json:"online_practice_time_share"`
}

// DefaultRates - ставки по умолчанию
func DefaultRates() Rates {
	return Rates{
		HourlyRate:                300,
		PerKmRate:                 0.30,
		AverageSpeedKmh:           60,
		TraditionalFeePerSession:  190,
		OnlineSubscriptionPerYear: 590,
		OnlinePracticeTimeShare:   0.25,
	}
}

// SavingsInput - входные данные расчёта экономии
type SavingsInput struct {
	SessionsPerYear   int      `json:"sessions_per_year"`
	SessionHours      float64  `json:"session_hours"`
	OneWayDistanceKm  float64  `json:"one_way_distance_km"`
	OneWayTravelHours *float64 `json:"one_way_travel_hours,omitempty"`
	Participants      int      `json:"participants"`
	Years             int      `json:"years"`
}

// CostBreakdown - годовые затраты одного варианта обучения
type CostBreakdown struct {
	TravelCost float64 `json:"travel_cost"`
	TimeCost   float64 `json:"time_cost"`
	Fees       float64 `json:"fees"`
	Total      float64 `json:"total"`
	Hours      float64 `json:"hours"`
	TravelKm   float64 `json:"travel_km"`
}

type SavingsResult struct {
	Traditional      CostBreakdown `json:"traditional"`
	Optimized        CostBreakdown `json:"optimized"`
	AnnualSavings    float64       `json:"annual_savings"`
	SavingsPercent   float64       `json:"savings_percent"`
	HoursSaved       float64       `json:"hours_saved"`
	ProjectionYears  int           `json:"projection_years"`
	ProjectedSavings float64       `json:"projected_savings"`
}

func (in SavingsInput) validate() error {
	if in.SessionsPerYear < 0 || in.SessionHours < 0 || in.OneWayDistanceKm < 0 ||
		in.Participants < 0 || in.Years < 0 {
		return ErrInvalidInput
	}
	if in.OneWayTravelHours != nil && *in.OneWayTravelHours < 0 {
		return ErrInvalidInput
	}
	return nil
}

func (r Rates) validate() error {
	if r.HourlyRate < 0 || r.PerKmRate < 0 || r.AverageSpeedKmh < 0 ||
		r.TraditionalFeePerSession < 0 || r.OnlineSubscriptionPerYear < 0 ||
		r.OnlinePracticeTimeShare < 0 {
		return ErrInvalidInput
	}
	return nil
}

func (in SavingsInput) participants() int {
	if in.Participants == 0 {
		return 1
	}
	return in.Participants
}

// Traditional - затраты на очное обучение с дорогой туда и обратно
func Traditional(in SavingsInput, rates Rates) (CostBreakdown, error) {
	if err := in.validate(); err != nil {
		return CostBreakdown{}, err
	}
	if err := rates.validate(); err != nil {
		return CostBreakdown{}, err
	}
	return round(traditional(in, rates)), nil
}

// Optimized - затраты на онлайн-обучение: без дороги, часть времени вне практики
func Optimized(in SavingsInput, rates Rates) (CostBreakdown, error) {
	if err := in.validate(); err != nil {
		return CostBreakdown{}, err
	}
	if err := rates.validate(); err != nil {
		return CostBreakdown{}, err
	}
	return round(optimized(in, rates)), nil
}

// Compare - сравнение вариантов и прогноз экономии на несколько лет
func Compare(in SavingsInput, rates Rates) (SavingsResult, error) {
	if err := in.validate(); err != nil {
		return SavingsResult{}, err
	}
	if err := rates.validate(); err != nil {
		return SavingsResult{}, err
	}

	trad := traditional(in, rates)
	opt := optimized(in, rates)

	years := in.Years
	if years == 0 {
		years = DefaultProjectionYears
	}

	savings := trad.Total - opt.Total
	percent := 0.0
	if trad.Total > 0 {
		percent = savings / trad.Total * 100
	}

	return SavingsResult{
		Traditional:      round(trad),
		Optimized:        round(opt),
		AnnualSavings:    utils.Round(savings, 2),
		SavingsPercent:   utils.Round(percent, 1),
		HoursSaved:       utils.Round(trad.Hours-opt.Hours, 1),
		ProjectionYears:  years,
		ProjectedSavings: utils.Round(savings*float64(years), 2),
	}, nil
}

func traditional(in SavingsInput, rates Rates) CostBreakdown {
	n := float64(in.SessionsPerYear * in.participants())

	roundTripKm := 2 * in.OneWayDistanceKm
	travelHours := 0.0
	switch {
	case in.OneWayTravelHours != nil:
		travelHours = 2 * *in.OneWayTravelHours
	case rates.AverageSpeedKmh > 0:
		travelHours = roundTripKm / rates.AverageSpeedKmh
	}

	b := CostBreakdown{
		TravelKm:   roundTripKm * n,
		TravelCost: roundTripKm * rates.PerKmRate * n,
		Hours:      (in.SessionHours + travelHours) * n,
		Fees:       rates.TraditionalFeePerSession * n,
	}
	b.TimeCost = b.Hours * rates.HourlyRate
	b.Total = b.TravelCost + b.TimeCost + b.Fees
	return b
}

func optimized(in SavingsInput, rates Rates) CostBreakdown {
	n := float64(in.SessionsPerYear * in.participants())

	b := CostBreakdown{
		Hours: in.SessionHours * rates.OnlinePracticeTimeShare * n,
		Fees:  rates.OnlineSubscriptionPerYear * float64(in.participants()),
	}
	b.TimeCost = b.Hours * rates.HourlyRate
	b.Total = b.TimeCost + b.Fees
	return b
}

func round(b CostBreakdown) CostBreakdown {
	return CostBreakdown{
		TravelCost: utils.Round(b.TravelCost, 2),
		TimeCost:   utils.Round(b.TimeCost, 2),
		Fees:       utils.Round(b.Fees, 2),
		Total:      utils.Round(b.Total, 2),
		Hours:      utils.Round(b.Hours, 1),
		TravelKm:   utils.Round(b.TravelKm, 1),
	}
}
