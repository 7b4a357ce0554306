// Package calculator - расчёт требований CME и экономии от онлайн-обучения
package calculator

import (
	"github.com/cme-savings-service/internal/pkg/errors"
)

const (
	// MinutesPerUnit - одна учебная единица (45 минут) даёт один балл
	MinutesPerUnit = 45
	// MaxBasePointsPerSession - базовые баллы ограничены 8 за учебный день
	MaxBasePointsPerSession = 8
	// MinutesPerHalfDay - интерактивный формат: +1 балл за каждые начатые полдня
	MinutesPerHalfDay = 240
	// MaxSessionMinutes - сессия не может быть длиннее суток
	MaxSessionMinutes = 24 * 60

	// CyclePointsRequired - § 95d SGB V: 125 баллов за 5 лет
	CyclePointsRequired = 125
	CycleYears          = 5
	// AnnualPointsRequired - среднегодовая норма
	AnnualPointsRequired = CyclePointsRequired / CycleYears
)

var (
	ErrSessionTooShort = errors.ErrSessionTooShort
	ErrInvalidDuration = errors.ErrInvalidSessionDuration
)

// SessionInput - параметры одной учебной сессии
type SessionInput struct {
	DurationMinutes int  `json:"duration_minutes"`
	LearningControl bool `json:"learning_control"`
	Interactive     bool `json:"interactive"`
}

// CMERequirement - баллы за сессию и необходимое количество сессий
type CMERequirement struct {
	PointsPerSession     int `json:"points_per_session"`
	SessionsPerYear      int `json:"sessions_per_year"`
	SessionsPerCycle     int `json:"sessions_per_cycle"`
	AnnualPointsRequired int `json:"annual_points_required"`
	CyclePointsRequired  int `json:"cycle_points_required"`
}

// PointsPerSession - количество баллов CME за одну сессию
func PointsPerSession(in SessionInput) (int, error) {
	d := in.DurationMinutes
	if d < 0 || d > MaxSessionMinutes {
		return 0, ErrInvalidDuration
	}
	if d < MinutesPerUnit {
		return 0, ErrSessionTooShort
	}

	points := d / MinutesPerUnit
	if points > MaxBasePointsPerSession {
		points = MaxBasePointsPerSession
	}
	if in.LearningControl {
		points++
	}
	if in.Interactive {
		points += ceilDiv(d, MinutesPerHalfDay)
	}
	return points, nil
}

// Requirement - сколько таких сессий нужно в год и за цикл
func Requirement(in SessionInput) (CMERequirement, error) {
	points, err := PointsPerSession(in)
	if err != nil {
		return CMERequirement{}, err
	}

	return CMERequirement{
		PointsPerSession:     points,
		SessionsPerYear:      ceilDiv(AnnualPointsRequired, points),
		SessionsPerCycle:     ceilDiv(CyclePointsRequired, points),
		AnnualPointsRequired: AnnualPointsRequired,
		CyclePointsRequired:  CyclePointsRequired,
	}, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
