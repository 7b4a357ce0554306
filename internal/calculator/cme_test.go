package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointsPerSession(t *testing.T) {
	tests := []struct {
		name     string
		input    SessionInput
		expected int
	}{
		{"single unit", SessionInput{DurationMinutes: 45}, 1},
		{"partial unit rounds down", SessionInput{DurationMinutes: 89}, 1},
		{"full day", SessionInput{DurationMinutes: 480}, 8},
		{"base points capped", SessionInput{DurationMinutes: 600}, 8},
		{"learning control bonus", SessionInput{DurationMinutes: 480, LearningControl: true}, 9},
		{"interactive started half day", SessionInput{DurationMinutes: 90, Interactive: true}, 3},
		{"interactive full day", SessionInput{DurationMinutes: 480, Interactive: true}, 10},
		{"all bonuses", SessionInput{DurationMinutes: 480, LearningControl: true, Interactive: true}, 11},
		{"whole day limit", SessionInput{DurationMinutes: MaxSessionMinutes}, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points, err := PointsPerSession(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, points)
		})
	}
}

func TestPointsPerSession_Errors(t *testing.T) {
	_, err := PointsPerSession(SessionInput{DurationMinutes: 44})
	assert.ErrorIs(t, err, ErrSessionTooShort)

	_, err = PointsPerSession(SessionInput{DurationMinutes: 0})
	assert.ErrorIs(t, err, ErrSessionTooShort)

	_, err = PointsPerSession(SessionInput{DurationMinutes: -10})
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = PointsPerSession(SessionInput{DurationMinutes: MaxSessionMinutes + 1})
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestRequirement(t *testing.T) {
	req, err := Requirement(SessionInput{DurationMinutes: 480, LearningControl: true, Interactive: true})
	require.NoError(t, err)

	assert.Equal(t, 11, req.PointsPerSession)
	assert.Equal(t, 3, req.SessionsPerYear)
	assert.Equal(t, 12, req.SessionsPerCycle)
	assert.Equal(t, 25, req.AnnualPointsRequired)
	assert.Equal(t, 125, req.CyclePointsRequired)

	req, err = Requirement(SessionInput{DurationMinutes: 45})
	require.NoError(t, err)
	assert.Equal(t, 25, req.SessionsPerYear)
	assert.Equal(t, 125, req.SessionsPerCycle)
}

func TestRequirement_CoversPointTargets(t *testing.T) {
	for minutes := MinutesPerUnit; minutes <= MaxSessionMinutes; minutes += 15 {
		for _, in := range []SessionInput{
			{DurationMinutes: minutes},
			{DurationMinutes: minutes, LearningControl: true},
			{DurationMinutes: minutes, Interactive: true},
		} {
			req, err := Requirement(in)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, req.SessionsPerYear*req.PointsPerSession, AnnualPointsRequired)
			assert.GreaterOrEqual(t, req.SessionsPerCycle*req.PointsPerSession, CyclePointsRequired)
			assert.Less(t, (req.SessionsPerCycle-1)*req.PointsPerSession, CyclePointsRequired)
		}
	}
}

func TestRequirement_PropagatesError(t *testing.T) {
	_, err := Requirement(SessionInput{DurationMinutes: 30})
	assert.ErrorIs(t, err, ErrSessionTooShort)
}
