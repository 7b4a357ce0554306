package usecase_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cme-savings-service/internal/calculator"
	"github.com/cme-savings-service/internal/domain"
	apperrors "github.com/cme-savings-service/internal/pkg/errors"
	"github.com/cme-savings-service/internal/usecase"
	"github.com/cme-savings-service/internal/usecase/dto"
)

func TestCalculateCME(t *testing.T) {
	uc := usecase.NewCalculatorUseCase(nil, nil, calculator.DefaultRates(), 0, zap.NewNop())

	result, err := uc.CalculateCME(dto.CMERequest{DurationMinutes: 90, LearningControl: true})
	require.NoError(t, err)
	assert.Equal(t, 3, result.PointsPerSession)
	assert.Equal(t, 9, result.SessionsPerYear)
	assert.Equal(t, 42, result.SessionsPerCycle)

	_, err = uc.CalculateCME(dto.CMERequest{DurationMinutes: 30})
	assert.ErrorIs(t, err, apperrors.ErrSessionTooShort)
}

func TestCalculateSavings(t *testing.T) {
	uc := usecase.NewCalculatorUseCase(nil, nil, calculator.DefaultRates(), 5, zap.NewNop())

	travel := 50.0
	result, err := uc.CalculateSavings(dto.SavingsRequest{
		SessionsPerYear:     5,
		SessionHours:        8,
		OneWayDistanceKm:    50,
		OneWayTravelMinutes: &travel,
	})
	require.NoError(t, err)
	assert.InDelta(t, 15600.0, result.Traditional.Total, 0.01)
	assert.InDelta(t, 3590.0, result.Optimized.Total, 0.01)
	assert.InDelta(t, 12010.0, result.AnnualSavings, 0.01)
	assert.Equal(t, 5, result.ProjectionYears)
	assert.InDelta(t, 60050.0, result.ProjectedSavings, 0.01)

	_, err = uc.CalculateSavings(dto.SavingsRequest{SessionsPerYear: -1})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCalculationInput)
}

func projectionFixtures() (*domain.GeocodeResult, *domain.GeocodeResult, *domain.Route) {
	practice := &domain.GeocodeResult{DisplayName: "Praxis", Lat: 52.52, Lon: 13.405, PostalCode: "10117", Source: domain.SourceNominatim}
	venue := &domain.GeocodeResult{DisplayName: "Kongresszentrum", Lat: 52.39, Lon: 13.06, Source: domain.SourceNominatim}
	route := &domain.Route{
		From:       practice.Coordinate(),
		To:         venue.Coordinate(),
		DistanceKm: 50,
		Duration:   50 * time.Minute,
		Source:     domain.SourceOSRM,
	}
	return practice, venue, route
}

func projectionRequest() dto.ProjectionRequest {
	return dto.ProjectionRequest{
		PracticeAddress: "Friedrichstr. 43, 10117 Berlin",
		VenueAddress:    "Potsdam",
		Session:         dto.CMERequest{DurationMinutes: 480},
		SessionsPerYear: 5,
	}
}

func TestProject_PublishesEvent(t *testing.T) {
	locations := new(MockLocationService)
	stream := new(MockStreamRepository)
	practice, venue, route := projectionFixtures()
	req := projectionRequest()

	locations.On("Geocode", mock.Anything, req.PracticeAddress).Return(practice, nil)
	locations.On("Geocode", mock.Anything, req.VenueAddress).Return(venue, nil)
	locations.On("Distance", mock.Anything, practice.Coordinate(), venue.Coordinate()).Return(route, nil)
	stream.On("PublishToStream", mock.Anything, domain.StreamCalculationCompleted,
		mock.MatchedBy(func(e domain.CalculationCompletedEvent) bool {
			return e.Record.PracticePostcode == "10117" &&
				e.Record.DistanceSource == domain.SourceOSRM &&
				e.Record.SessionsPerYear == 5 &&
				e.Record.Participants == 1
		})).Return(nil)

	uc := usecase.NewCalculatorUseCase(locations, stream, calculator.DefaultRates(), 5, zap.NewNop())
	resp, err := uc.Project(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 8, resp.CME.PointsPerSession)
	assert.Equal(t, 4, resp.CME.SessionsPerYear)
	assert.InDelta(t, 15600.0, resp.Savings.Traditional.Total, 0.01)
	assert.InDelta(t, 12010.0, resp.Savings.AnnualSavings, 0.01)
	assert.Equal(t, 50.0, resp.Route.DurationMinutes)
	assert.NotEmpty(t, resp.CalculationID.String())

	locations.AssertExpectations(t)
	stream.AssertExpectations(t)
}

func TestProject_SessionsFromRequirement(t *testing.T) {
	locations := new(MockLocationService)
	practice, venue, route := projectionFixtures()
	req := projectionRequest()
	req.SessionsPerYear = 0

	locations.On("Geocode", mock.Anything, req.PracticeAddress).Return(practice, nil)
	locations.On("Geocode", mock.Anything, req.VenueAddress).Return(venue, nil)
	locations.On("Distance", mock.Anything, mock.Anything, mock.Anything).Return(route, nil)

	uc := usecase.NewCalculatorUseCase(locations, nil, calculator.DefaultRates(), 5, zap.NewNop())
	resp, err := uc.Project(context.Background(), req)
	require.NoError(t, err)

	// 8 баллов за сессию -> 4 сессии в год
	assert.InDelta(t, 4*2*50.0, resp.Savings.Traditional.TravelKm, 0.01)
}

func TestProject_PublishFailureIsIgnored(t *testing.T) {
	locations := new(MockLocationService)
	stream := new(MockStreamRepository)
	practice, venue, route := projectionFixtures()
	req := projectionRequest()

	locations.On("Geocode", mock.Anything, req.PracticeAddress).Return(practice, nil)
	locations.On("Geocode", mock.Anything, req.VenueAddress).Return(venue, nil)
	locations.On("Distance", mock.Anything, mock.Anything, mock.Anything).Return(route, nil)
	stream.On("PublishToStream", mock.Anything, mock.Anything, mock.Anything).Return(stderrors.New("redis down"))

	uc := usecase.NewCalculatorUseCase(locations, stream, calculator.DefaultRates(), 5, zap.NewNop())
	_, err := uc.Project(context.Background(), req)
	assert.NoError(t, err)
}

func TestProject_GeocodeFailure(t *testing.T) {
	locations := new(MockLocationService)
	stream := new(MockStreamRepository)
	_, venue, _ := projectionFixtures()
	req := projectionRequest()

	locations.On("Geocode", mock.Anything, req.PracticeAddress).Return(nil, apperrors.ErrLocationNotFound)
	locations.On("Geocode", mock.Anything, req.VenueAddress).Return(venue, nil).Maybe()

	uc := usecase.NewCalculatorUseCase(locations, stream, calculator.DefaultRates(), 5, zap.NewNop())
	_, err := uc.Project(context.Background(), req)

	assert.ErrorIs(t, err, apperrors.ErrLocationNotFound)
	locations.AssertNotCalled(t, "Distance", mock.Anything, mock.Anything, mock.Anything)
	stream.AssertNotCalled(t, "PublishToStream", mock.Anything, mock.Anything, mock.Anything)
}

func TestProject_InvalidSession(t *testing.T) {
	locations := new(MockLocationService)
	req := projectionRequest()
	req.Session.DurationMinutes = 20

	uc := usecase.NewCalculatorUseCase(locations, nil, calculator.DefaultRates(), 5, zap.NewNop())
	_, err := uc.Project(context.Background(), req)

	assert.ErrorIs(t, err, apperrors.ErrSessionTooShort)
	locations.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
}
