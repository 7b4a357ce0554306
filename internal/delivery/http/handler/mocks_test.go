package handler_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/cme-savings-service/internal/calculator"
	"github.com/cme-savings-service/internal/domain"
	"github.com/cme-savings-service/internal/usecase/dto"
)

type MockCalculatorService struct {
	mock.Mock
}

func (m *MockCalculatorService) CalculateCME(req dto.CMERequest) (*calculator.CMERequirement, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*calculator.CMERequirement), args.Error(1)
}

func (m *MockCalculatorService) CalculateSavings(req dto.SavingsRequest) (*calculator.SavingsResult, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*calculator.SavingsResult), args.Error(1)
}

func (m *MockCalculatorService) Project(ctx context.Context, req dto.ProjectionRequest) (*dto.ProjectionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ProjectionResponse), args.Error(1)
}

type MockGeocodingService struct {
	mock.Mock
}

func (m *MockGeocodingService) Geocode(ctx context.Context, query string) (*domain.GeocodeResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeocodeResult), args.Error(1)
}

func (m *MockGeocodingService) ReverseGeocode(ctx context.Context, lat, lon float64) (*domain.GeocodeResult, error) {
	args := m.Called(ctx, lat, lon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeocodeResult), args.Error(1)
}

func (m *MockGeocodingService) Distance(ctx context.Context, from, to domain.Coordinate) (*domain.Route, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Route), args.Error(1)
}

type MockStaticMapService struct {
	mock.Mock
}

func (m *MockStaticMapService) Render(ctx context.Context, req domain.StaticMapRequest) (*domain.MapImage, bool, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*domain.MapImage), args.Bool(1), args.Error(2)
}

func (m *MockStaticMapService) OptimalView(markers []domain.Coordinate) (*dto.ZoomResponse, error) {
	args := m.Called(markers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ZoomResponse), args.Error(1)
}

type MockTileService struct {
	mock.Mock
}

func (m *MockTileService) GetTile(ctx context.Context, z, x, y int) ([]byte, bool, error) {
	args := m.Called(ctx, z, x, y)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).([]byte), args.Bool(1), args.Error(2)
}

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) GetStatistics(ctx context.Context) (*domain.Statistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Statistics), args.Error(1)
}

type stubHealth struct {
	err error
}

func (s stubHealth) Health(context.Context) error {
	return s.err
}
