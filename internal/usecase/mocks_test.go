package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/cme-savings-service/internal/domain"
)

// MockCacheRepository - мок для CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) GetTile(ctx context.Context, z, x, y int) ([]byte, error) {
	args := m.Called(ctx, z, x, y)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) SetTile(ctx context.Context, z, x, y int, data []byte, ttl time.Duration) error {
	args := m.Called(ctx, z, x, y, data, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) GetStats(ctx context.Context) (*domain.Statistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Statistics), args.Error(1)
}

func (m *MockCacheRepository) SetStats(ctx context.Context, stats *domain.Statistics, ttl time.Duration) error {
	args := m.Called(ctx, stats, ttl)
	return args.Error(0)
}

// MockGeocodingProvider - мок провайдера геокодирования
type MockGeocodingProvider struct {
	mock.Mock
	name string
}

func (m *MockGeocodingProvider) Name() string {
	return m.name
}

func (m *MockGeocodingProvider) Geocode(ctx context.Context, query string) (*domain.GeocodeResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeocodeResult), args.Error(1)
}

func (m *MockGeocodingProvider) ReverseGeocode(ctx context.Context, lat, lon float64) (*domain.GeocodeResult, error) {
	args := m.Called(ctx, lat, lon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeocodeResult), args.Error(1)
}

// MockRoutingProvider - мок провайдера маршрутов
type MockRoutingProvider struct {
	mock.Mock
	name string
}

func (m *MockRoutingProvider) Name() string {
	return m.name
}

func (m *MockRoutingProvider) Route(ctx context.Context, from, to domain.Coordinate) (*domain.Route, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Route), args.Error(1)
}

// MockOfflineLocationRepository - мок офлайн-справочника
type MockOfflineLocationRepository struct {
	mock.Mock
}

func (m *MockOfflineLocationRepository) FindByPostalCode(ctx context.Context, postalCode string, countryCodes []string) (*domain.OfflineLocation, error) {
	args := m.Called(ctx, postalCode, countryCodes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OfflineLocation), args.Error(1)
}

func (m *MockOfflineLocationRepository) FindByCity(ctx context.Context, city string, countryCodes []string) (*domain.OfflineLocation, error) {
	args := m.Called(ctx, city, countryCodes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OfflineLocation), args.Error(1)
}

// MockStaticMapProvider - мок рендерера статических карт
type MockStaticMapProvider struct {
	mock.Mock
	name string
}

func (m *MockStaticMapProvider) Name() string {
	return m.name
}

func (m *MockStaticMapProvider) Render(ctx context.Context, center domain.Coordinate, zoom int, req domain.StaticMapRequest) (*domain.MapImage, error) {
	args := m.Called(ctx, center, zoom, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MapImage), args.Error(1)
}

// MockTileProvider - мок сервера тайлов
type MockTileProvider struct {
	mock.Mock
}

func (m *MockTileProvider) FetchTile(ctx context.Context, z, x, y int) ([]byte, error) {
	args := m.Called(ctx, z, x, y)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockCalculationRepository - мок журнала расчётов
type MockCalculationRepository struct {
	mock.Mock
}

func (m *MockCalculationRepository) InsertBatch(ctx context.Context, records []domain.CalculationRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockCalculationRepository) GetStatistics(ctx context.Context) (*domain.Statistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Statistics), args.Error(1)
}

// MockStreamRepository - мок Redis Streams
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, count int) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) ClaimPending(ctx context.Context, stream, group, consumer string, minIdle time.Duration, count int) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, minIdle, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessages(ctx context.Context, stream, group string, messageIDs []string) error {
	args := m.Called(ctx, stream, group, messageIDs)
	return args.Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

// MockLocationService - мок геокодирования для калькулятора
type MockLocationService struct {
	mock.Mock
}

func (m *MockLocationService) Geocode(ctx context.Context, query string) (*domain.GeocodeResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeocodeResult), args.Error(1)
}

func (m *MockLocationService) Distance(ctx context.Context, from, to domain.Coordinate) (*domain.Route, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Route), args.Error(1)
}
