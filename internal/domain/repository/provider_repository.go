package repository

import (
	"context"

	"github.com/cme-savings-service/internal/domain"
)

// GeocodingProvider - внешний сервис геокодирования.
// Отсутствие совпадения - (nil, nil), ошибка - только при сбое провайдера.
type GeocodingProvider interface {
	Name() string

	// Geocode ищет координаты по адресу
	Geocode(ctx context.Context, query string) (*domain.GeocodeResult, error)

	// ReverseGeocode возвращает адрес по координатам
	ReverseGeocode(ctx context.Context, lat, lon float64) (*domain.GeocodeResult, error)
}

// RoutingProvider - внешний сервис расчёта дорожного расстояния
type RoutingProvider interface {
	Name() string

	// Route возвращает расстояние и время в пути на автомобиле, (nil, nil) если маршрут не найден
	Route(ctx context.Context, from, to domain.Coordinate) (*domain.Route, error)
}

// StaticMapProvider - рендер статической карты с уже вычисленными центром и зумом
type StaticMapProvider interface {
	Name() string

	Render(ctx context.Context, center domain.Coordinate, zoom int, req domain.StaticMapRequest) (*domain.MapImage, error)
}

// TileProvider - источник растровых тайлов
type TileProvider interface {
	FetchTile(ctx context.Context, z, x, y int) ([]byte, error)
}
