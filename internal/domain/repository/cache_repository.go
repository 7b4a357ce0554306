package repository

import (
	"context"
	"time"

	"github.com/cme-savings-service/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу, (nil, nil) при промахе
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error

	// GetTile получает растровый тайл из кеша
	GetTile(ctx context.Context, z, x, y int) ([]byte, error)

	// SetTile сохраняет растровый тайл в кеше
	SetTile(ctx context.Context, z, x, y int, data []byte, ttl time.Duration) error

	// GetStats получает статистику из кеша
	GetStats(ctx context.Context) (*domain.Statistics, error)

	// SetStats сохраняет статистику в кеше
	SetStats(ctx context.Context, stats *domain.Statistics, ttl time.Duration) error
}

// StaticMapCache - in-memory кеш отрендеренных статических карт
type StaticMapCache interface {
	Get(key string) (*domain.MapImage, bool)
	Set(key string, image *domain.MapImage)
}
