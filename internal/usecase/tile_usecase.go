package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cme-savings-service/internal/domain/repository"
	"github.com/cme-savings-service/internal/pkg/errors"
	"github.com/cme-savings-service/internal/pkg/metrics"
)

// MaxTileZoom - максимальный зум растровых тайлов OSM
const MaxTileZoom = 19

// TileUseCase - прокси растровых тайлов с кешем в Redis
type TileUseCase struct {
	upstream     repository.TileProvider
	cacheRepo    repository.CacheRepository
	logger       *zap.Logger
	tileCacheTTL time.Duration
}

func NewTileUseCase(
	upstream repository.TileProvider,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	tileCacheTTL time.Duration,
) *TileUseCase {
	return &TileUseCase{
		upstream:     upstream,
		cacheRepo:    cacheRepo,
		logger:       logger,
		tileCacheTTL: tileCacheTTL,
	}
}

// ValidateTile проверяет 0 <= z <= 19 и 0 <= x,y < 2^z
func ValidateTile(z, x, y int) error {
	if z < 0 || z > MaxTileZoom {
		return errors.ErrInvalidZoom.WithDetails(map[string]interface{}{"z": z, "max": MaxTileZoom})
	}
	n := 1 << uint(z)
	if x < 0 || x >= n || y < 0 || y >= n {
		return errors.ErrInvalidTileCoordinates.WithDetails(map[string]interface{}{"x": x, "y": y, "z": z})
	}
	return nil
}

// GetTile возвращает PNG тайла и флаг попадания в кеш
func (uc *TileUseCase) GetTile(ctx context.Context, z, x, y int) ([]byte, bool, error) {
	if err := ValidateTile(z, x, y); err != nil {
		return nil, false, err
	}

	cached, err := uc.cacheRepo.GetTile(ctx, z, x, y)
	if err == nil && cached != nil {
		metrics.CacheOperationsTotal.WithLabelValues("tile", "hit").Inc()
		return cached, true, nil
	}
	if err != nil {
		uc.logger.Warn("Failed to get tile from cache", zap.Error(err))
	}
	metrics.CacheOperationsTotal.WithLabelValues("tile", "miss").Inc()

	tile, err := uc.upstream.FetchTile(ctx, z, x, y)
	if err != nil {
		uc.logger.Error("Failed to fetch tile",
			zap.Int("z", z), zap.Int("x", x), zap.Int("y", y),
			zap.Error(err))
		return nil, false, fmt.Errorf("fetch tile %d/%d/%d: %w", z, x, y, errors.ErrProviderUnavailable)
	}

	if err := uc.cacheRepo.SetTile(ctx, z, x, y, tile, uc.tileCacheTTL); err != nil {
		uc.logger.Warn("Failed to cache tile", zap.Error(err))
	}

	return tile, false, nil
}

// FetchTile - TileProvider поверх кеша, используется компоновщиком статических карт
func (uc *TileUseCase) FetchTile(ctx context.Context, z, x, y int) ([]byte, error) {
	tile, _, err := uc.GetTile(ctx, z, x, y)
	return tile, err
}
