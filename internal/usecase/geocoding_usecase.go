package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/cme-savings-service/internal/domain"
	"github.com/cme-savings-service/internal/domain/repository"
	"github.com/cme-savings-service/internal/pkg/errors"
	"github.com/cme-savings-service/internal/pkg/metrics"
	"github.com/cme-savings-service/internal/pkg/utils"
)

var postalCodePattern = regexp.MustCompile(`\b\d{4,5}\b`)

// DefaultLookupTimeout - предел для общего запроса к цепочке провайдеров
const DefaultLookupTimeout = 30 * time.Second

// GeocodingConfig - TTL кешей и скорость для оценки времени в пути
type GeocodingConfig struct {
	GeocodeTTL      time.Duration
	RouteTTL        time.Duration
	AverageSpeedKmh float64
	CountryCodes    []string
	// LookupTimeout ограничивает общий запрос, который не зависит от отмены отдельного клиента
	LookupTimeout time.Duration
}

// GeocodingUseCase - фасад над провайдерами карт: кеш, провайдеры по порядку, офлайн-справочник, оценка
type GeocodingUseCase struct {
	geocoders []repository.GeocodingProvider
	routers   []repository.RoutingProvider
	offline   repository.OfflineLocationRepository
	cacheRepo repository.CacheRepository
	cfg       GeocodingConfig
	group     singleflight.Group
	logger    *zap.Logger
}

// NewGeocodingUseCase - провайдеры опрашиваются в переданном порядке, offline может быть nil
func NewGeocodingUseCase(
	geocoders []repository.GeocodingProvider,
	routers []repository.RoutingProvider,
	offline repository.OfflineLocationRepository,
	cacheRepo repository.CacheRepository,
	cfg GeocodingConfig,
	logger *zap.Logger,
) *GeocodingUseCase {
	if cfg.AverageSpeedKmh <= 0 {
		cfg.AverageSpeedKmh = 60
	}
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = DefaultLookupTimeout
	}
	return &GeocodingUseCase{
		geocoders: geocoders,
		routers:   routers,
		offline:   offline,
		cacheRepo: cacheRepo,
		cfg:       cfg,
		logger:    logger,
	}
}

// NormalizeQuery - схлопывание пробелов
func NormalizeQuery(q string) string {
	return strings.Join(strings.Fields(q), " ")
}

// GeocodeCacheKey - ключ кеша прямого геокодирования
func GeocodeCacheKey(query string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(NormalizeQuery(query))))
	return "geocode:" + hex.EncodeToString(sum[:])
}

// RouteCacheKey - ключ кеша маршрута, координаты округлены до 5 знаков
func RouteCacheKey(from, to domain.Coordinate) string {
	return fmt.Sprintf("route:%.5f,%.5f:%.5f,%.5f", from.Lat, from.Lon, to.Lat, to.Lon)
}

func reverseCacheKey(lat, lon float64) string {
	return fmt.Sprintf("reverse:%.5f,%.5f", lat, lon)
}

// Geocode - адрес или почтовый индекс в координаты
func (uc *GeocodingUseCase) Geocode(ctx context.Context, query string) (*domain.GeocodeResult, error) {
	q := NormalizeQuery(query)
	if q == "" {
		return nil, errors.ErrInvalidRequest.WithMessage("query must not be empty")
	}

	key := GeocodeCacheKey(q)
	if cached := uc.cachedGeocode(ctx, key); cached != nil {
		return cached, nil
	}

	v, err := uc.shared(ctx, key, func(ctx context.Context) (interface{}, error) {
		result := uc.geocodeProviders(ctx, q)
		if result != nil {
			uc.store(ctx, key, result, uc.cfg.GeocodeTTL)
			return result, nil
		}

		// Офлайн-результаты не кешируются: провайдеры могут вернуться
		result, err := uc.geocodeOffline(ctx, q)
		if err != nil {
			return nil, err
		}
		if result == nil {
			return nil, errors.ErrLocationNotFound.WithDetails(map[string]interface{}{"query": q})
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}

	result := *v.(*domain.GeocodeResult)
	return &result, nil
}

func (uc *GeocodingUseCase) geocodeProviders(ctx context.Context, q string) *domain.GeocodeResult {
	for _, p := range uc.geocoders {
		result, err := p.Geocode(ctx, q)
		if err != nil {
			uc.logger.Warn("Geocoding provider failed, trying next",
				zap.String("provider", p.Name()),
				zap.Error(err))
			continue
		}
		if result == nil {
			continue
		}

		metrics.GeocodeFallbacksTotal.WithLabelValues("geocode", result.Source).Inc()
		return result
	}
	return nil
}

func (uc *GeocodingUseCase) geocodeOffline(ctx context.Context, q string) (*domain.GeocodeResult, error) {
	if uc.offline == nil {
		return nil, nil
	}

	var (
		loc *domain.OfflineLocation
		err error
	)
	if postal := postalCodePattern.FindString(q); postal != "" {
		loc, err = uc.offline.FindByPostalCode(ctx, postal, uc.cfg.CountryCodes)
		if err != nil {
			return nil, fmt.Errorf("offline postal code lookup: %w", err)
		}
	}
	if loc == nil {
		if city := cityCandidate(q); city != "" {
			loc, err = uc.offline.FindByCity(ctx, city, uc.cfg.CountryCodes)
			if err != nil {
				return nil, fmt.Errorf("offline city lookup: %w", err)
			}
		}
	}
	if loc == nil {
		return nil, nil
	}

	uc.logger.Info("Resolved location from offline table", zap.String("query", q))
	metrics.GeocodeFallbacksTotal.WithLabelValues("geocode", domain.SourceOffline).Inc()
	return loc.ToGeocodeResult(q), nil
}

// cityCandidate - последняя часть адреса без цифр: "Hauptstr. 1, 10117 Berlin" -> "Berlin"
func cityCandidate(q string) string {
	parts := strings.Split(q, ",")
	last := parts[len(parts)-1]

	words := make([]string, 0, 4)
	for _, w := range strings.Fields(last) {
		if strings.IndexFunc(w, func(r rune) bool { return r >= '0' && r <= '9' }) >= 0 {
			continue
		}
		words = append(words, w)
	}
	return strings.Join(words, " ")
}

// ReverseGeocode - координаты в адрес, без офлайн-справочника
func (uc *GeocodingUseCase) ReverseGeocode(ctx context.Context, lat, lon float64) (*domain.GeocodeResult, error) {
	if !utils.ValidateCoordinates(lat, lon) {
		return nil, errors.ErrInvalidCoordinates
	}

	key := reverseCacheKey(lat, lon)
	if cached := uc.cachedGeocode(ctx, key); cached != nil {
		return cached, nil
	}

	v, err := uc.shared(ctx, key, func(ctx context.Context) (interface{}, error) {
		for _, p := range uc.geocoders {
			result, err := p.ReverseGeocode(ctx, lat, lon)
			if err != nil {
				uc.logger.Warn("Reverse geocoding provider failed, trying next",
					zap.String("provider", p.Name()),
					zap.Error(err))
				continue
			}
			if result == nil {
				continue
			}

			metrics.GeocodeFallbacksTotal.WithLabelValues("reverse", result.Source).Inc()
			uc.store(ctx, key, result, uc.cfg.GeocodeTTL)
			return result, nil
		}
		return nil, errors.ErrLocationNotFound
	})
	if err != nil {
		return nil, err
	}

	result := *v.(*domain.GeocodeResult)
	return &result, nil
}

// Distance - дорожное расстояние, при недоступности всех провайдеров оценка по прямой
func (uc *GeocodingUseCase) Distance(ctx context.Context, from, to domain.Coordinate) (*domain.Route, error) {
	if !utils.ValidateCoordinates(from.Lat, from.Lon) || !utils.ValidateCoordinates(to.Lat, to.Lon) {
		return nil, errors.ErrInvalidCoordinates
	}

	key := RouteCacheKey(from, to)
	data, err := uc.cacheRepo.Get(ctx, key)
	if err != nil {
		uc.logger.Warn("Failed to get route from cache", zap.Error(err))
	}
	if err == nil && data != nil {
		var cached domain.Route
		if err := json.Unmarshal(data, &cached); err == nil {
			metrics.CacheOperationsTotal.WithLabelValues("route", "hit").Inc()
			cached.Cached = true
			return &cached, nil
		}
	}
	metrics.CacheOperationsTotal.WithLabelValues("route", "miss").Inc()

	v, err := uc.shared(ctx, key, func(ctx context.Context) (interface{}, error) {
		for _, p := range uc.routers {
			route, err := p.Route(ctx, from, to)
			if err != nil {
				uc.logger.Warn("Routing provider failed, trying next",
					zap.String("provider", p.Name()),
					zap.Error(err))
				continue
			}
			if route == nil {
				continue
			}

			metrics.GeocodeFallbacksTotal.WithLabelValues("route", route.Source).Inc()
			uc.store(ctx, key, route, uc.cfg.RouteTTL)
			return route, nil
		}

		metrics.GeocodeFallbacksTotal.WithLabelValues("route", domain.SourceEstimate).Inc()
		return uc.estimate(from, to), nil
	})
	if err != nil {
		return nil, err
	}

	route := *v.(*domain.Route)
	return &route, nil
}

// shared - один запрос к провайдерам на ключ. Работа идёт в контексте, отвязанном от
// отмены первого клиента; каждый ожидающий возвращается по своему ctx.
func (uc *GeocodingUseCase) shared(ctx context.Context, key string, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	ch := uc.group.DoChan(key, func() (interface{}, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.cfg.LookupTimeout)
		defer cancel()
		return fn(lookupCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

// estimate - haversine * 1.3 при средней скорости
func (uc *GeocodingUseCase) estimate(from, to domain.Coordinate) *domain.Route {
	km := utils.EstimateRoadDistance(from.Lat, from.Lon, to.Lat, to.Lon)
	hours := km / uc.cfg.AverageSpeedKmh

	return &domain.Route{
		From:       from,
		To:         to,
		DistanceKm: utils.Round(km, 2),
		Duration:   time.Duration(hours * float64(time.Hour)).Round(time.Second),
		Source:     domain.SourceEstimate,
	}
}

func (uc *GeocodingUseCase) cachedGeocode(ctx context.Context, key string) *domain.GeocodeResult {
	data, err := uc.cacheRepo.Get(ctx, key)
	if err != nil {
		uc.logger.Warn("Failed to get geocode result from cache", zap.String("key", key), zap.Error(err))
	}
	if err != nil || data == nil {
		metrics.CacheOperationsTotal.WithLabelValues("geocode", "miss").Inc()
		return nil
	}

	var result domain.GeocodeResult
	if err := json.Unmarshal(data, &result); err != nil {
		uc.logger.Warn("Corrupted geocode cache entry", zap.String("key", key), zap.Error(err))
		metrics.CacheOperationsTotal.WithLabelValues("geocode", "miss").Inc()
		return nil
	}

	metrics.CacheOperationsTotal.WithLabelValues("geocode", "hit").Inc()
	result.Cached = true
	return &result
}

func (uc *GeocodingUseCase) store(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		uc.logger.Warn("Failed to marshal cache value", zap.String("key", key), zap.Error(err))
		return
	}
	if err := uc.cacheRepo.Set(ctx, key, data, ttl); err != nil {
		uc.logger.Warn("Failed to cache value", zap.String("key", key), zap.Error(err))
	}
}
