package main

// @title CME Savings Service API
// @version 1.0.0
// @description Бэкенд калькулятора экономии на непрерывном образовании стоматологов (CME).
// @description
// @description Основные возможности:
// @description - Расчёт баллов CME и необходимого количества сессий
// @description - Сравнение затрат очного и онлайн-обучения
// @description - Геокодирование адресов и расстояние между практикой и местом проведения курса
// @description - Статические карты с маркерами и прокси растровых тайлов OSM

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/cme-savings-service/docs"
	"github.com/cme-savings-service/internal/calculator"
	"github.com/cme-savings-service/internal/config"
	httpDelivery "github.com/cme-savings-service/internal/delivery/http"
	"github.com/cme-savings-service/internal/delivery/http/handler"
	"github.com/cme-savings-service/internal/domain/repository"
	"github.com/cme-savings-service/internal/infrastructure/google"
	"github.com/cme-savings-service/internal/infrastructure/mapbox"
	"github.com/cme-savings-service/internal/infrastructure/nominatim"
	"github.com/cme-savings-service/internal/infrastructure/osmtiles"
	"github.com/cme-savings-service/internal/infrastructure/osrm"
	"github.com/cme-savings-service/internal/infrastructure/staticmap"
	"github.com/cme-savings-service/internal/pkg/logger"
	"github.com/cme-savings-service/internal/repository/cache"
	"github.com/cme-savings-service/internal/repository/mapcache"
	"github.com/cme-savings-service/internal/repository/postgres"
	redisRepo "github.com/cme-savings-service/internal/repository/redis"
	"github.com/cme-savings-service/internal/usecase"
	"github.com/cme-savings-service/internal/worker"
	mapcacheWorker "github.com/cme-savings-service/internal/worker/mapcache"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "cme-api")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting CME Savings Service")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("map_provider", cfg.Providers.MapProvider),
	)

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()
	log.Info("PostgreSQL connected")

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()
	log.Info("Redis connected")

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}
	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}

	log.Info("All connections healthy")

	// 6. Initialize Repositories
	cacheRepo := cache.NewCacheRepository(redisClient)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), cfg.Worker.StreamReadTimeout, log)
	calcRepo := postgres.NewCalculationRepository(db, log)
	offlineRepo := postgres.NewOfflineLocationRepository(db, log)
	staticMapCache := mapcache.New(cfg.StaticMap.CacheTTL, cfg.StaticMap.MaxEntries)

	// 7. Map providers: порядок в срезах задаёт цепочку fallback
	var (
		geocoders []repository.GeocodingProvider
		routers   []repository.RoutingProvider
		renderers []repository.StaticMapProvider
	)

	var googleClient *google.Client
	if cfg.Providers.GoogleAPIKey != "" {
		googleClient = google.NewGoogleClient(&cfg.Providers, log)
	}

	if cfg.UseGoogle() {
		geocoders = append(geocoders, googleClient)
	}
	geocoders = append(geocoders, nominatim.NewNominatimClient(&cfg.Providers, log))

	routers = append(routers, osrm.NewOSRMClient(&cfg.Providers, log))
	if cfg.Providers.MapboxAccessToken != "" {
		routers = append(routers, mapbox.NewMapboxClient(&cfg.Providers, log))
	}
	if googleClient != nil {
		routers = append(routers, googleClient)
	}

	log.Info("Map providers initialized",
		zap.Int("geocoders", len(geocoders)),
		zap.Int("routers", len(routers)))

	// 8. Initialize Use Cases
	tileUC := usecase.NewTileUseCase(
		osmtiles.NewTileClient(&cfg.Providers, log),
		cacheRepo,
		log,
		cfg.Cache.TilesCacheTTL,
	)

	if cfg.UseGoogle() {
		renderers = append(renderers, googleClient)
	}
	// локальный рендерер берёт тайлы через кеш тайлов
	renderers = append(renderers, staticmap.NewRenderer(tileUC, log))

	geocodingUC := usecase.NewGeocodingUseCase(
		geocoders,
		routers,
		offlineRepo,
		cacheRepo,
		usecase.GeocodingConfig{
			GeocodeTTL:      cfg.Cache.GeocodeCacheTTL,
			RouteTTL:        cfg.Cache.RouteCacheTTL,
			AverageSpeedKmh: cfg.Calculator.AverageSpeedKmh,
			CountryCodes:    cfg.Providers.CountryCodes,
			LookupTimeout:   cfg.Providers.LookupTimeout,
		},
		log,
	)

	rates := calculator.Rates{
		HourlyRate:                cfg.Calculator.HourlyRate,
		PerKmRate:                 cfg.Calculator.PerKmRate,
		AverageSpeedKmh:           cfg.Calculator.AverageSpeedKmh,
		TraditionalFeePerSession:  cfg.Calculator.TraditionalFeePerSession,
		OnlineSubscriptionPerYear: cfg.Calculator.OnlineSubscriptionPerYear,
		OnlinePracticeTimeShare:   cfg.Calculator.OnlinePracticeTimeShare,
	}

	var calcStream repository.StreamRepository
	if cfg.Worker.Enabled {
		calcStream = streamRepo
	}
	calculatorUC := usecase.NewCalculatorUseCase(geocodingUC, calcStream, rates, cfg.Calculator.ProjectionYears, log)
	staticMapUC := usecase.NewStaticMapUseCase(renderers, staticMapCache, log)
	statsUC := usecase.NewStatsUseCase(calcRepo, cacheRepo, cfg.Cache.StatsCacheTTL, log)

	log.Info("Use cases initialized")

	// 9. Initialize HTTP Handlers
	handlers := httpDelivery.Handlers{
		Calculator: handler.NewCalculatorHandler(calculatorUC, log),
		Geocode:    handler.NewGeocodeHandler(geocodingUC, log),
		Map:        handler.NewMapHandler(staticMapUC, log),
		Tile:       handler.NewTileHandler(tileUC, log),
		Stats:      handler.NewStatsHandler(statsUC, log),
		Health: handler.NewHealthHandler(map[string]handler.HealthChecker{
			"postgres": db,
			"redis":    redisClient,
		}, log),
	}

	log.Info("HTTP handlers initialized")

	// 10. Background workers
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(mapcacheWorker.NewJanitorWorker(staticMapCache, cfg.StaticMap.CleanupInterval, log))
	if err := workerManager.Start(workerCtx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// 11. Initialize HTTP Server
	server := httpDelivery.NewServer(cfg, log, handlers)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 12. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	workerCancel()
	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
