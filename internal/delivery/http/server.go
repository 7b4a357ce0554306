package http

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/cme-savings-service/internal/config"
	"github.com/cme-savings-service/internal/delivery/http/handler"
	"github.com/cme-savings-service/internal/delivery/http/middleware"
	"github.com/cme-savings-service/internal/pkg/errors"
	"github.com/cme-savings-service/internal/pkg/utils"
)

// Handlers - обработчики, которые регистрирует сервер
type Handlers struct {
	Calculator *handler.CalculatorHandler
	Geocode    *handler.GeocodeHandler
	Map        *handler.MapHandler
	Tile       *handler.TileHandler
	Stats      *handler.StatsHandler
	Health     *handler.HealthHandler
}

// Server - HTTP сервер на основе Fiber
type Server struct {
	app      *fiber.App
	config   *config.Config
	logger   *zap.Logger
	handlers Handlers
}

// NewServer - создание нового HTTP сервера
func NewServer(cfg *config.Config, logger *zap.Logger, handlers Handlers) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "CME Savings Service",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    256 * 1024,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:      app,
		config:   cfg,
		logger:   logger,
		handlers: handlers,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// App - доступ к fiber.App для тестов
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.Metrics())
	s.app.Use(middleware.CORS(s.config.HTTP.AllowOrigins))
	s.app.Use(middleware.Embed(s.config.HTTP.EmbedAllowedOrigins))
	s.app.Use(middleware.RateLimit(s.config.HTTP.RateLimitPerMinute))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

func (s *Server) setupRoutes() {
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := s.app.Group("/api/v1")

	api.Get("/health", s.handlers.Health.Health)

	calc := api.Group("/calculator")
	calc.Post("/cme", s.handlers.Calculator.CME)
	calc.Post("/savings", s.handlers.Calculator.Savings)
	calc.Post("/projection", s.handlers.Calculator.Projection)

	api.Get("/geocode", s.handlers.Geocode.Geocode)
	api.Get("/reverse-geocode", s.handlers.Geocode.ReverseGeocode)
	api.Post("/distance", s.handlers.Geocode.Distance)

	api.Post("/maps/static", s.handlers.Map.StaticMap)
	api.Get("/maps/zoom", s.handlers.Map.Zoom)
	api.Get("/tiles/:z/:x/:y.png", s.handlers.Tile.GetTile)

	api.Get("/stats", s.handlers.Stats.GetStatistics)
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - ошибки fiber (404, 405, body limit) в общем формате
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if stderrors.As(err, &fe) {
			appErr := errors.New("HTTP_ERROR", fe.Message, fe.Code)
			if fe.Code == fiber.StatusNotFound {
				appErr = errors.New("NOT_FOUND", "Route not found", fe.Code)
			}
			return c.Status(fe.Code).JSON(utils.ErrorResponse{Error: appErr})
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return utils.SendError(c, err)
	}
}
