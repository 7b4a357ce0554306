package mapbox

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/cme-savings-service/internal/config"
	"github.com/cme-savings-service/internal/domain"
	"github.com/cme-savings-service/internal/domain/repository"
	"github.com/cme-savings-service/internal/infrastructure/httpclient"
)

const drivingProfile = "mapbox/driving"

// matrixResponse - ответ Matrix API, null означает отсутствие маршрута
type matrixResponse struct {
	Code      string       `json:"code"`
	Message   string       `json:"message,omitempty"`
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

type client struct {
	http        *httpclient.Client
	baseURL     string
	accessToken string
	logger      *zap.Logger
}

// NewMapboxClient создает клиент Mapbox Matrix API для автомобильных расстояний
func NewMapboxClient(cfg *config.ProvidersConfig, logger *zap.Logger) repository.RoutingProvider {
	return &client{
		http: httpclient.New(httpclient.Options{
			Name:      domain.SourceMapbox,
			Timeout:   cfg.RequestTimeout,
			UserAgent: cfg.UserAgent,
		}, logger),
		baseURL:     cfg.MapboxBaseURL,
		accessToken: cfg.MapboxAccessToken,
		logger:      logger,
	}
}

func (c *client) Name() string {
	return domain.SourceMapbox
}

// Route возвращает расстояние и время в пути между двумя точками
func (c *client) Route(ctx context.Context, from, to domain.Coordinate) (*domain.Route, error) {
	// Mapbox ожидает lon,lat
	coordinates := fmt.Sprintf("%f,%f;%f,%f", from.Lon, from.Lat, to.Lon, to.Lat)

	params := url.Values{}
	params.Set("sources", "0")
	params.Set("destinations", "1")
	params.Set("annotations", "distance,duration")
	params.Set("access_token", c.accessToken)

	reqURL := fmt.Sprintf("%s/directions-matrix/v1/%s/%s?%s",
		c.baseURL, drivingProfile, coordinates, params.Encode())

	c.logger.Debug("Calling Mapbox Matrix API",
		zap.Float64("from_lat", from.Lat),
		zap.Float64("from_lon", from.Lon),
		zap.Float64("to_lat", to.Lat),
		zap.Float64("to_lon", to.Lon))

	var resp matrixResponse
	if err := c.http.GetJSON(ctx, reqURL, &resp); err != nil {
		return nil, err
	}

	if resp.Code == "NoRoute" {
		return nil, nil
	}
	if resp.Code != "Ok" {
		c.logger.Error("Mapbox API returned non-OK code",
			zap.String("code", resp.Code),
			zap.String("message", resp.Message))
		return nil, fmt.Errorf("mapbox API returned code: %s", resp.Code)
	}

	distance := cell(resp.Distances)
	duration := cell(resp.Durations)
	if distance == nil || duration == nil {
		return nil, nil
	}

	return &domain.Route{
		From:       from,
		To:         to,
		DistanceKm: *distance / 1000,
		Duration:   time.Duration(*duration * float64(time.Second)),
		Source:     domain.SourceMapbox,
	}, nil
}

func cell(m [][]*float64) *float64 {
	if len(m) == 0 || len(m[0]) == 0 {
		return nil
	}
	return m[0][0]
}
