// Package osrm - клиент OSRM route service для автомобильных маршрутов
package osrm

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cme-savings-service/internal/config"
	"github.com/cme-savings-service/internal/domain"
	"github.com/cme-savings-service/internal/domain/repository"
	"github.com/cme-savings-service/internal/infrastructure/httpclient"
)

const codeNoRoute = "NoRoute"

type routeResponse struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Routes  []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
	} `json:"routes"`
}

type client struct {
	http    *httpclient.Client
	baseURL string
	logger  *zap.Logger
}

func NewOSRMClient(cfg *config.ProvidersConfig, logger *zap.Logger) repository.RoutingProvider {
	return &client{
		http: httpclient.New(httpclient.Options{
			Name:      domain.SourceOSRM,
			Timeout:   cfg.RequestTimeout,
			UserAgent: cfg.UserAgent,
		}, logger),
		baseURL: strings.TrimRight(cfg.OSRMBaseURL, "/"),
		logger:  logger,
	}
}

func (c *client) Name() string {
	return domain.SourceOSRM
}

// Route - кратчайший по времени автомобильный маршрут
func (c *client) Route(ctx context.Context, from, to domain.Coordinate) (*domain.Route, error) {
	reqURL := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=false&alternatives=false&steps=false",
		c.baseURL, from.Lon, from.Lat, to.Lon, to.Lat)

	var resp routeResponse
	if err := c.http.GetJSON(ctx, reqURL, &resp); err != nil {
		// OSRM отвечает 400 с кодом NoRoute, если точки не связаны дорогой
		var statusErr *httpclient.StatusError
		if stderrors.As(err, &statusErr) && statusErr.StatusCode == http.StatusBadRequest &&
			strings.Contains(statusErr.Body, codeNoRoute) {
			return nil, nil
		}
		return nil, err
	}

	if resp.Code == codeNoRoute || (resp.Code == "Ok" && len(resp.Routes) == 0) {
		return nil, nil
	}
	if resp.Code != "Ok" {
		c.logger.Error("OSRM returned non-OK code",
			zap.String("code", resp.Code),
			zap.String("message", resp.Message))
		return nil, fmt.Errorf("osrm returned code: %s", resp.Code)
	}

	r := resp.Routes[0]
	return &domain.Route{
		From:       from,
		To:         to,
		DistanceKm: r.Distance / 1000,
		Duration:   time.Duration(r.Duration * float64(time.Second)),
		Source:     domain.SourceOSRM,
	}, nil
}
