// Package osmtiles - загрузка растровых тайлов с OSM tile server
package osmtiles

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cme-savings-service/internal/config"
	"github.com/cme-savings-service/internal/domain/repository"
	"github.com/cme-savings-service/internal/infrastructure/httpclient"
)

const providerName = "osm_tiles"

type client struct {
	http    *httpclient.Client
	baseURL string
	logger  *zap.Logger
}

// NewTileClient - tile usage policy OSM требует идентифицирующий User-Agent
func NewTileClient(cfg *config.ProvidersConfig, logger *zap.Logger) repository.TileProvider {
	return &client{
		http: httpclient.New(httpclient.Options{
			Name:      providerName,
			Timeout:   cfg.RequestTimeout,
			UserAgent: cfg.UserAgent,
			RateLimit: cfg.TileRateLimit,
			Burst:     4,
		}, logger),
		baseURL: strings.TrimRight(cfg.TileBaseURL, "/"),
		logger:  logger,
	}
}

func (c *client) FetchTile(ctx context.Context, z, x, y int) ([]byte, error) {
	resp, err := c.http.Get(ctx, fmt.Sprintf("%s/%d/%d/%d.png", c.baseURL, z, x, y))
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(resp.ContentType, "image/") {
		c.logger.Warn("Tile server returned non-image content",
			zap.String("content_type", resp.ContentType),
			zap.Int("z", z), zap.Int("x", x), zap.Int("y", y))
		return nil, fmt.Errorf("tile %d/%d/%d: unexpected content type %q", z, x, y, resp.ContentType)
	}
	return resp.Body, nil
}
