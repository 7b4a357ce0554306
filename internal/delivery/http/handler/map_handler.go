package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/cme-savings-service/internal/domain"
	"github.com/cme-savings-service/internal/pkg/errors"
	"github.com/cme-savings-service/internal/pkg/utils"
	"github.com/cme-savings-service/internal/pkg/validator"
	"github.com/cme-savings-service/internal/usecase/dto"
)

// MapHandler - статические карты и подбор зума
type MapHandler struct {
	mapUC  StaticMapService
	logger *zap.Logger
}

func NewMapHandler(mapUC StaticMapService, logger *zap.Logger) *MapHandler {
	return &MapHandler{
		mapUC:  mapUC,
		logger: logger,
	}
}

// StaticMap godoc
// @Summary Статическая карта с маркерами
// @Description PNG карты: Google Static Maps при MAP_PROVIDER=google, иначе тайлы OSM с маркерами. Заголовок X-Cache показывает попадание в кеш
// @Tags Maps
// @Accept json
// @Produce png
// @Param request body dto.StaticMapRequest true "Маркеры и размер"
// @Success 200 {file} binary
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/maps/static [post]
func (h *MapHandler) StaticMap(c *fiber.Ctx) error {
	var req dto.StaticMapRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	img, cached, err := h.mapUC.Render(c.UserContext(), req.ToDomain())
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Set(fiber.HeaderContentType, img.ContentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=1800")
	c.Set("X-Map-Source", img.Source)
	c.Set("X-Cache", cacheHeader(cached))
	return c.Send(img.Data)
}

// Zoom godoc
// @Summary Оптимальный зум для маркеров
// @Tags Maps
// @Produce json
// @Param markers query string true "Маркеры: lat,lon;lat,lon"
// @Success 200 {object} utils.SuccessResponse{data=dto.ZoomResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/maps/zoom [get]
func (h *MapHandler) Zoom(c *fiber.Ctx) error {
	markers, err := parseMarkers(c.Query("markers"))
	if err != nil {
		return utils.SendError(c, err)
	}

	view, err := h.mapUC.OptimalView(markers)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, view, nil)
}

// parseMarkers - "52.52,13.40;48.13,11.57"
func parseMarkers(raw string) ([]domain.Coordinate, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"markers": "required"})
	}

	parts := strings.Split(raw, ";")
	markers := make([]domain.Coordinate, 0, len(parts))
	for _, p := range parts {
		latLon := strings.Split(strings.TrimSpace(p), ",")
		if len(latLon) != 2 {
			return nil, errors.ErrInvalidCoordinates.WithDetails(map[string]interface{}{"marker": p})
		}
		lat, latErr := parseFloat(latLon[0])
		lon, lonErr := parseFloat(latLon[1])
		if latErr != nil || lonErr != nil {
			return nil, errors.ErrInvalidCoordinates.WithDetails(map[string]interface{}{"marker": p})
		}
		markers = append(markers, domain.Coordinate{Lat: lat, Lon: lon})
	}
	return markers, nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func cacheHeader(cached bool) string {
	if cached {
		return "HIT"
	}
	return "MISS"
}
