package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/cme-savings-service/internal/pkg/errors"
	"github.com/cme-savings-service/internal/pkg/utils"
	"github.com/cme-savings-service/internal/pkg/validator"
	"github.com/cme-savings-service/internal/usecase/dto"
)

// GeocodeHandler - геокодирование и расстояния
type GeocodeHandler struct {
	geoUC  GeocodingService
	logger *zap.Logger
}

func NewGeocodeHandler(geoUC GeocodingService, logger *zap.Logger) *GeocodeHandler {
	return &GeocodeHandler{
		geoUC:  geoUC,
		logger: logger,
	}
}

// Geocode godoc
// @Summary Прямое геокодирование
// @Description Адрес или почтовый индекс в координаты. Порядок провайдеров задаётся MAP_PROVIDER, при недоступности используется офлайн-справочник
// @Tags Geocoding
// @Produce json
// @Param q query string true "Адрес или почтовый индекс"
// @Success 200 {object} utils.SuccessResponse{data=domain.GeocodeResult}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/geocode [get]
func (h *GeocodeHandler) Geocode(c *fiber.Ctx) error {
	q := c.Query("q")
	if len(q) < 2 || len(q) > 200 {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"q": "length must be between 2 and 200",
		}))
	}

	result, err := h.geoUC.Geocode(c.UserContext(), q)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Source: result.Source,
		Cached: result.Cached,
	})
}

// ReverseGeocode godoc
// @Summary Обратное геокодирование
// @Tags Geocoding
// @Produce json
// @Param lat query number true "Широта"
// @Param lon query number true "Долгота"
// @Success 200 {object} utils.SuccessResponse{data=domain.GeocodeResult}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/reverse-geocode [get]
func (h *GeocodeHandler) ReverseGeocode(c *fiber.Ctx) error {
	lat, latErr := parseFloat(c.Query("lat"))
	lon, lonErr := parseFloat(c.Query("lon"))
	if latErr != nil || lonErr != nil {
		return utils.SendError(c, errors.ErrInvalidCoordinates)
	}

	result, err := h.geoUC.ReverseGeocode(c.UserContext(), lat, lon)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Source: result.Source,
		Cached: result.Cached,
	})
}

// Distance godoc
// @Summary Расстояние на автомобиле
// @Description OSRM, Mapbox, Google по очереди, при недоступности оценка по прямой * 1.3
// @Tags Geocoding
// @Accept json
// @Produce json
// @Param request body dto.DistanceRequest true "Точки маршрута"
// @Success 200 {object} utils.SuccessResponse{data=dto.RouteResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/distance [post]
func (h *GeocodeHandler) Distance(c *fiber.Ctx) error {
	var req dto.DistanceRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	route, err := h.geoUC.Distance(c.UserContext(), req.From, req.To)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.NewRouteResponse(route), &utils.Meta{
		Source: route.Source,
		Cached: route.Cached,
	})
}
