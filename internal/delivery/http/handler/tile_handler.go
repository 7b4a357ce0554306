package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/cme-savings-service/internal/pkg/errors"
	"github.com/cme-savings-service/internal/pkg/utils"
)

// TileHandler - прокси растровых тайлов OSM для карты виджета
type TileHandler struct {
	tileUC TileService
	logger *zap.Logger
}

func NewTileHandler(tileUC TileService, logger *zap.Logger) *TileHandler {
	return &TileHandler{
		tileUC: tileUC,
		logger: logger,
	}
}

// GetTile godoc
// @Summary Растровый тайл
// @Tags Maps
// @Produce png
// @Param z path int true "Зум (0-19)"
// @Param x path int true "X"
// @Param y path int true "Y"
// @Success 200 {file} binary
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/tiles/{z}/{x}/{y}.png [get]
func (h *TileHandler) GetTile(c *fiber.Ctx) error {
	z, errZ := strconv.Atoi(c.Params("z"))
	x, errX := strconv.Atoi(c.Params("x"))
	y, errY := strconv.Atoi(c.Params("y"))
	if errZ != nil || errX != nil || errY != nil {
		return utils.SendError(c, errors.ErrInvalidTileCoordinates)
	}

	tile, cached, err := h.tileUC.GetTile(c.UserContext(), z, x, y)
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	c.Set("X-Cache", cacheHeader(cached))
	return c.Send(tile)
}
