package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/cme-savings-service/internal/pkg/errors"
	"github.com/cme-savings-service/internal/pkg/utils"
	"github.com/cme-savings-service/internal/pkg/validator"
	"github.com/cme-savings-service/internal/usecase/dto"
)

// CalculatorHandler - обработчик расчётов CME и экономии
type CalculatorHandler struct {
	calcUC CalculatorService
	logger *zap.Logger
}

func NewCalculatorHandler(calcUC CalculatorService, logger *zap.Logger) *CalculatorHandler {
	return &CalculatorHandler{
		calcUC: calcUC,
		logger: logger,
	}
}

// CME godoc
// @Summary Требование CME
// @Description Баллы за одну сессию и количество сессий в год и за 5-летний цикл (125 баллов)
// @Tags Calculator
// @Accept json
// @Produce json
// @Param request body dto.CMERequest true "Параметры сессии"
// @Success 200 {object} utils.SuccessResponse{data=calculator.CMERequirement}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/calculator/cme [post]
func (h *CalculatorHandler) CME(c *fiber.Ctx) error {
	var req dto.CMERequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.calcUC.CalculateCME(req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// Savings godoc
// @Summary Экономия при известном расстоянии
// @Description Сравнение очного и онлайн-обучения: дорога, время, взносы, прогноз на несколько лет
// @Tags Calculator
// @Accept json
// @Produce json
// @Param request body dto.SavingsRequest true "Параметры расчёта"
// @Success 200 {object} utils.SuccessResponse{data=calculator.SavingsResult}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/calculator/savings [post]
func (h *CalculatorHandler) Savings(c *fiber.Ctx) error {
	var req dto.SavingsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.calcUC.CalculateSavings(req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// Projection godoc
// @Summary Полный расчёт по адресам
// @Description Геокодирует адрес практики и места курсов, определяет расстояние и считает CME и экономию
// @Tags Calculator
// @Accept json
// @Produce json
// @Param request body dto.ProjectionRequest true "Адреса и параметры сессии"
// @Success 200 {object} utils.SuccessResponse{data=dto.ProjectionResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/calculator/projection [post]
func (h *CalculatorHandler) Projection(c *fiber.Ctx) error {
	start := time.Now()

	var req dto.ProjectionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid request body"))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.calcUC.Project(c.UserContext(), req)
	if err != nil {
		h.logger.Warn("Projection failed", zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Source:   result.Route.Source,
		TimeMSec: float64(time.Since(start).Microseconds()) / 1000,
	})
}
