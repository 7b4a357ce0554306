package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cme-savings-service/internal/calculator"
	"github.com/cme-savings-service/internal/domain"
	"github.com/cme-savings-service/internal/domain/repository"
	"github.com/cme-savings-service/internal/pkg/metrics"
	"github.com/cme-savings-service/internal/usecase/dto"
)

const publishTimeout = 2 * time.Second

// LocationService - геокодирование и расстояния для полного расчёта
type LocationService interface {
	Geocode(ctx context.Context, query string) (*domain.GeocodeResult, error)
	Distance(ctx context.Context, from, to domain.Coordinate) (*domain.Route, error)
}

type CalculatorUseCase struct {
	locations LocationService
	stream    repository.StreamRepository
	rates     calculator.Rates
	years     int
	logger    *zap.Logger
}

// NewCalculatorUseCase - stream может быть nil, тогда расчёты не журналируются
func NewCalculatorUseCase(
	locations LocationService,
	stream repository.StreamRepository,
	rates calculator.Rates,
	years int,
	logger *zap.Logger,
) *CalculatorUseCase {
	if years <= 0 {
		years = calculator.DefaultProjectionYears
	}
	return &CalculatorUseCase{
		locations: locations,
		stream:    stream,
		rates:     rates,
		years:     years,
		logger:    logger,
	}
}

func (uc *CalculatorUseCase) CalculateCME(req dto.CMERequest) (*calculator.CMERequirement, error) {
	result, err := calculator.Requirement(sessionInput(req))
	if err != nil {
		return nil, err
	}
	metrics.CalculationsTotal.WithLabelValues("cme").Inc()
	return &result, nil
}

func (uc *CalculatorUseCase) CalculateSavings(req dto.SavingsRequest) (*calculator.SavingsResult, error) {
	in := calculator.SavingsInput{
		SessionsPerYear:  req.SessionsPerYear,
		SessionHours:     req.SessionHours,
		OneWayDistanceKm: req.OneWayDistanceKm,
		Participants:     req.Participants,
		Years:            uc.projectionYears(req.Years),
	}
	if req.OneWayTravelMinutes != nil {
		hours := *req.OneWayTravelMinutes / 60
		in.OneWayTravelHours = &hours
	}

	result, err := calculator.Compare(in, uc.rates)
	if err != nil {
		return nil, err
	}
	metrics.CalculationsTotal.WithLabelValues("savings").Inc()
	return &result, nil
}

// Project - расчёт по адресам: геокодирование, расстояние, CME и экономия
func (uc *CalculatorUseCase) Project(ctx context.Context, req dto.ProjectionRequest) (*dto.ProjectionResponse, error) {
	requirement, err := calculator.Requirement(sessionInput(req.Session))
	if err != nil {
		return nil, err
	}

	var practice, venue *domain.GeocodeResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := uc.locations.Geocode(gctx, req.PracticeAddress)
		if err != nil {
			return fmt.Errorf("geocode practice address: %w", err)
		}
		practice = r
		return nil
	})
	g.Go(func() error {
		r, err := uc.locations.Geocode(gctx, req.VenueAddress)
		if err != nil {
			return fmt.Errorf("geocode venue address: %w", err)
		}
		venue = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	route, err := uc.locations.Distance(ctx, practice.Coordinate(), venue.Coordinate())
	if err != nil {
		return nil, fmt.Errorf("distance: %w", err)
	}

	sessionsPerYear := req.SessionsPerYear
	if sessionsPerYear == 0 {
		sessionsPerYear = requirement.SessionsPerYear
	}
	travelHours := route.DurationHours()

	savings, err := calculator.Compare(calculator.SavingsInput{
		SessionsPerYear:   sessionsPerYear,
		SessionHours:      float64(req.Session.DurationMinutes) / 60,
		OneWayDistanceKm:  route.DistanceKm,
		OneWayTravelHours: &travelHours,
		Participants:      req.Participants,
		Years:             uc.projectionYears(req.Years),
	}, uc.rates)
	if err != nil {
		return nil, err
	}
	metrics.CalculationsTotal.WithLabelValues("projection").Inc()

	resp := &dto.ProjectionResponse{
		CalculationID: uuid.New(),
		Practice:      practice,
		Venue:         venue,
		Route:         dto.NewRouteResponse(route),
		CME:           requirement,
		Savings:       savings,
	}

	uc.publish(ctx, domain.CalculationRecord{
		ID:               resp.CalculationID,
		SessionMinutes:   req.Session.DurationMinutes,
		PointsPerSession: requirement.PointsPerSession,
		SessionsPerYear:  sessionsPerYear,
		Participants:     max(req.Participants, 1),
		DistanceKm:       route.DistanceKm,
		DistanceSource:   route.Source,
		TraditionalCost:  savings.Traditional.Total,
		OptimizedCost:    savings.Optimized.Total,
		AnnualSavings:    savings.AnnualSavings,
		SavingsPercent:   savings.SavingsPercent,
		HoursSaved:       savings.HoursSaved,
		ProjectedSavings: savings.ProjectedSavings,
		PracticePostcode: practice.PostalCode,
		CreatedAt:        time.Now().UTC(),
	})

	return resp, nil
}

// publish - журналирование расчёта, ошибки не влияют на ответ
func (uc *CalculatorUseCase) publish(ctx context.Context, record domain.CalculationRecord) {
	if uc.stream == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := domain.CalculationCompletedEvent{Record: record}
	if err := uc.stream.PublishToStream(ctx, domain.StreamCalculationCompleted, event); err != nil {
		uc.logger.Warn("Failed to publish calculation event",
			zap.String("calculation_id", record.ID.String()),
			zap.Error(err))
	}
}

func (uc *CalculatorUseCase) projectionYears(years int) int {
	if years > 0 {
		return years
	}
	return uc.years
}

func sessionInput(req dto.CMERequest) calculator.SessionInput {
	return calculator.SessionInput{
		DurationMinutes: req.DurationMinutes,
		LearningControl: req.LearningControl,
		Interactive:     req.Interactive,
	}
}
