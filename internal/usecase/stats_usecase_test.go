package usecase_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cme-savings-service/internal/domain"
	"github.com/cme-savings-service/internal/usecase"
)

func TestGetStatistics_FromCache(t *testing.T) {
	calcRepo := new(MockCalculationRepository)
	cacheRepo := new(MockCacheRepository)
	stats := &domain.Statistics{TotalCalculations: 12}

	cacheRepo.On("GetStats", mock.Anything).Return(stats, nil)

	uc := usecase.NewStatsUseCase(calcRepo, cacheRepo, 5*time.Minute, zap.NewNop())
	got, err := uc.GetStatistics(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 12, got.TotalCalculations)
	calcRepo.AssertNotCalled(t, "GetStatistics", mock.Anything)
}

func TestGetStatistics_FromDatabase(t *testing.T) {
	calcRepo := new(MockCalculationRepository)
	cacheRepo := new(MockCacheRepository)
	stats := &domain.Statistics{TotalCalculations: 3, ByDistanceSource: map[string]int{"osrm": 3}}

	cacheRepo.On("GetStats", mock.Anything).Return(nil, stderrors.New("redis down"))
	calcRepo.On("GetStatistics", mock.Anything).Return(stats, nil)
	cacheRepo.On("SetStats", mock.Anything, stats, 5*time.Minute).Return(stderrors.New("redis down"))

	uc := usecase.NewStatsUseCase(calcRepo, cacheRepo, 5*time.Minute, zap.NewNop())
	got, err := uc.GetStatistics(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, got.ByDistanceSource["osrm"])
	cacheRepo.AssertExpectations(t)
}

func TestGetStatistics_DatabaseError(t *testing.T) {
	calcRepo := new(MockCalculationRepository)
	cacheRepo := new(MockCacheRepository)

	cacheRepo.On("GetStats", mock.Anything).Return(nil, nil)
	calcRepo.On("GetStatistics", mock.Anything).Return(nil, stderrors.New("db down"))

	uc := usecase.NewStatsUseCase(calcRepo, cacheRepo, time.Minute, zap.NewNop())
	_, err := uc.GetStatistics(context.Background())

	assert.Error(t, err)
}

func TestRefreshStatistics_BypassesCache(t *testing.T) {
	calcRepo := new(MockCalculationRepository)
	cacheRepo := new(MockCacheRepository)
	stats := &domain.Statistics{TotalCalculations: 7}

	calcRepo.On("GetStatistics", mock.Anything).Return(stats, nil)
	cacheRepo.On("SetStats", mock.Anything, stats, time.Minute).Return(nil)

	uc := usecase.NewStatsUseCase(calcRepo, cacheRepo, time.Minute, zap.NewNop())
	got, err := uc.RefreshStatistics(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 7, got.TotalCalculations)
	cacheRepo.AssertNotCalled(t, "GetStats", mock.Anything)
}
