package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/cme-savings-service/internal/domain/repository"
	"github.com/cme-savings-service/internal/repository/postgres"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewCalculationRepositoryForTest creates a calculation repository with test database and logger
func NewCalculationRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.CalculationRepository {
	return postgres.NewCalculationRepository(NewDBForTest(db, logger), logger)
}

// NewOfflineLocationRepositoryForTest creates an offline location repository with test database and logger
func NewOfflineLocationRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.OfflineLocationRepository {
	return postgres.NewOfflineLocationRepository(NewDBForTest(db, logger), logger)
}
