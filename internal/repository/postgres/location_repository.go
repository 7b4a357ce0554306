package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/cme-savings-service/internal/domain"
	"github.com/cme-savings-service/internal/domain/repository"
	"github.com/cme-savings-service/internal/pkg/errors"
)

const selectOfflineLocation = `
	SELECT postal_code, city, state, country_code, lat, lon
	FROM offline_locations
`

type offlineLocationRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewOfflineLocationRepository создает репозиторий офлайн-справочника
func NewOfflineLocationRepository(db *DB, logger *zap.Logger) repository.OfflineLocationRepository {
	return &offlineLocationRepository{
		db:     db,
		logger: logger,
	}
}

func (r *offlineLocationRepository) FindByPostalCode(ctx context.Context, postalCode string, countryCodes []string) (*domain.OfflineLocation, error) {
	return r.findOne(ctx, "postal_code = $1", postalCode, countryCodes)
}

// FindByCity - поиск без учёта регистра, при нескольких совпадениях - самый крупный
func (r *offlineLocationRepository) FindByCity(ctx context.Context, city string, countryCodes []string) (*domain.OfflineLocation, error) {
	return r.findOne(ctx, "LOWER(city) = LOWER($1)", city, countryCodes)
}

func (r *offlineLocationRepository) findOne(ctx context.Context, condition, value string, countryCodes []string) (*domain.OfflineLocation, error) {
	query := selectOfflineLocation + " WHERE " + condition
	args := []interface{}{value}

	if len(countryCodes) > 0 {
		query += fmt.Sprintf(" AND country_code = ANY($%d)", len(args)+1)
		args = append(args, pq.Array(countryCodes))
	}
	query += " ORDER BY population DESC NULLS LAST LIMIT 1"

	var loc domain.OfflineLocation
	err := r.db.GetContext(ctx, &loc, query, args...)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to query offline location",
			zap.String("value", value),
			zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return &loc, nil
}
