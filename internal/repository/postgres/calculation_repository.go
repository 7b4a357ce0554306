package postgres

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/cme-savings-service/internal/domain"
	"github.com/cme-savings-service/internal/domain/repository"
	"github.com/cme-savings-service/internal/pkg/errors"
)

const insertCalculationsQuery = `
	INSERT INTO calculation_log (
		id, session_minutes, points_per_session, sessions_per_year, participants,
		distance_km, distance_source, traditional_cost, optimized_cost,
		annual_savings, savings_percent, hours_saved, projected_savings,
		practice_postcode, created_at
	) VALUES (
		:id, :session_minutes, :points_per_session, :sessions_per_year, :participants,
		:distance_km, :distance_source, :traditional_cost, :optimized_cost,
		:annual_savings, :savings_percent, :hours_saved, :projected_savings,
		:practice_postcode, :created_at
	)
	ON CONFLICT (id) DO NOTHING
`

// aggregateRow - строка агрегатов журнала
type aggregateRow struct {
	Total                 int          `db:"total"`
	Last30Days            int          `db:"last_30_days"`
	AvgDistanceKm         float64      `db:"avg_distance_km"`
	AvgSessionsPerYear    float64      `db:"avg_sessions_per_year"`
	AvgAnnualSavings      float64      `db:"avg_annual_savings"`
	AvgSavingsPercent     float64      `db:"avg_savings_percent"`
	TotalProjectedSavings float64      `db:"total_projected_savings"`
	LastCalculationAt     sql.NullTime `db:"last_calculation_at"`
}

type calculationRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewCalculationRepository создает репозиторий журнала расчётов
func NewCalculationRepository(db *DB, logger *zap.Logger) repository.CalculationRepository {
	return &calculationRepository{
		db:     db,
		logger: logger,
	}
}

// InsertBatch вставляет записи одним multi-row INSERT в транзакции
func (r *calculationRepository) InsertBatch(ctx context.Context, records []domain.CalculationRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin transaction", zap.Error(err))
		return errors.ErrDatabaseError
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.NamedExecContext(ctx, insertCalculationsQuery, records); err != nil {
		r.logger.Error("Failed to insert calculation records",
			zap.Int("count", len(records)),
			zap.Error(err))
		return errors.ErrDatabaseError
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit calculation records", zap.Error(err))
		return errors.ErrDatabaseError
	}

	r.logger.Debug("Calculation records inserted", zap.Int("count", len(records)))
	return nil
}

// GetStatistics возвращает агрегированную статистику по журналу
func (r *calculationRepository) GetStatistics(ctx context.Context) (*domain.Statistics, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE created_at >= NOW() - INTERVAL '30 days') AS last_30_days,
			COALESCE(AVG(distance_km), 0) AS avg_distance_km,
			COALESCE(AVG(sessions_per_year), 0) AS avg_sessions_per_year,
			COALESCE(AVG(annual_savings), 0) AS avg_annual_savings,
			COALESCE(AVG(savings_percent), 0) AS avg_savings_percent,
			COALESCE(SUM(projected_savings), 0) AS total_projected_savings,
			MAX(created_at) AS last_calculation_at
		FROM calculation_log
	`

	var row aggregateRow
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		r.logger.Error("Failed to query calculation aggregates", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	bySource, err := r.countBySource(ctx)
	if err != nil {
		return nil, err
	}

	stats := &domain.Statistics{
		TotalCalculations:     row.Total,
		Last30Days:            row.Last30Days,
		AvgDistanceKm:         row.AvgDistanceKm,
		AvgSessionsPerYear:    row.AvgSessionsPerYear,
		AvgAnnualSavings:      row.AvgAnnualSavings,
		AvgSavingsPercent:     row.AvgSavingsPercent,
		TotalProjectedSavings: row.TotalProjectedSavings,
		ByDistanceSource:      bySource,
		GeneratedAt:           time.Now().UTC(),
	}
	if row.LastCalculationAt.Valid {
		t := row.LastCalculationAt.Time
		stats.LastCalculationAt = &t
	}

	return stats, nil
}

func (r *calculationRepository) countBySource(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT distance_source, COUNT(*)
		FROM calculation_log
		GROUP BY distance_source
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query distance sources", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var source string
		var count int
		if err := rows.Scan(&source, &count); err != nil {
			r.logger.Error("Failed to scan distance source", zap.Error(err))
			return nil, errors.ErrDatabaseError
		}
		result[source] = count
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Distance source rows error", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return result, nil
}
