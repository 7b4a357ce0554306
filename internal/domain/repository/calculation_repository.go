package repository

import (
	"context"

	"github.com/cme-savings-service/internal/domain"
)

// CalculationRepository - журнал выполненных расчётов
type CalculationRepository interface {
	// InsertBatch сохраняет пачку записей, повторная запись с тем же ID игнорируется
	InsertBatch(ctx context.Context, records []domain.CalculationRecord) error

	// GetStatistics возвращает агрегированную статистику по журналу
	GetStatistics(ctx context.Context) (*domain.Statistics, error)
}
