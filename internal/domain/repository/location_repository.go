package repository

import (
	"context"

	"github.com/cme-savings-service/internal/domain"
)

// OfflineLocationRepository - офлайн-справочник населённых пунктов,
// последний уровень цепочки геокодирования
type OfflineLocationRepository interface {
	// FindByPostalCode ищет населённый пункт по почтовому индексу
	FindByPostalCode(ctx context.Context, postalCode string, countryCodes []string) (*domain.OfflineLocation, error)

	// FindByCity ищет населённый пункт по названию
	FindByCity(ctx context.Context, city string, countryCodes []string) (*domain.OfflineLocation, error)
}
