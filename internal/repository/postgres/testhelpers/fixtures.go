package testhelpers

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cme-savings-service/internal/domain"
)

// OfflineFixture - строка справочника с населением для сортировки
type OfflineFixture struct {
	domain.OfflineLocation
	Population *int `db:"population"`
}

// InsertOfflineLocations загружает строки офлайн-справочника
func InsertOfflineLocations(ctx context.Context, db *sqlx.DB, rows []OfflineFixture) error {
	query := `
		INSERT INTO offline_locations (postal_code, city, state, country_code, lat, lon, population)
		VALUES (:postal_code, :city, :state, :country_code, :lat, :lon, :population)
	`
	for _, row := range rows {
		if _, err := db.NamedExecContext(ctx, query, row); err != nil {
			return fmt.Errorf("insert offline location %s: %w", row.City, err)
		}
	}
	return nil
}
