package db

import (
	"context"

	"gorm.io/gorm"

	"counseld/internal/models"
)

// Migrate performs schema migrations for the persistent models. Order matters:
// referenced tables first so foreign keys resolve.
func Migrate(ctx context.Context, database *gorm.DB) error {
	return database.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.ScheduleSlot{},
		&models.ReservationToken{},
		&models.Applicant{},
		&models.Booking{},
		&models.Session{},
		&models.AuditLog{},
	)
}
