package db

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"counseld/internal/models"
)

// SeedAdmin inserts a bootstrap admin account if one with the given email does
// not already exist. No-op when email or passwordHash is empty.
func SeedAdmin(ctx context.Context, database *gorm.DB, email, passwordHash string) error {
	if email == "" || passwordHash == "" {
		return nil
	}
	admin := models.User{
		Email:        email,
		PasswordHash: passwordHash,
		Role:         models.RoleAdmin,
	}
	return database.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(&admin).Error
}
