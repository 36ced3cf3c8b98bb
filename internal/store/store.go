// Package store is the gorm-backed persistence layer. Services declare the
// narrow interfaces they consume; *Store satisfies all of them.
package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"counseld/internal/models"
)

// ErrNotFound is returned by lookups when no row matches.
var ErrNotFound = gorm.ErrRecordNotFound

// Store bundles all database access behind one handle.
type Store struct {
	db *gorm.DB
}

// New wraps the provided GORM session.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// UserByID fetches a user by primary key.
func (s *Store) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// UserByEmail fetches a user by unique email.
func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return s.db.WithContext(ctx).Create(u).Error
}

// ApplicantByEmail returns the earliest applicant row matching email.
// Email is a lookup key, not a uniqueness constraint.
func (s *Store) ApplicantByEmail(ctx context.Context, email string) (*models.Applicant, error) {
	var a models.Applicant
	err := s.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at ASC").
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateApplicant inserts a new applicant row.
func (s *Store) CreateApplicant(ctx context.Context, a *models.Applicant) error {
	return s.db.WithContext(ctx).Create(a).Error
}
