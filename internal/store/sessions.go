package store

import (
	"context"

	"github.com/google/uuid"

	"counseld/internal/models"
)

// BookingByID fetches a booking with its slot preloaded for ownership checks.
func (s *Store) BookingByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var b models.Booking
	err := s.db.WithContext(ctx).
		Preload("Slot").
		First(&b, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// SessionByBookingID fetches the at-most-one session attached to a booking.
func (s *Store) SessionByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Session, error) {
	var sess models.Session
	if err := s.db.WithContext(ctx).First(&sess, "booking_id = ?", bookingID).Error; err != nil {
		return nil, err
	}
	return &sess, nil
}

// CreateSession inserts a new session row.
func (s *Store) CreateSession(ctx context.Context, sess *models.Session) error {
	return s.db.WithContext(ctx).Create(sess).Error
}

// UpdateSession persists in-place field changes to an existing session.
func (s *Store) UpdateSession(ctx context.Context, sess *models.Session) error {
	return s.db.WithContext(ctx).Save(sess).Error
}
