// Package booking is the reservation transaction coordinator: it validates the
// token, resolves the applicant, and performs the locked slot transaction that
// keeps bookedCount inside capacity under concurrent attempts.
package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"counseld/internal/apperr"
	"counseld/internal/models"
	"counseld/internal/store"
)

// Store is the persistence surface the coordinator needs. Reserve must hold an
// exclusive lock on the slot row for the duration of the callback.
type Store interface {
	ApplicantByEmail(ctx context.Context, email string) (*models.Applicant, error)
	CreateApplicant(ctx context.Context, a *models.Applicant) error
	Reserve(ctx context.Context, slotID uuid.UUID, fn func(tx store.ReserveTx, slot *models.ScheduleSlot) error) error
}

// TokenValidator checks a raw reservation token without consuming it.
type TokenValidator interface {
	Validate(ctx context.Context, raw string) (*models.ReservationToken, error)
}

// Service coordinates public booking creation.
type Service struct {
	store  Store
	tokens TokenValidator
	now    func() time.Time
}

// NewService wires the coordinator.
func NewService(st Store, tokens TokenValidator) *Service {
	return &Service{store: st, tokens: tokens, now: time.Now}
}

// CreateRequest is one booking attempt arriving through a reservation link.
type CreateRequest struct {
	Token  string  `json:"token"`
	SlotID string  `json:"slotId"`
	Email  string  `json:"email"`
	Name   string  `json:"name"`
	Phone  *string `json:"phone"`
}

// CreateResult identifies the booking that was created.
type CreateResult struct {
	BookingID uuid.UUID `json:"bookingId"`
}

// Create runs the booking flow described in the service contract:
//
//  1. validate the token (no writes yet),
//  2. find or create the applicant by email (outside the slot transaction;
//     applicant identity carries no capacity constraint, so the row may outlive
//     a failed booking — accepted behavior),
//  3. inside one transaction holding the slot row lock: check ownership,
//     status, start time, capacity, and double-submit; then insert the
//     booking, increment booked_count, and consume the token.
//
// Every failure inside step 3 rolls the whole transaction back.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	result, err := s.create(ctx, req)
	bookingsTotal.WithLabelValues(outcomeLabel(err)).Inc()
	return result, err
}

func (s *Service) create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	token, err := s.tokens.Validate(ctx, req.Token)
	if err != nil {
		return nil, err
	}

	slotID, err := uuid.Parse(strings.TrimSpace(req.SlotID))
	if err != nil {
		return nil, apperr.New(apperr.InvalidInput, "slotId must be a valid id")
	}

	email := strings.TrimSpace(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || name == "" {
		return nil, apperr.New(apperr.InvalidInput, "email and name are required")
	}

	applicant, err := s.resolveApplicant(ctx, email, name, req.Phone)
	if err != nil {
		return nil, err
	}

	var bookingID uuid.UUID
	err = s.store.Reserve(ctx, slotID, func(tx store.ReserveTx, slot *models.ScheduleSlot) error {
		if slot.CounselorID != token.CounselorID {
			return apperr.New(apperr.Unauthorized, "this link cannot book the requested slot")
		}
		if slot.Status != models.SlotOpen {
			return apperr.New(apperr.Conflict, "this slot is closed for booking")
		}
		if slot.StartAt.Before(s.now()) {
			return apperr.New(apperr.Conflict, "this slot has already started")
		}
		if slot.BookedCount >= slot.Capacity {
			return apperr.Newf(apperr.Conflict, "this slot is fully booked (capacity %d)", slot.Capacity)
		}

		exists, err := tx.BookingExists(slot.ID, applicant.ID)
		if err != nil {
			return err
		}
		if exists {
			return apperr.New(apperr.Conflict, "you are already booked for this slot")
		}

		b := &models.Booking{
			ID:          uuid.New(),
			SlotID:      slot.ID,
			ApplicantID: applicant.ID,
		}
		if err := tx.CreateBooking(b); err != nil {
			return err
		}
		if err := tx.IncrementBookedCount(slot.ID); err != nil {
			return err
		}
		if err := tx.ConsumeToken(token.ID, s.now()); err != nil {
			return err
		}

		bookingID = b.ID
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "slot not found")
		}
		return nil, err
	}

	log.Info().
		Str("booking_id", bookingID.String()).
		Str("slot_id", slotID.String()).
		Msg("booking created")

	return &CreateResult{BookingID: bookingID}, nil
}

func (s *Service) resolveApplicant(ctx context.Context, email, name string, phone *string) (*models.Applicant, error) {
	applicant, err := s.store.ApplicantByEmail(ctx, email)
	if err == nil {
		return applicant, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	applicant = &models.Applicant{
		ID:    uuid.New(),
		Email: email,
		Name:  name,
		Phone: phone,
	}
	if err := s.store.CreateApplicant(ctx, applicant); err != nil {
		return nil, err
	}
	return applicant, nil
}

func outcomeLabel(err error) string {
	if err == nil {
		return "created"
	}
	switch apperr.KindOf(err) {
	case apperr.Conflict:
		return "conflict"
	case apperr.Unauthorized:
		return "unauthorized"
	case apperr.NotFound:
		return "not_found"
	case apperr.InvalidInput:
		return "invalid"
	default:
		return "error"
	}
}
