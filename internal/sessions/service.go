// Package sessions upserts the one outcome record attached to each booking.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"counseld/internal/access"
	"counseld/internal/apperr"
	"counseld/internal/kst"
	"counseld/internal/models"
)

// Store is the persistence surface the session service needs. BookingByID must
// preload the slot so ownership can be checked.
type Store interface {
	BookingByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	SessionByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Session, error)
	CreateSession(ctx context.Context, sess *models.Session) error
	UpdateSession(ctx context.Context, sess *models.Session) error
	AppendAudit(ctx context.Context, entry *models.AuditLog) error
}

// Service implements the session upsert and lookup.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService wires the session service.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// View is a session rendered for API responses, instants in KST.
type View struct {
	ID        uuid.UUID              `json:"id"`
	BookingID uuid.UUID              `json:"bookingId"`
	Notes     *string                `json:"notes"`
	Outcome   *models.SessionOutcome `json:"outcome"`
	StartedAt *string                `json:"startedAt"`
	EndedAt   *string                `json:"endedAt"`
}

// Save upserts the session for a booking. The first save stamps startedAt;
// every save that supplies a non-null outcome refreshes endedAt. Omitted patch
// fields keep their stored value, explicit nulls clear them. No locking: a
// booking has a single owner and last-write-wins is acceptable here.
func (s *Service) Save(ctx context.Context, actor access.Actor, bookingID uuid.UUID, patch Patch) (*View, error) {
	if err := s.authorize(ctx, actor, bookingID); err != nil {
		return nil, err
	}

	if patch.Outcome.Set && patch.Outcome.Value != nil && !patch.Outcome.Value.Valid() {
		return nil, apperr.New(apperr.InvalidInput, "outcome must be COMPLETED, NO_SHOW, CANCELLED or FOLLOW_UP")
	}

	now := s.now()
	sess, err := s.store.SessionByBookingID(ctx, bookingID)
	created := false
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		created = true
		sess = &models.Session{
			ID:        uuid.New(),
			BookingID: bookingID,
			StartedAt: &now,
		}
	case err != nil:
		return nil, err
	}

	if patch.Notes.Set {
		sess.Notes = patch.Notes.Value
	}
	if patch.Outcome.Set {
		sess.Outcome = patch.Outcome.Value
		if patch.Outcome.Value != nil {
			endedAt := now
			sess.EndedAt = &endedAt
		}
	}

	if created {
		err = s.store.CreateSession(ctx, sess)
	} else {
		err = s.store.UpdateSession(ctx, sess)
	}
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actor, sess)

	return viewOf(sess), nil
}

// Get returns the session recorded for a booking, gated like Save.
func (s *Service) Get(ctx context.Context, actor access.Actor, bookingID uuid.UUID) (*View, error) {
	if err := s.authorize(ctx, actor, bookingID); err != nil {
		return nil, err
	}

	sess, err := s.store.SessionByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "no session recorded for this booking")
		}
		return nil, err
	}
	return viewOf(sess), nil
}

func (s *Service) authorize(ctx context.Context, actor access.Actor, bookingID uuid.UUID) error {
	booking, err := s.store.BookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound, "booking not found")
		}
		return err
	}
	if !access.CanAccess(actor, booking.Slot.CounselorID) {
		return apperr.New(apperr.Forbidden, "you may only record sessions for your own slots")
	}
	return nil
}

func viewOf(sess *models.Session) *View {
	return &View{
		ID:        sess.ID,
		BookingID: sess.BookingID,
		Notes:     sess.Notes,
		Outcome:   sess.Outcome,
		StartedAt: kst.FormatPtr(sess.StartedAt),
		EndedAt:   kst.FormatPtr(sess.EndedAt),
	}
}

func (s *Service) audit(ctx context.Context, actor access.Actor, sess *models.Session) {
	targetID := sess.ID.String()
	entry := &models.AuditLog{
		ActorID:    &actor.UserID,
		Action:     "session.saved",
		TargetType: "session",
		TargetID:   &targetID,
		Metadata:   []byte(fmt.Sprintf(`{"bookingId":%q}`, sess.BookingID)),
	}
	if err := s.store.AppendAudit(ctx, entry); err != nil {
		log.Warn().Err(err).Msg("append audit entry")
	}
}
