// Package slots manages the schedule slot lifecycle: creation, listing,
// updates, deletion, and the public availability query.
package slots

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"counseld/internal/access"
	"counseld/internal/apperr"
	"counseld/internal/kst"
	"counseld/internal/models"
)

// Store is the persistence surface the slot service needs.
type Store interface {
	SlotByID(ctx context.Context, id uuid.UUID) (*models.ScheduleSlot, error)
	SlotByCounselorAndStart(ctx context.Context, counselorID uuid.UUID, startAt time.Time) (*models.ScheduleSlot, error)
	CreateSlot(ctx context.Context, slot *models.ScheduleSlot) error
	UpdateSlot(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteSlot(ctx context.Context, id uuid.UUID) error
	SlotsByCounselor(ctx context.Context, counselorID uuid.UUID) ([]models.ScheduleSlot, error)
	SlotsByCounselorBetween(ctx context.Context, counselorID uuid.UUID, from, to time.Time) ([]models.ScheduleSlot, error)
	OpenSlotsFrom(ctx context.Context, counselorID uuid.UUID, from time.Time) ([]models.ScheduleSlot, error)
	BookingsBySlotID(ctx context.Context, slotID uuid.UUID) ([]models.Booking, error)
	BookingsBySlotIDs(ctx context.Context, slotIDs []uuid.UUID) ([]models.Booking, error)
	AppendAudit(ctx context.Context, entry *models.AuditLog) error
}

// Service implements slot lifecycle operations.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService wires the slot service.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// validateStart enforces the fixed grid: slots start on minute 0 or 30 exactly.
func validateStart(startAt time.Time) error {
	t := startAt.In(kst.Zone)
	if (t.Minute() != 0 && t.Minute() != 30) || t.Second() != 0 || t.Nanosecond() != 0 {
		return apperr.New(apperr.InvalidInput, "slots must start on the hour or half hour")
	}
	return nil
}

// CreateRequest describes a new slot. StartAt is a KST civil timestamp; EndAt
// is derived server-side.
type CreateRequest struct {
	CounselorID *uuid.UUID         `json:"counselorId"`
	StartAt     string             `json:"startAt"`
	Status      *models.SlotStatus `json:"status"`
}

// Create adds a slot for the actor (or, for admins, any counselor).
func (s *Service) Create(ctx context.Context, actor access.Actor, req CreateRequest) (*SlotView, error) {
	counselorID := actor.UserID
	if req.CounselorID != nil && *req.CounselorID != actor.UserID {
		if actor.Role != models.RoleAdmin {
			return nil, apperr.New(apperr.Forbidden, "only admins may create slots for other counselors")
		}
		counselorID = *req.CounselorID
	}

	startAt, err := kst.Parse(req.StartAt)
	if err != nil {
		return nil, apperr.New(apperr.InvalidInput, "startAt must be a YYYY-MM-DDTHH:MM:SS timestamp")
	}
	if err := validateStart(startAt); err != nil {
		return nil, err
	}

	status := models.SlotOpen
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, apperr.New(apperr.InvalidInput, "status must be OPEN or CLOSED")
		}
		status = *req.Status
	}

	if err := s.ensureStartFree(ctx, counselorID, startAt, uuid.Nil); err != nil {
		return nil, err
	}

	slot := &models.ScheduleSlot{
		ID:          uuid.New(),
		CounselorID: counselorID,
		StartAt:     startAt,
		EndAt:       startAt.Add(models.SlotDuration),
		Capacity:    models.SlotCapacity,
		Status:      status,
	}
	if err := s.store.CreateSlot(ctx, slot); err != nil {
		return nil, err
	}

	s.audit(ctx, actor, "slot.created", slot.ID)

	view := viewOf(slot)
	return &view, nil
}

// List returns the slots a counselor owns, optionally with their bookings.
// Counselors may only list themselves; admins may name any counselor.
func (s *Service) List(ctx context.Context, actor access.Actor, counselorID *uuid.UUID, includeBookings bool) ([]SlotView, error) {
	target := actor.UserID
	if counselorID != nil {
		target = *counselorID
	}
	if !access.CanAccess(actor, target) {
		return nil, apperr.New(apperr.Forbidden, "you may only list your own slots")
	}

	slots, err := s.store.SlotsByCounselor(ctx, target)
	if err != nil {
		return nil, err
	}

	views := make([]SlotView, 0, len(slots))
	for i := range slots {
		views = append(views, viewOf(&slots[i]))
	}

	if !includeBookings || len(slots) == 0 {
		return views, nil
	}

	ids := make([]uuid.UUID, 0, len(slots))
	for i := range slots {
		ids = append(ids, slots[i].ID)
	}
	bookings, err := s.store.BookingsBySlotIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	bySlot := make(map[uuid.UUID][]BookingView, len(slots))
	for i := range bookings {
		b := &bookings[i]
		bySlot[b.SlotID] = append(bySlot[b.SlotID], bookingViewOf(b))
	}
	for i := range views {
		if list, ok := bySlot[views[i].ID]; ok {
			views[i].Bookings = list
		} else {
			views[i].Bookings = []BookingView{}
		}
	}
	return views, nil
}

// BookingsForSlot lists a slot's bookings, gated by ownership.
func (s *Service) BookingsForSlot(ctx context.Context, actor access.Actor, slotID uuid.UUID) ([]BookingView, error) {
	slot, err := s.findSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if !access.CanAccess(actor, slot.CounselorID) {
		return nil, apperr.New(apperr.Forbidden, "you may only inspect your own slots")
	}

	bookings, err := s.store.BookingsBySlotID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	views := make([]BookingView, 0, len(bookings))
	for i := range bookings {
		views = append(views, bookingViewOf(&bookings[i]))
	}
	return views, nil
}

// UpdateRequest carries optional slot mutations. A new StartAt re-derives
// EndAt and re-runs alignment and collision checks.
type UpdateRequest struct {
	StartAt *string            `json:"startAt"`
	Status  *models.SlotStatus `json:"status"`
}

// Update mutates a slot's time and/or status, gated by ownership.
func (s *Service) Update(ctx context.Context, actor access.Actor, slotID uuid.UUID, req UpdateRequest) (*SlotView, error) {
	slot, err := s.findSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if !access.CanAccess(actor, slot.CounselorID) {
		return nil, apperr.New(apperr.Forbidden, "you may only modify your own slots")
	}

	updates := map[string]any{}
	if req.StartAt != nil {
		startAt, err := kst.Parse(*req.StartAt)
		if err != nil {
			return nil, apperr.New(apperr.InvalidInput, "startAt must be a YYYY-MM-DDTHH:MM:SS timestamp")
		}
		if err := validateStart(startAt); err != nil {
			return nil, err
		}
		if err := s.ensureStartFree(ctx, slot.CounselorID, startAt, slot.ID); err != nil {
			return nil, err
		}
		updates["start_at"] = startAt
		updates["end_at"] = startAt.Add(models.SlotDuration)
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, apperr.New(apperr.InvalidInput, "status must be OPEN or CLOSED")
		}
		updates["status"] = *req.Status
	}

	if len(updates) > 0 {
		if err := s.store.UpdateSlot(ctx, slot.ID, updates); err != nil {
			return nil, err
		}
	}

	updated, err := s.findSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, actor, "slot.updated", slot.ID)

	view := viewOf(updated)
	return &view, nil
}

// Delete removes a slot and, through the schema, its bookings.
func (s *Service) Delete(ctx context.Context, actor access.Actor, slotID uuid.UUID) error {
	slot, err := s.findSlot(ctx, slotID)
	if err != nil {
		return err
	}
	if !access.CanAccess(actor, slot.CounselorID) {
		return apperr.New(apperr.Forbidden, "you may only delete your own slots")
	}
	if err := s.store.DeleteSlot(ctx, slotID); err != nil {
		return err
	}
	s.audit(ctx, actor, "slot.deleted", slotID)
	return nil
}

// PublicAvailability serves the applicant-facing slot query. With a date it
// returns every slot that KST calendar day, past or closed included — the
// dated form exists for owner inspection. Without one it returns only future
// OPEN slots.
func (s *Service) PublicAvailability(ctx context.Context, counselorID uuid.UUID, date string) ([]SlotView, error) {
	var (
		slots []models.ScheduleSlot
		err   error
	)
	if strings.TrimSpace(date) != "" {
		dayStart, parseErr := kst.ParseDate(date)
		if parseErr != nil {
			return nil, apperr.New(apperr.InvalidInput, "date must be formatted YYYY-MM-DD")
		}
		slots, err = s.store.SlotsByCounselorBetween(ctx, counselorID, dayStart, dayStart.Add(24*time.Hour))
	} else {
		slots, err = s.store.OpenSlotsFrom(ctx, counselorID, s.now())
	}
	if err != nil {
		return nil, err
	}

	views := make([]SlotView, 0, len(slots))
	for i := range slots {
		views = append(views, viewOf(&slots[i]))
	}
	return views, nil
}

func (s *Service) findSlot(ctx context.Context, id uuid.UUID) (*models.ScheduleSlot, error) {
	slot, err := s.store.SlotByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "slot not found")
		}
		return nil, err
	}
	return slot, nil
}

func (s *Service) ensureStartFree(ctx context.Context, counselorID uuid.UUID, startAt time.Time, selfID uuid.UUID) error {
	existing, err := s.store.SlotByCounselorAndStart(ctx, counselorID, startAt)
	switch {
	case err == nil:
		if existing.ID != selfID {
			return apperr.New(apperr.Conflict, "a slot with the same start time already exists for this counselor")
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	default:
		return err
	}
}

func (s *Service) audit(ctx context.Context, actor access.Actor, action string, slotID uuid.UUID) {
	targetID := slotID.String()
	entry := &models.AuditLog{
		ActorID:    &actor.UserID,
		Action:     action,
		TargetType: "schedule_slot",
		TargetID:   &targetID,
		Metadata:   []byte(fmt.Sprintf(`{"role":%q}`, actor.Role)),
	}
	if err := s.store.AppendAudit(ctx, entry); err != nil {
		log.Warn().Err(err).Msg("append audit entry")
	}
}
