package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"counseld/internal/models"
)

// SlotByID fetches a slot by primary key.
func (s *Store) SlotByID(ctx context.Context, id uuid.UUID) (*models.ScheduleSlot, error) {
	var slot models.ScheduleSlot
	if err := s.db.WithContext(ctx).First(&slot, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

// SlotByCounselorAndStart fetches the slot a counselor owns at an exact start
// time, backing the duplicate-start guard on create and update.
func (s *Store) SlotByCounselorAndStart(ctx context.Context, counselorID uuid.UUID, startAt time.Time) (*models.ScheduleSlot, error) {
	var slot models.ScheduleSlot
	err := s.db.WithContext(ctx).
		Where("counselor_id = ? AND start_at = ?", counselorID, startAt).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// CreateSlot inserts a new slot row.
func (s *Store) CreateSlot(ctx context.Context, slot *models.ScheduleSlot) error {
	return s.db.WithContext(ctx).Create(slot).Error
}

// UpdateSlot applies column updates to one slot.
func (s *Store) UpdateSlot(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return s.db.WithContext(ctx).
		Model(&models.ScheduleSlot{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// DeleteSlot removes a slot; bookings cascade via the foreign key.
func (s *Store) DeleteSlot(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Delete(&models.ScheduleSlot{}, "id = ?", id).Error
}

// SlotsByCounselor lists every slot a counselor owns, earliest first.
func (s *Store) SlotsByCounselor(ctx context.Context, counselorID uuid.UUID) ([]models.ScheduleSlot, error) {
	var slots []models.ScheduleSlot
	err := s.db.WithContext(ctx).
		Where("counselor_id = ?", counselorID).
		Order("start_at ASC").
		Find(&slots).Error
	return slots, err
}

// SlotsByCounselorBetween lists every slot starting in [from, to) regardless of
// status. Backs the dated public availability query.
func (s *Store) SlotsByCounselorBetween(ctx context.Context, counselorID uuid.UUID, from, to time.Time) ([]models.ScheduleSlot, error) {
	var slots []models.ScheduleSlot
	err := s.db.WithContext(ctx).
		Where("counselor_id = ? AND start_at >= ? AND start_at < ?", counselorID, from, to).
		Order("start_at ASC").
		Find(&slots).Error
	return slots, err
}

// OpenSlotsFrom lists OPEN slots starting at or after from. Backs the undated
// applicant-facing availability query.
func (s *Store) OpenSlotsFrom(ctx context.Context, counselorID uuid.UUID, from time.Time) ([]models.ScheduleSlot, error) {
	var slots []models.ScheduleSlot
	err := s.db.WithContext(ctx).
		Where("counselor_id = ? AND status = ? AND start_at >= ?", counselorID, models.SlotOpen, from).
		Order("start_at ASC").
		Find(&slots).Error
	return slots, err
}

// BookingsBySlotID lists a slot's bookings with applicants, oldest first.
func (s *Store) BookingsBySlotID(ctx context.Context, slotID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Preload("Applicant").
		Where("slot_id = ?", slotID).
		Order("created_at ASC").
		Find(&bookings).Error
	return bookings, err
}

// BookingsBySlotIDs lists bookings with applicants across many slots in one query.
func (s *Store) BookingsBySlotIDs(ctx context.Context, slotIDs []uuid.UUID) ([]models.Booking, error) {
	if len(slotIDs) == 0 {
		return nil, nil
	}
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Preload("Applicant").
		Where("slot_id IN ?", slotIDs).
		Order("created_at ASC").
		Find(&bookings).Error
	return bookings, err
}
