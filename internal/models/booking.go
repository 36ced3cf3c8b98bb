package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking pairs one applicant with one slot. The unique (slot, applicant) index
// backs the double-submit guard inside the reservation transaction.
type Booking struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SlotID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bookings_slot_applicant,priority:1"`
	ApplicantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bookings_slot_applicant,priority:2"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`

	Slot      ScheduleSlot `gorm:"constraint:OnDelete:CASCADE;foreignKey:SlotID;references:ID"`
	Applicant Applicant    `gorm:"constraint:OnDelete:CASCADE;foreignKey:ApplicantID;references:ID"`
}
