package models

import (
	"time"

	"github.com/google/uuid"
)

// SlotStatus marks whether a slot still accepts bookings.
type SlotStatus string

const (
	SlotOpen   SlotStatus = "OPEN"
	SlotClosed SlotStatus = "CLOSED"
)

// Valid reports whether s is a known status.
func (s SlotStatus) Valid() bool {
	return s == SlotOpen || s == SlotClosed
}

const (
	// SlotCapacity is the fixed number of seats per slot.
	SlotCapacity = 3
	// SlotDuration is the fixed slot length; EndAt is always StartAt + SlotDuration.
	SlotDuration = 30 * time.Minute
)

// ScheduleSlot is a fixed 30 minute bookable window owned by one counselor.
// BookedCount is mutated only under the slot row lock; it never exceeds Capacity.
type ScheduleSlot struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CounselorID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_slots_counselor_start,priority:1"`
	StartAt     time.Time  `gorm:"not null;uniqueIndex:idx_slots_counselor_start,priority:2"`
	EndAt       time.Time  `gorm:"not null"`
	Capacity    int        `gorm:"not null;default:3"`
	BookedCount int        `gorm:"not null;default:0"`
	Status      SlotStatus `gorm:"type:text;not null;default:OPEN"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime"`

	Counselor User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:CounselorID;references:ID"`
	Bookings  []Booking `gorm:"foreignKey:SlotID;constraint:OnDelete:CASCADE"`
}
