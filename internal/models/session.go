package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionOutcome is the recorded result of a counseling session.
type SessionOutcome string

const (
	OutcomeCompleted SessionOutcome = "COMPLETED"
	OutcomeNoShow    SessionOutcome = "NO_SHOW"
	OutcomeCancelled SessionOutcome = "CANCELLED"
	OutcomeFollowUp  SessionOutcome = "FOLLOW_UP"
)

// Valid reports whether o is a known outcome.
func (o SessionOutcome) Valid() bool {
	switch o {
	case OutcomeCompleted, OutcomeNoShow, OutcomeCancelled, OutcomeFollowUp:
		return true
	}
	return false
}

// Session records notes and the outcome of one booking. At most one exists per
// booking; saves after the first update it in place.
type Session struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	BookingID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Notes     *string         `gorm:"type:text"`
	Outcome   *SessionOutcome `gorm:"type:text"`
	StartedAt *time.Time
	EndedAt   *time.Time

	Booking Booking `gorm:"constraint:OnDelete:CASCADE;foreignKey:BookingID;references:ID"`
}
