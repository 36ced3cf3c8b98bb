package models

import (
	"time"

	"github.com/google/uuid"
)

// ReservationToken is a single-use secret authorizing bookings against one
// counselor's slots. Only the sha256 digest of the raw secret is stored; the
// raw value is embedded in the mailed link and never retrievable again.
// Consumed tokens are kept as an audit trail.
type ReservationToken struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CounselorID uuid.UUID `gorm:"type:uuid;not null;index"`
	TokenHash   string    `gorm:"type:text;uniqueIndex;not null"`
	ExpiresAt   time.Time `gorm:"not null"`
	UsedAt      *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`

	Counselor User `gorm:"constraint:OnDelete:CASCADE;foreignKey:CounselorID;references:ID"`
}
