package models

import (
	"time"

	"github.com/google/uuid"
)

// Applicant is a person booking through a reservation link, identified by email
// on first contact. Applicant rows are never deleted by the booking flow.
type Applicant struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email     string    `gorm:"type:text;index;not null"`
	Name      string    `gorm:"type:text;not null"`
	Phone     *string   `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Bookings []Booking `gorm:"foreignKey:ApplicantID;constraint:OnDelete:CASCADE"`
}
