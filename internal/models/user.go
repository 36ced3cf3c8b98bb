package models

import (
	"time"

	"github.com/google/uuid"
)

// Role distinguishes counselors from administrators.
type Role string

const (
	RoleCounselor Role = "COUNSELOR"
	RoleAdmin     Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleCounselor || r == RoleAdmin
}

// User is a counselor or admin account. Counselors own schedule slots and the
// reservation tokens minted against them.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string    `gorm:"type:text;uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:text;not null"`
	Role         Role      `gorm:"type:text;not null;default:COUNSELOR"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`

	Slots  []ScheduleSlot     `gorm:"foreignKey:CounselorID;constraint:OnDelete:CASCADE"`
	Tokens []ReservationToken `gorm:"foreignKey:CounselorID;constraint:OnDelete:CASCADE"`
}
