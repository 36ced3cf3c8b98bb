package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"counseld/internal/models"
)

// ReserveTx exposes the writes permitted while the slot row lock is held. The
// coordinator never touches any other lock, so lock-ordering deadlocks cannot
// occur.
type ReserveTx interface {
	BookingExists(slotID, applicantID uuid.UUID) (bool, error)
	CreateBooking(b *models.Booking) error
	IncrementBookedCount(slotID uuid.UUID) error
	ConsumeToken(tokenID uuid.UUID, usedAt time.Time) error
}

// Reserve opens one transaction, acquires an exclusive row lock on the slot and
// invokes fn with the locked snapshot. Any error from fn rolls every write in
// the transaction back. ErrNotFound surfaces when the slot does not exist.
func (s *Store) Reserve(ctx context.Context, slotID uuid.UUID, fn func(tx ReserveTx, slot *models.ScheduleSlot) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var slot models.ScheduleSlot
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Take(&slot, "id = ?", slotID).Error
		if err != nil {
			return err
		}
		return fn(&reserveTx{tx: tx}, &slot)
	})
}

type reserveTx struct {
	tx *gorm.DB
}

func (r *reserveTx) BookingExists(slotID, applicantID uuid.UUID) (bool, error) {
	var n int64
	err := r.tx.Model(&models.Booking{}).
		Where("slot_id = ? AND applicant_id = ?", slotID, applicantID).
		Count(&n).Error
	return n > 0, err
}

func (r *reserveTx) CreateBooking(b *models.Booking) error {
	return r.tx.Create(b).Error
}

func (r *reserveTx) IncrementBookedCount(slotID uuid.UUID) error {
	// SQL-side increment: the value the lock holder sees is the value persisted.
	return r.tx.Model(&models.ScheduleSlot{}).
		Where("id = ?", slotID).
		UpdateColumn("booked_count", gorm.Expr("booked_count + ?", 1)).Error
}

func (r *reserveTx) ConsumeToken(tokenID uuid.UUID, usedAt time.Time) error {
	return r.tx.Model(&models.ReservationToken{}).
		Where("id = ?", tokenID).
		Update("used_at", usedAt).Error
}
