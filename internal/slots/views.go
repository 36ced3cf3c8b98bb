package slots

import (
	"github.com/google/uuid"

	"counseld/internal/kst"
	"counseld/internal/models"
)

// SlotView is a slot rendered for API responses, all instants in KST.
type SlotView struct {
	ID          uuid.UUID         `json:"id"`
	CounselorID uuid.UUID         `json:"counselorId"`
	StartAt     string            `json:"startAt"`
	EndAt       string            `json:"endAt"`
	Capacity    int               `json:"capacity"`
	BookedCount int               `json:"bookedCount"`
	Status      models.SlotStatus `json:"status"`
	Bookings    []BookingView     `json:"bookings,omitempty"`
}

// BookingView is one booking with its applicant.
type BookingView struct {
	ID        uuid.UUID     `json:"id"`
	Applicant ApplicantView `json:"applicant"`
	CreatedAt string        `json:"createdAt"`
}

// ApplicantView is the applicant identity exposed to slot owners.
type ApplicantView struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Phone *string   `json:"phone"`
}

func viewOf(slot *models.ScheduleSlot) SlotView {
	return SlotView{
		ID:          slot.ID,
		CounselorID: slot.CounselorID,
		StartAt:     kst.Format(slot.StartAt),
		EndAt:       kst.Format(slot.EndAt),
		Capacity:    slot.Capacity,
		BookedCount: slot.BookedCount,
		Status:      slot.Status,
	}
}

func bookingViewOf(b *models.Booking) BookingView {
	return BookingView{
		ID: b.ID,
		Applicant: ApplicantView{
			ID:    b.Applicant.ID,
			Email: b.Applicant.Email,
			Name:  b.Applicant.Name,
			Phone: b.Applicant.Phone,
		},
		CreatedAt: kst.Format(b.CreatedAt),
	}
}
