package models

import "time"

const (
	ExternalBookingCreated  = "created"
	ExternalBookingCanceled = "canceled"
)

// ExternalBooking mirrors a booking held by the upstream scheduling
// provider. It is a reconciliation projection keyed by the provider's id
// and is independent of AvailabilitySlot/BookingSubmission.
type ExternalBooking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CalendlyID string `gorm:"size:100;uniqueIndex;not null" json:"calendly_id"`
	Status     string `gorm:"size:20;not null" json:"status"`

	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`

	InviteeName  string `gorm:"size:100" json:"invitee_name"`
	InviteeEmail string `gorm:"size:100" json:"invitee_email"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
