package models

import "time"

// BookingSubmission binds one client to exactly one slot. SlotID never
// changes after creation; at most one submission exists per slot.
type BookingSubmission struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SlotID uint             `gorm:"not null;index" json:"slot_id"`
	Slot   AvailabilitySlot `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"slot"`

	IntakeID *uint          `json:"intake_id"`
	Intake   *IntakeSession `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"intake,omitempty"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Email string `gorm:"size:100;not null" json:"email"`
	Phone string `gorm:"size:30;not null" json:"phone"`
	Note  string `gorm:"size:500" json:"note"`

	IsPaid bool `gorm:"default:false" json:"is_paid"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
