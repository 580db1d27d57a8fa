package booking

import (
	"time"

	"github.com/kavanaghbl/chambers-site/internal/httperr"
	"github.com/kavanaghbl/chambers-site/internal/models"
)

// Business error codes for the booking workflow.
const (
	CodeSlotNotFound    = "slot_not_found"
	CodeSlotUnavailable = "slot_unavailable"
	CodeSlotExpired     = "slot_expired"
	CodeSlotInUse       = "slot_in_use"
	CodeInvalidTimes    = "invalid_times"
)

// CanBook checks the slot state a public submission must pass before any
// write happens. The availability flag is re-checked atomically at commit
// time; this is the fast path that rejects obviously dead slots.
func CanBook(slot *models.AvailabilitySlot, now time.Time) error {
	if !slot.IsAvailable {
		return httperr.ErrBusiness(CodeSlotUnavailable)
	}
	if slot.IsInPast(now) {
		return httperr.ErrBusiness(CodeSlotExpired)
	}
	return nil
}

// ValidateTimes enforces start < end on slot create/update.
func ValidateTimes(start, end string) error {
	s, err := time.Parse("15:04", start)
	if err != nil {
		return httperr.ErrBusiness(CodeInvalidTimes)
	}
	e, err := time.Parse("15:04", end)
	if err != nil {
		return httperr.ErrBusiness(CodeInvalidTimes)
	}
	if !s.Before(e) {
		return httperr.ErrBusiness(CodeInvalidTimes)
	}
	return nil
}
