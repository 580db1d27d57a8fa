package booking

import (
	"context"
	"time"

	"github.com/kavanaghbl/chambers-site/internal/models"
)

type Repository interface {
	// -------- Slots --------
	GetSlot(
		ctx context.Context,
		id uint,
	) (*models.AvailabilitySlot, error)

	ListAvailableSlots(
		ctx context.Context,
		fromDate time.Time,
	) ([]models.AvailabilitySlot, error)

	ListSlotsForDate(
		ctx context.Context,
		date time.Time,
	) ([]models.AvailabilitySlot, error)

	DeleteSlot(
		ctx context.Context,
		id uint,
	) error

	// -------- Submissions --------

	// ReserveSlotAndCreateSubmission flips the slot's availability and
	// inserts the submission as one atomic unit. It must fail with
	// CodeSlotUnavailable when the flag was already false, so two racing
	// submissions resolve to exactly one winner.
	ReserveSlotAndCreateSubmission(
		ctx context.Context,
		sub *models.BookingSubmission,
	) error

	GetSubmission(
		ctx context.Context,
		id uint,
	) (*models.BookingSubmission, error)

	ListSubmissionsFromDate(
		ctx context.Context,
		fromDate time.Time,
	) ([]models.BookingSubmission, error)

	CountSubmissionsForSlot(
		ctx context.Context,
		slotID uint,
	) (int64, error)

	// -------- Intake linkage --------
	FindIntakeByToken(
		ctx context.Context,
		token string,
	) (*models.IntakeSession, error)
}
