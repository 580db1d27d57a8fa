package booking

import (
	"context"
	"strings"

	"github.com/kavanaghbl/chambers-site/internal/audit"
	domain "github.com/kavanaghbl/chambers-site/internal/domain/booking"
	"github.com/kavanaghbl/chambers-site/internal/httperr"
	"github.com/kavanaghbl/chambers-site/internal/models"
	"github.com/kavanaghbl/chambers-site/internal/timezone"
	"github.com/kavanaghbl/chambers-site/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type SubmitBookingInput struct {
	SlotID uint

	Name  string
	Email string
	Phone string
	Note  string

	// Optional intake session token. Unresolvable tokens are ignored:
	// intake linkage is a cross-reference, never a booking precondition.
	IntakeToken string
}

// ======================================================
// USE CASE
// ======================================================

type SubmitBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	tz    string
}

func NewSubmitBooking(
	repo domain.Repository,
	dispatcher *audit.Dispatcher,
	tz string,
) *SubmitBooking {
	return &SubmitBooking{
		repo:  repo,
		audit: dispatcher,
		tz:    tz,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *SubmitBooking) Execute(
	ctx context.Context,
	in SubmitBookingInput,
) (*models.BookingSubmission, error) {

	slot, err := uc.repo.GetSlot(ctx, in.SlotID)
	if err != nil {
		return nil, httperr.ErrBusiness(domain.CodeSlotNotFound)
	}

	now := timezone.NowIn(uc.tz)
	if err := domain.CanBook(slot, now); err != nil {
		return nil, err
	}

	if ve := validateFields(in); ve != nil {
		return nil, ve
	}

	sub := &models.BookingSubmission{
		SlotID: slot.ID,
		Name:   strings.TrimSpace(in.Name),
		Email:  strings.TrimSpace(in.Email),
		Phone:  strings.TrimSpace(in.Phone),
		Note:   strings.TrimSpace(in.Note),
	}

	if token := strings.TrimSpace(in.IntakeToken); token != "" {
		if session, err := uc.repo.FindIntakeByToken(ctx, token); err == nil && session != nil {
			sub.IntakeID = &session.ID
		}
	}

	// Atomic check-and-flip: the repository rejects with slot_unavailable
	// when another submission won the slot between the check above and here.
	if err := uc.repo.ReserveSlotAndCreateSubmission(ctx, sub); err != nil {
		return nil, err
	}

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			Action:   "booking_created",
			Entity:   "booking_submission",
			EntityID: &sub.ID,
		})
	}

	return sub, nil
}

func validateFields(in SubmitBookingInput) *httperr.ValidationError {
	ve := httperr.NewValidation()

	if strings.TrimSpace(in.Name) == "" {
		ve.Add("name", "Name is required.")
	}

	email := strings.TrimSpace(in.Email)
	if email == "" {
		ve.Add("email", "Email is required.")
	} else if !validators.IsEmailFormatValid(email) {
		ve.Add("email", "Email address is not valid.")
	}

	if strings.TrimSpace(in.Phone) == "" {
		ve.Add("phone", "Phone number is required.")
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}
