package booking

import (
	"context"

	"github.com/kavanaghbl/chambers-site/internal/audit"
	domain "github.com/kavanaghbl/chambers-site/internal/domain/booking"
	"github.com/kavanaghbl/chambers-site/internal/httperr"
)

// DeleteSlot removes an availability slot. Deletion is blocked while a
// submission references the slot; the owner must deal with the booking
// first. (Policy choice: block, never cascade.)
type DeleteSlot struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteSlot(repo domain.Repository, dispatcher *audit.Dispatcher) *DeleteSlot {
	return &DeleteSlot{repo: repo, audit: dispatcher}
}

func (uc *DeleteSlot) Execute(
	ctx context.Context,
	userID uint,
	slotID uint,
) error {

	if _, err := uc.repo.GetSlot(ctx, slotID); err != nil {
		return httperr.ErrBusiness(domain.CodeSlotNotFound)
	}

	count, err := uc.repo.CountSubmissionsForSlot(ctx, slotID)
	if err != nil {
		return err
	}
	if count > 0 {
		return httperr.ErrBusiness(domain.CodeSlotInUse)
	}

	if err := uc.repo.DeleteSlot(ctx, slotID); err != nil {
		return err
	}

	if uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			UserID:   &userID,
			Action:   "slot_deleted",
			Entity:   "availability_slot",
			EntityID: &slotID,
		})
	}

	return nil
}
