package booking

import (
	"context"
	"testing"

	domain "github.com/kavanaghbl/chambers-site/internal/domain/booking"
	"github.com/kavanaghbl/chambers-site/internal/httperr"
	"github.com/kavanaghbl/chambers-site/internal/models"
)

func TestDeleteSlotRemovesUnreferencedSlot(t *testing.T) {
	repo := newFakeRepo()
	repo.slots[1] = tomorrowSlot(1)

	uc := NewDeleteSlot(repo, nil)

	if err := uc.Execute(context.Background(), 1, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := repo.slots[1]; ok {
		t.Fatal("slot should be gone")
	}
}

func TestDeleteSlotBlockedWhileReferenced(t *testing.T) {
	repo := newFakeRepo()
	repo.slots[1] = tomorrowSlot(1)
	repo.submissions[1] = &models.BookingSubmission{ID: 1, SlotID: 1}

	uc := NewDeleteSlot(repo, nil)

	err := uc.Execute(context.Background(), 1, 1)
	if !httperr.IsBusiness(err, domain.CodeSlotInUse) {
		t.Fatalf("expected %s, got %v", domain.CodeSlotInUse, err)
	}
	if _, ok := repo.slots[1]; !ok {
		t.Fatal("referenced slot must not be deleted")
	}
}

func TestDeleteSlotNotFound(t *testing.T) {
	repo := newFakeRepo()

	uc := NewDeleteSlot(repo, nil)

	err := uc.Execute(context.Background(), 1, 42)
	if !httperr.IsBusiness(err, domain.CodeSlotNotFound) {
		t.Fatalf("expected %s, got %v", domain.CodeSlotNotFound, err)
	}
}
