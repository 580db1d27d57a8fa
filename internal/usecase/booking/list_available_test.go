package booking

import (
	"context"
	"testing"
	"time"

	"github.com/kavanaghbl/chambers-site/internal/models"
	"github.com/kavanaghbl/chambers-site/internal/timezone"
)

// todaySlotAtMidnight starts at 00:00 today, so it is already in the past
// for the entire day while its availability flag still says true.
func todaySlotAtMidnight(id uint) *models.AvailabilitySlot {
	loc := timezone.Location(timezone.DefaultTimezone)
	now := time.Now().In(loc)
	return &models.AvailabilitySlot{
		ID:          id,
		Date:        time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc),
		StartTime:   "00:00",
		EndTime:     "00:30",
		IsAvailable: true,
	}
}

func TestListAvailableDatesSkipsPastSlots(t *testing.T) {
	repo := newFakeRepo()
	repo.slots[1] = todaySlotAtMidnight(1)
	repo.slots[2] = tomorrowSlot(2)

	uc := NewListAvailableDates(repo, timezone.DefaultTimezone)

	dates, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(dates) != 1 {
		t.Fatalf("expected only tomorrow, got %v", dates)
	}

	tomorrow := repo.slots[2].Date.Format("2006-01-02")
	if dates[0].Date != tomorrow {
		t.Fatalf("expected date %s, got %s", tomorrow, dates[0].Date)
	}
	if dates[0].SlotCount != 1 {
		t.Fatalf("expected one slot, got %d", dates[0].SlotCount)
	}
}

func TestListAvailableDatesGroupsByDate(t *testing.T) {
	repo := newFakeRepo()

	first := tomorrowSlot(1)
	second := tomorrowSlot(2)
	second.StartTime = "11:00"
	second.EndTime = "11:30"
	repo.slots[1] = first
	repo.slots[2] = second

	dayAfter := tomorrowSlot(3)
	dayAfter.Date = dayAfter.Date.AddDate(0, 0, 1)
	repo.slots[3] = dayAfter

	uc := NewListAvailableDates(repo, timezone.DefaultTimezone)

	dates, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(dates) != 2 {
		t.Fatalf("expected two dates, got %v", dates)
	}
	if dates[0].SlotCount != 2 || dates[1].SlotCount != 1 {
		t.Fatalf("unexpected grouping: %v", dates)
	}
}

func TestListSlotsForDateSkipsPastSlots(t *testing.T) {
	repo := newFakeRepo()
	past := todaySlotAtMidnight(1)
	repo.slots[1] = past

	uc := NewListSlotsForDate(repo, timezone.DefaultTimezone)

	slots, err := uc.Execute(context.Background(), past.Date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("a slot whose start already passed must not be offered, got %v", slots)
	}
}

func TestListSlotsForDateSkipsReservedSlots(t *testing.T) {
	repo := newFakeRepo()

	open := tomorrowSlot(1)
	reserved := tomorrowSlot(2)
	reserved.StartTime = "11:00"
	reserved.EndTime = "11:30"
	reserved.IsAvailable = false
	repo.slots[1] = open
	repo.slots[2] = reserved

	uc := NewListSlotsForDate(repo, timezone.DefaultTimezone)

	slots, err := uc.Execute(context.Background(), open.Date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 1 || slots[0].ID != 1 {
		t.Fatalf("only the open slot should be offered, got %v", slots)
	}
}
