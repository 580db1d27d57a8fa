package booking

import (
	"context"
	"time"

	domain "github.com/kavanaghbl/chambers-site/internal/domain/booking"
	"github.com/kavanaghbl/chambers-site/internal/models"
	"github.com/kavanaghbl/chambers-site/internal/timezone"
)

type DateSummary struct {
	Date      string `json:"date"`
	SlotCount int    `json:"slot_count"`
}

// ListAvailableDates groups the public-facing availability by calendar
// date. Slots whose start already passed are never offered, even when
// their availability flag is still true.
type ListAvailableDates struct {
	repo domain.Repository
	tz   string
}

func NewListAvailableDates(repo domain.Repository, tz string) *ListAvailableDates {
	return &ListAvailableDates{repo: repo, tz: tz}
}

func (uc *ListAvailableDates) Execute(ctx context.Context) ([]DateSummary, error) {
	now := timezone.NowIn(uc.tz)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	slots, err := uc.repo.ListAvailableSlots(ctx, today)
	if err != nil {
		return nil, err
	}

	// Slots arrive ordered by (date, start_time), so grouping preserves order.
	out := []DateSummary{}
	for _, slot := range slots {
		if slot.IsInPast(now) {
			continue
		}
		day := slot.Date.Format("2006-01-02")
		if n := len(out); n > 0 && out[n-1].Date == day {
			out[n-1].SlotCount++
			continue
		}
		out = append(out, DateSummary{Date: day, SlotCount: 1})
	}

	return out, nil
}

// ListSlotsForDate returns the bookable slots of one day, for the public
// slot picker.
type ListSlotsForDate struct {
	repo domain.Repository
	tz   string
}

func NewListSlotsForDate(repo domain.Repository, tz string) *ListSlotsForDate {
	return &ListSlotsForDate{repo: repo, tz: tz}
}

func (uc *ListSlotsForDate) Execute(
	ctx context.Context,
	date time.Time,
) ([]models.AvailabilitySlot, error) {

	slots, err := uc.repo.ListSlotsForDate(ctx, date)
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(uc.tz)

	out := []models.AvailabilitySlot{}
	for _, slot := range slots {
		if !slot.IsAvailable || slot.IsInPast(now) {
			continue
		}
		out = append(out, slot)
	}

	return out, nil
}
