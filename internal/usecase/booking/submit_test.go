package booking

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	domain "github.com/kavanaghbl/chambers-site/internal/domain/booking"
	"github.com/kavanaghbl/chambers-site/internal/httperr"
	"github.com/kavanaghbl/chambers-site/internal/models"
	"github.com/kavanaghbl/chambers-site/internal/timezone"
)

// --------------------------------------------------
// In-memory fake repository
// --------------------------------------------------

type fakeRepo struct {
	mu sync.Mutex

	slots       map[uint]*models.AvailabilitySlot
	submissions map[uint]*models.BookingSubmission
	intakes     map[string]*models.IntakeSession

	nextSubID uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		slots:       map[uint]*models.AvailabilitySlot{},
		submissions: map[uint]*models.BookingSubmission{},
		intakes:     map[string]*models.IntakeSession{},
		nextSubID:   1,
	}
}

var _ domain.Repository = (*fakeRepo)(nil)

func (r *fakeRepo) GetSlot(_ context.Context, id uint) (*models.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[id]
	if !ok {
		return nil, httperr.ErrBusiness(domain.CodeSlotNotFound)
	}
	copied := *slot
	return &copied, nil
}

func (r *fakeRepo) ListAvailableSlots(_ context.Context, fromDate time.Time) ([]models.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AvailabilitySlot
	for _, slot := range r.slots {
		if slot.IsAvailable && !slot.Date.Before(fromDate) {
			out = append(out, *slot)
		}
	}
	sortSlots(out)
	return out, nil
}

func (r *fakeRepo) ListSlotsForDate(_ context.Context, date time.Time) ([]models.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AvailabilitySlot
	for _, slot := range r.slots {
		if slot.Date.Equal(date) {
			out = append(out, *slot)
		}
	}
	sortSlots(out)
	return out, nil
}

// sortSlots mirrors the repository's ORDER BY date, start_time.
func sortSlots(slots []models.AvailabilitySlot) {
	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].Date.Equal(slots[j].Date) {
			return slots[i].Date.Before(slots[j].Date)
		}
		return slots[i].StartTime < slots[j].StartTime
	})
}

func (r *fakeRepo) DeleteSlot(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.slots, id)
	return nil
}

func (r *fakeRepo) ReserveSlotAndCreateSubmission(_ context.Context, sub *models.BookingSubmission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot, ok := r.slots[sub.SlotID]
	if !ok {
		return httperr.ErrBusiness(domain.CodeSlotNotFound)
	}
	if !slot.IsAvailable {
		return httperr.ErrBusiness(domain.CodeSlotUnavailable)
	}

	slot.IsAvailable = false
	sub.ID = r.nextSubID
	r.nextSubID++
	r.submissions[sub.ID] = sub
	return nil
}

func (r *fakeRepo) GetSubmission(_ context.Context, id uint) (*models.BookingSubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.submissions[id]
	if !ok {
		return nil, httperr.ErrBusiness("booking_not_found")
	}
	return sub, nil
}

func (r *fakeRepo) ListSubmissionsFromDate(_ context.Context, fromDate time.Time) ([]models.BookingSubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.BookingSubmission
	for _, sub := range r.submissions {
		slot := r.slots[sub.SlotID]
		if slot != nil && !slot.Date.Before(fromDate) {
			withSlot := *sub
			withSlot.Slot = *slot
			out = append(out, withSlot)
		}
	}
	return out, nil
}

func (r *fakeRepo) CountSubmissionsForSlot(_ context.Context, slotID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, sub := range r.submissions {
		if sub.SlotID == slotID {
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) FindIntakeByToken(_ context.Context, token string) (*models.IntakeSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.intakes[token]
	if !ok {
		return nil, httperr.ErrBusiness("intake_not_found")
	}
	return session, nil
}

// --------------------------------------------------
// Helpers
// --------------------------------------------------

func tomorrowSlot(id uint) *models.AvailabilitySlot {
	loc := timezone.Location(timezone.DefaultTimezone)
	tomorrow := time.Now().In(loc).AddDate(0, 0, 1)
	return &models.AvailabilitySlot{
		ID:          id,
		Date:        time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, loc),
		StartTime:   "10:00",
		EndTime:     "10:30",
		IsAvailable: true,
	}
}

func validInput(slotID uint) SubmitBookingInput {
	return SubmitBookingInput{
		SlotID: slotID,
		Name:   "Aoife Byrne",
		Email:  "aoife@example.com",
		Phone:  "+353 86 123 4567",
	}
}

// --------------------------------------------------
// Tests
// --------------------------------------------------

func TestSubmitBookingHappyPath(t *testing.T) {
	repo := newFakeRepo()
	repo.slots[1] = tomorrowSlot(1)

	uc := NewSubmitBooking(repo, nil, timezone.DefaultTimezone)

	sub, err := uc.Execute(context.Background(), validInput(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.ID == 0 {
		t.Fatal("expected submission to get an id")
	}
	if repo.slots[1].IsAvailable {
		t.Fatal("slot should be reserved after a successful submission")
	}
}

func TestSubmitBookingSlotNotFound(t *testing.T) {
	repo := newFakeRepo()
	uc := NewSubmitBooking(repo, nil, timezone.DefaultTimezone)

	_, err := uc.Execute(context.Background(), validInput(99))
	if !httperr.IsBusiness(err, domain.CodeSlotNotFound) {
		t.Fatalf("expected %s, got %v", domain.CodeSlotNotFound, err)
	}
}

func TestSubmitBookingSlotUnavailable(t *testing.T) {
	repo := newFakeRepo()
	slot := tomorrowSlot(1)
	slot.IsAvailable = false
	repo.slots[1] = slot

	uc := NewSubmitBooking(repo, nil, timezone.DefaultTimezone)

	_, err := uc.Execute(context.Background(), validInput(1))
	if !httperr.IsBusiness(err, domain.CodeSlotUnavailable) {
		t.Fatalf("expected %s, got %v", domain.CodeSlotUnavailable, err)
	}
	if len(repo.submissions) != 0 {
		t.Fatal("no submission may be written for an unavailable slot")
	}
}

func TestSubmitBookingExpiredDespiteFlag(t *testing.T) {
	repo := newFakeRepo()

	loc := timezone.Location(timezone.DefaultTimezone)
	yesterday := time.Now().In(loc).AddDate(0, 0, -1)
	repo.slots[1] = &models.AvailabilitySlot{
		ID:          1,
		Date:        time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, loc),
		StartTime:   "10:00",
		EndTime:     "10:30",
		IsAvailable: true,
	}

	uc := NewSubmitBooking(repo, nil, timezone.DefaultTimezone)

	_, err := uc.Execute(context.Background(), validInput(1))
	if !httperr.IsBusiness(err, domain.CodeSlotExpired) {
		t.Fatalf("expected %s, got %v", domain.CodeSlotExpired, err)
	}
}

func TestSubmitBookingValidationWritesNothing(t *testing.T) {
	repo := newFakeRepo()
	repo.slots[1] = tomorrowSlot(1)

	uc := NewSubmitBooking(repo, nil, timezone.DefaultTimezone)

	in := validInput(1)
	in.Email = "not-an-email"

	_, err := uc.Execute(context.Background(), in)
	ve, ok := httperr.AsValidation(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, exists := ve.Fields["email"]; !exists {
		t.Fatal("expected a field message for email")
	}
	if len(repo.submissions) != 0 {
		t.Fatal("validation failure must not write a submission")
	}
	if !repo.slots[1].IsAvailable {
		t.Fatal("validation failure must not reserve the slot")
	}
}

func TestSubmitBookingUnknownIntakeTokenIgnored(t *testing.T) {
	repo := newFakeRepo()
	repo.slots[1] = tomorrowSlot(1)

	uc := NewSubmitBooking(repo, nil, timezone.DefaultTimezone)

	in := validInput(1)
	in.IntakeToken = "no-such-token"

	sub, err := uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.IntakeID != nil {
		t.Fatal("unknown intake token must leave IntakeID nil")
	}
}

func TestSubmitBookingLinksKnownIntake(t *testing.T) {
	repo := newFakeRepo()
	repo.slots[1] = tomorrowSlot(1)
	repo.intakes["tok-1"] = &models.IntakeSession{ID: 7, Token: "tok-1"}

	uc := NewSubmitBooking(repo, nil, timezone.DefaultTimezone)

	in := validInput(1)
	in.IntakeToken = "tok-1"

	sub, err := uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.IntakeID == nil || *sub.IntakeID != 7 {
		t.Fatalf("expected intake 7 linked, got %v", sub.IntakeID)
	}
}

func TestSubmitBookingConcurrentDoubleSubmit(t *testing.T) {
	repo := newFakeRepo()
	repo.slots[1] = tomorrowSlot(1)

	uc := NewSubmitBooking(repo, nil, timezone.DefaultTimezone)

	const racers = 8

	var wg sync.WaitGroup
	errs := make([]error, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Execute(context.Background(), validInput(1))
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case httperr.IsBusiness(err, domain.CodeSlotUnavailable):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}
	if conflicts != racers-1 {
		t.Fatalf("expected %d conflicts, got %d", racers-1, conflicts)
	}
	if len(repo.submissions) != 1 {
		t.Fatalf("expected one stored submission, got %d", len(repo.submissions))
	}
}
