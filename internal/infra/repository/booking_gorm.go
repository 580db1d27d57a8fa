package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/kavanaghbl/chambers-site/internal/domain/booking"
	"github.com/kavanaghbl/chambers-site/internal/httperr"
	"github.com/kavanaghbl/chambers-site/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Slots
// --------------------------------------------------

func (r *BookingGormRepository) GetSlot(
	ctx context.Context,
	id uint,
) (*models.AvailabilitySlot, error) {

	var slot models.AvailabilitySlot
	if err := r.db.WithContext(ctx).First(&slot, id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *BookingGormRepository) ListAvailableSlots(
	ctx context.Context,
	fromDate time.Time,
) ([]models.AvailabilitySlot, error) {

	var slots []models.AvailabilitySlot
	if err := r.db.WithContext(ctx).
		Where("date >= ? AND is_available = ?", fromDate.Format("2006-01-02"), true).
		Order("date ASC, start_time ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}

	return slots, nil
}

func (r *BookingGormRepository) ListSlotsForDate(
	ctx context.Context,
	date time.Time,
) ([]models.AvailabilitySlot, error) {

	var slots []models.AvailabilitySlot
	if err := r.db.WithContext(ctx).
		Where("date = ?", date.Format("2006-01-02")).
		Order("start_time ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}

	return slots, nil
}

func (r *BookingGormRepository) DeleteSlot(
	ctx context.Context,
	id uint,
) error {
	return r.db.WithContext(ctx).Delete(&models.AvailabilitySlot{}, id).Error
}

// --------------------------------------------------
// Submissions
// --------------------------------------------------

// ReserveSlotAndCreateSubmission runs the check-and-flip and the insert in
// one transaction. The conditional UPDATE touches the row only while
// is_available is still true; zero rows affected means another submission
// already won the slot.
func (r *BookingGormRepository) ReserveSlotAndCreateSubmission(
	ctx context.Context,
	sub *models.BookingSubmission,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		res := tx.Model(&models.AvailabilitySlot{}).
			Where("id = ? AND is_available = ?", sub.SlotID, true).
			Update("is_available", false)

		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return httperr.ErrBusiness(domain.CodeSlotUnavailable)
		}

		return tx.Create(sub).Error
	})
}

func (r *BookingGormRepository) GetSubmission(
	ctx context.Context,
	id uint,
) (*models.BookingSubmission, error) {

	var sub models.BookingSubmission
	if err := r.db.WithContext(ctx).
		Preload("Slot").
		Preload("Intake").
		First(&sub, id).Error; err != nil {
		return nil, err
	}

	return &sub, nil
}

func (r *BookingGormRepository) ListSubmissionsFromDate(
	ctx context.Context,
	fromDate time.Time,
) ([]models.BookingSubmission, error) {

	var subs []models.BookingSubmission
	if err := r.db.WithContext(ctx).
		Preload("Slot").
		Preload("Intake").
		Joins("JOIN availability_slots ON availability_slots.id = booking_submissions.slot_id").
		Where("availability_slots.date >= ?", fromDate.Format("2006-01-02")).
		Order("availability_slots.date ASC, availability_slots.start_time ASC").
		Find(&subs).Error; err != nil {
		return nil, err
	}

	return subs, nil
}

func (r *BookingGormRepository) CountSubmissionsForSlot(
	ctx context.Context,
	slotID uint,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.BookingSubmission{}).
		Where("slot_id = ?", slotID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// --------------------------------------------------
// Intake linkage
// --------------------------------------------------

func (r *BookingGormRepository) FindIntakeByToken(
	ctx context.Context,
	token string,
) (*models.IntakeSession, error) {

	var session models.IntakeSession
	if err := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&session).Error; err != nil {
		return nil, err
	}

	return &session, nil
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
