package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/kavanaghbl/chambers-site/internal/domain/intake"
	"github.com/kavanaghbl/chambers-site/internal/models"
)

type IntakeGormRepository struct {
	db *gorm.DB
}

func NewIntakeGormRepository(db *gorm.DB) *IntakeGormRepository {
	return &IntakeGormRepository{db: db}
}

func (r *IntakeGormRepository) Create(
	ctx context.Context,
	session *models.IntakeSession,
) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *IntakeGormRepository) GetByToken(
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

func (r *IntakeGormRepository) Update(
	ctx context.Context,
	session *models.IntakeSession,
) error {
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *IntakeGormRepository) List(
	ctx context.Context,
) ([]models.IntakeSession, error) {

	var sessions []models.IntakeSession
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *IntakeGormRepository) ListBookingsForIntake(
	ctx context.Context,
	intakeID uint,
) ([]models.BookingSubmission, error) {

	var subs []models.BookingSubmission
	if err := r.db.WithContext(ctx).
		Preload("Slot").
		Where("intake_id = ?", intakeID).
		Order("created_at DESC").
		Find(&subs).Error; err != nil {
		return nil, err
	}

	return subs, nil
}

// Compile-time check
var _ domain.Repository = (*IntakeGormRepository)(nil)
