package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kavanaghbl/chambers-site/internal/models"
)

type ExternalBookingGormRepository struct {
	db *gorm.DB
}

func NewExternalBookingGormRepository(db *gorm.DB) *ExternalBookingGormRepository {
	return &ExternalBookingGormRepository{db: db}
}

// UpsertCreated records a provider-side booking, keyed by the provider id.
func (r *ExternalBookingGormRepository) UpsertCreated(
	ctx context.Context,
	booking *models.ExternalBooking,
) error {

	booking.Status = models.ExternalBookingCreated

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "calendly_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "start_time", "end_time", "invitee_name", "invitee_email",
			}),
		}).
		Create(booking).Error
}

// UpsertCanceled flips the status only. A cancel for an unknown id creates
// a canceled placeholder rather than failing.
func (r *ExternalBookingGormRepository) UpsertCanceled(
	ctx context.Context,
	calendlyID string,
) error {

	booking := models.ExternalBooking{
		CalendlyID: calendlyID,
		Status:     models.ExternalBookingCanceled,
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "calendly_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status"}),
		}).
		Create(&booking).Error
}
