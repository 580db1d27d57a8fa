package intake

import (
	"context"

	"github.com/kavanaghbl/chambers-site/internal/models"
)

type Repository interface {
	Create(
		ctx context.Context,
		session *models.IntakeSession,
	) error

	GetByToken(
		ctx context.Context,
		token string,
	) (*models.IntakeSession, error)

	Update(
		ctx context.Context,
		session *models.IntakeSession,
	) error

	List(
		ctx context.Context,
	) ([]models.IntakeSession, error)

	ListBookingsForIntake(
		ctx context.Context,
		intakeID uint,
	) ([]models.BookingSubmission, error)
}
