package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kavanaghbl/chambers-site/internal/audit"
	"github.com/kavanaghbl/chambers-site/internal/httperr"
	"github.com/kavanaghbl/chambers-site/internal/middleware"
	"github.com/kavanaghbl/chambers-site/internal/models"
)

// ======================================================
// HANDLER (owner-side booking administration)
// ======================================================

type OwnerBookingHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewOwnerBookingHandler(db *gorm.DB, dispatcher *audit.Dispatcher) *OwnerBookingHandler {
	return &OwnerBookingHandler{db: db, audit: dispatcher}
}

func (h *OwnerBookingHandler) List(c *gin.Context) {
	q := h.db.
		Preload("Slot").
		Joins("JOIN availability_slots ON availability_slots.id = booking_submissions.slot_id")

	if paidStr := c.Query("paid"); paidStr == "true" {
		q = q.Where("booking_submissions.is_paid = ?", true)
	} else if paidStr == "false" {
		q = q.Where("booking_submissions.is_paid = ?", false)
	}

	var subs []models.BookingSubmission
	if err := q.
		Order("availability_slots.date ASC, availability_slots.start_time ASC").
		Find(&subs).Error; err != nil {

		httperr.Internal(c, "failed_to_list_bookings", "Failed to list bookings.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": subs})
}

func (h *OwnerBookingHandler) Get(c *gin.Context) {
	id := c.Param("id")

	var sub models.BookingSubmission
	if err := h.db.
		Preload("Slot").
		Preload("Intake").
		First(&sub, "id = ?", id).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "booking_not_found", "Booking not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_booking", "Failed to load booking.")
		return
	}

	c.JSON(http.StatusOK, sub)
}

// TogglePaid is a manual bookkeeping flag; there is no payment gateway
// behind it.
func (h *OwnerBookingHandler) TogglePaid(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id := c.Param("id")

	var sub models.BookingSubmission
	if err := h.db.First(&sub, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "booking_not_found", "Booking not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_booking", "Failed to load booking.")
		return
	}

	sub.IsPaid = !sub.IsPaid
	if err := h.db.Model(&sub).Update("is_paid", sub.IsPaid).Error; err != nil {
		httperr.Internal(c, "failed_to_update_booking", "Failed to update booking.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "booking_paid_toggled",
		Entity:   "booking_submission",
		EntityID: &sub.ID,
		Metadata: gin.H{"is_paid": sub.IsPaid},
	})

	c.JSON(http.StatusOK, gin.H{"id": sub.ID, "is_paid": sub.IsPaid})
}
