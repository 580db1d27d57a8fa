package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/kavanaghbl/chambers-site/internal/domain/booking"
	"github.com/kavanaghbl/chambers-site/internal/httperr"
	"github.com/kavanaghbl/chambers-site/internal/timezone"
	ucBooking "github.com/kavanaghbl/chambers-site/internal/usecase/booking"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type BookingHandler struct {
	repo      domain.Repository
	submit    *ucBooking.SubmitBooking
	listDates *ucBooking.ListAvailableDates
	listSlots *ucBooking.ListSlotsForDate
	tz        string
}

func NewBookingHandler(
	repo domain.Repository,
	submit *ucBooking.SubmitBooking,
	listDates *ucBooking.ListAvailableDates,
	listSlots *ucBooking.ListSlotsForDate,
	tz string,
) *BookingHandler {
	return &BookingHandler{
		repo:      repo,
		submit:    submit,
		listDates: listDates,
		listSlots: listSlots,
		tz:        tz,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type SubmitBookingRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Note        string `json:"note"`
	IntakeToken string `json:"intake_token"`
}

////////////////////////////////////////////////////////
// BROWSE
////////////////////////////////////////////////////////

// Index lists future dates that still have bookable slots.
func (h *BookingHandler) Index(c *gin.Context) {
	dates, err := h.listDates.Execute(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "failed_to_list_dates", "Failed to load availability.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"dates": dates})
}

// Date lists the bookable slots of one day.
func (h *BookingHandler) Date(c *gin.Context) {
	dateStr := c.Param("date")

	date, err := time.ParseInLocation("2006-01-02", dateStr, timezone.Location(h.tz))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date format.")
		return
	}

	slots, err := h.listSlots.Execute(c.Request.Context(), date)
	if err != nil {
		httperr.Internal(c, "failed_to_list_slots", "Failed to load slots.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  dateStr,
		"slots": slots,
	})
}

// Slot returns one slot plus optional intake context for the form page.
func (h *BookingHandler) Slot(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_slot_id", "Invalid slot.")
		return
	}

	slot, err := h.repo.GetSlot(c.Request.Context(), uint(id))
	if err != nil {
		httperr.NotFound(c, domain.CodeSlotNotFound, "Slot not found.")
		return
	}

	now := timezone.NowIn(h.tz)
	if err := domain.CanBook(slot, now); err != nil {
		mapBookingError(c, err)
		return
	}

	resp := gin.H{"slot": slot}

	// Intake context is a convenience; an unknown token renders the form
	// without it.
	if token := c.Query("intake"); token != "" {
		if session, err := h.repo.FindIntakeByToken(c.Request.Context(), token); err == nil {
			resp["intake_token"] = session.Token
			resp["intake_name"] = session.Name
		}
	}

	c.JSON(http.StatusOK, resp)
}

////////////////////////////////////////////////////////
// SUBMIT
////////////////////////////////////////////////////////

func (h *BookingHandler) Submit(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_slot_id", "Invalid slot.")
		return
	}

	var req SubmitBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid form submission.")
		return
	}

	sub, err := h.submit.Execute(
		c.Request.Context(),
		ucBooking.SubmitBookingInput{
			SlotID:      uint(id),
			Name:        req.Name,
			Email:       req.Email,
			Phone:       req.Phone,
			Note:        req.Note,
			IntakeToken: req.IntakeToken,
		},
	)
	if err != nil {
		mapBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"booking_id": sub.ID})
}

// Success backs the confirmation page.
func (h *BookingHandler) Success(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_booking_id", "Invalid booking.")
		return
	}

	sub, err := h.repo.GetSubmission(c.Request.Context(), uint(id))
	if err != nil {
		httperr.NotFound(c, "booking_not_found", "Booking not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking_id": sub.ID,
		"name":       sub.Name,
		"date":       sub.Slot.Date.Format("2006-01-02"),
		"start_time": sub.Slot.StartTime,
		"end_time":   sub.Slot.EndTime,
	})
}

////////////////////////////////////////////////////////
// ERROR MAPPING
////////////////////////////////////////////////////////

func mapBookingError(c *gin.Context, err error) {
	if ve, ok := httperr.AsValidation(err); ok {
		httperr.WriteValidation(c, ve)
		return
	}

	switch {
	case httperr.IsBusiness(err, domain.CodeSlotNotFound):
		httperr.NotFound(c, domain.CodeSlotNotFound, "Slot not found.")
	case httperr.IsBusiness(err, domain.CodeSlotUnavailable):
		httperr.Conflict(c, domain.CodeSlotUnavailable, "This slot is no longer available.")
	case httperr.IsBusiness(err, domain.CodeSlotExpired):
		httperr.Conflict(c, domain.CodeSlotExpired, "This slot is in the past.")
	default:
		httperr.Internal(c, "booking_failed", "Could not complete the booking.")
	}
}
