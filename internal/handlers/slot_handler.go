package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kavanaghbl/chambers-site/internal/audit"
	domain "github.com/kavanaghbl/chambers-site/internal/domain/booking"
	"github.com/kavanaghbl/chambers-site/internal/httperr"
	"github.com/kavanaghbl/chambers-site/internal/middleware"
	"github.com/kavanaghbl/chambers-site/internal/models"
	"github.com/kavanaghbl/chambers-site/internal/timezone"
	ucBooking "github.com/kavanaghbl/chambers-site/internal/usecase/booking"
)

// ======================================================
// HANDLER (owner-side availability management)
// ======================================================

type SlotHandler struct {
	db         *gorm.DB
	deleteSlot *ucBooking.DeleteSlot
	audit      *audit.Dispatcher
	tz         string
}

func NewSlotHandler(
	db *gorm.DB,
	deleteSlot *ucBooking.DeleteSlot,
	dispatcher *audit.Dispatcher,
	tz string,
) *SlotHandler {
	return &SlotHandler{
		db:         db,
		deleteSlot: deleteSlot,
		audit:      dispatcher,
		tz:         tz,
	}
}

// --------- Requests ---------

type CreateSlotRequest struct {
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type UpdateSlotRequest struct {
	StartTime   *string `json:"start_time,omitempty"`
	EndTime     *string `json:"end_time,omitempty"`
	IsAvailable *bool   `json:"is_available,omitempty"`
}

// --------- Handlers ---------

// List returns every slot from a date onward, including booked and past
// ones. The public listing does its own filtering.
func (h *SlotHandler) List(c *gin.Context) {
	loc := timezone.Location(h.tz)

	now := timezone.NowIn(h.tz)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", fromStr, loc)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Invalid 'from' date.")
			return
		}
		from = parsed
	}

	var slots []models.AvailabilitySlot
	if err := h.db.
		Where("date >= ?", from.Format("2006-01-02")).
		Order("date ASC, start_time ASC").
		Find(&slots).Error; err != nil {

		httperr.Internal(c, "failed_to_list_slots", "Failed to list slots.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

func (h *SlotHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid slot payload.")
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, timezone.Location(h.tz))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date format.")
		return
	}

	if err := domain.ValidateTimes(req.StartTime, req.EndTime); err != nil {
		httperr.BadRequest(c, domain.CodeInvalidTimes, "Start time must be before end time.")
		return
	}

	slot := models.AvailabilitySlot{
		Date:        date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsAvailable: true,
	}

	if err := h.db.Create(&slot).Error; err != nil {
		httperr.Internal(c, "failed_to_create_slot", "Failed to create slot.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "slot_created",
		Entity:   "availability_slot",
		EntityID: &slot.ID,
		Metadata: gin.H{"date": req.Date, "start_time": req.StartTime},
	})

	c.JSON(http.StatusCreated, slot)
}

func (h *SlotHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	id := c.Param("id")

	var slot models.AvailabilitySlot
	if err := h.db.First(&slot, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, domain.CodeSlotNotFound, "Slot not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_slot", "Failed to load slot.")
		return
	}

	var req UpdateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid slot payload.")
		return
	}

	start := slot.StartTime
	end := slot.EndTime
	if req.StartTime != nil {
		start = *req.StartTime
	}
	if req.EndTime != nil {
		end = *req.EndTime
	}
	if err := domain.ValidateTimes(start, end); err != nil {
		httperr.BadRequest(c, domain.CodeInvalidTimes, "Start time must be before end time.")
		return
	}

	slot.StartTime = start
	slot.EndTime = end
	if req.IsAvailable != nil {
		slot.IsAvailable = *req.IsAvailable
	}

	if err := h.db.Save(&slot).Error; err != nil {
		httperr.Internal(c, "failed_to_update_slot", "Failed to update slot.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "slot_updated",
		Entity:   "availability_slot",
		EntityID: &slot.ID,
	})

	c.JSON(http.StatusOK, slot)
}

func (h *SlotHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_slot_id", "Invalid slot.")
		return
	}

	if err := h.deleteSlot.Execute(c.Request.Context(), userID, uint(id)); err != nil {
		switch {
		case httperr.IsBusiness(err, domain.CodeSlotNotFound):
			httperr.NotFound(c, domain.CodeSlotNotFound, "Slot not found.")
		case httperr.IsBusiness(err, domain.CodeSlotInUse):
			httperr.Conflict(c, domain.CodeSlotInUse, "A booking references this slot.")
		default:
			httperr.Internal(c, "failed_to_delete_slot", "Failed to delete slot.")
		}
		return
	}

	c.Status(http.StatusNoContent)
}
