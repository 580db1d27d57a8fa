package handlers

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kavanaghbl/chambers-site/internal/config"
	domain "github.com/kavanaghbl/chambers-site/internal/domain/booking"
	"github.com/kavanaghbl/chambers-site/internal/ical"
	"github.com/kavanaghbl/chambers-site/internal/timezone"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type CalendarHandler struct {
	repo domain.Repository
	cfg  *config.Config
}

func NewCalendarHandler(repo domain.Repository, cfg *config.Config) *CalendarHandler {
	return &CalendarHandler{repo: repo, cfg: cfg}
}

// Feed serves the private ICS feed. A wrong or unconfigured secret yields
// 404, never 403, so the endpoint's existence is not confirmed.
func (h *CalendarHandler) Feed(c *gin.Context) {
	secret := strings.TrimSuffix(c.Param("secret"), ".ics")

	configured := h.cfg.CalendarFeedSecret
	if configured == "" ||
		subtle.ConstantTimeCompare([]byte(secret), []byte(configured)) != 1 {
		c.String(http.StatusNotFound, "Not found")
		return
	}

	loc := timezone.Location(h.cfg.Timezone)
	now := time.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	subs, err := h.repo.ListSubmissionsFromDate(c.Request.Context(), today)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to build feed")
		return
	}

	host := c.Request.Host
	stamp := time.Now()

	cal := ical.Calendar{
		ProdID: h.cfg.SiteName,
		Name:   h.cfg.BarristerName + " - Consultations",
	}

	for _, sub := range subs {
		start := sub.Slot.StartAt(loc)

		// The date-level query is coarse; drop consultations that already
		// started.
		if start.Before(now) {
			continue
		}

		name := sub.Name
		if name == "" {
			name = "Client"
		}

		// GDPR-minimal description: intake reference only, no contact
		// fields.
		var descParts []string
		if sub.Intake != nil {
			descParts = append(descParts, "Intake Ref: "+sub.Intake.Token)
		}
		descParts = append(descParts, "See CRM for details.")

		cal.Events = append(cal.Events, ical.Event{
			UID:         fmt.Sprintf("booking-%d@%s", sub.ID, host),
			Stamp:       stamp,
			Start:       start,
			End:         sub.Slot.EndAt(loc),
			Summary:     "Consultation - " + name,
			Description: strings.Join(descParts, "\n"),
			Location:    h.cfg.ChambersAddressLine1 + ", " + h.cfg.ChambersAddressLine2,
		})
	}

	filename := strings.ReplaceAll(h.cfg.BarristerName, " ", "_") + "_bookings.ics"

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal.Render()))
}
