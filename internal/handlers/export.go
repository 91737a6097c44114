package handlers

import (
	"net/http"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"jobbook/internal/identity"
)

// ExportICS renders the user's schedule as an iCalendar feed, one all-day
// event per item, so the schedule can be pulled into an external calendar
// app.
func (h *ScheduleHandler) ExportICS(c echo.Context) error {
	id := identity.FromContext(c)
	items, err := h.svc.Items(id)
	if err != nil {
		return respondError(c, err)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//jobbook//schedule//EN")

	for _, it := range items {
		day, perr := time.ParseInLocation("2006-01-02", it.DateKey, time.Local)
		if perr != nil {
			h.logger.Warn("skipping item with bad date key",
				zap.String("item_id", it.ID), zap.String("date_key", it.DateKey))
			continue
		}
		created := time.UnixMilli(it.CreatedAt)

		ev := cal.AddEvent(it.ID)
		ev.SetCreatedTime(created)
		ev.SetDtStampTime(created)
		ev.SetAllDayStartAt(day)
		ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
		ev.SetSummary(it.Title)
		ev.SetDescription(it.Type.Label())
	}

	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal.Serialize()))
}
