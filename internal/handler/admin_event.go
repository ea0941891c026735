package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eventify/eventify/internal/model"
	"github.com/eventify/eventify/internal/repository"
	"github.com/eventify/eventify/internal/service"
)

// AdminEventHandler serves the admin event catalog: CRUD on events plus
// the reservation roster views.  The role middleware has already
// restricted these routes to admin callers.
type AdminEventHandler struct {
	Events  *repository.EventRepo
	Ledger  *repository.ReservationRepo
	Booking *service.BookingService
}

func NewAdminEventHandler(events *repository.EventRepo, ledger *repository.ReservationRepo, booking *service.BookingService) *AdminEventHandler {
	if events == nil || ledger == nil || booking == nil {
		panic("nil dependency passed to NewAdminEventHandler")
	}
	return &AdminEventHandler{Events: events, Ledger: ledger, Booking: booking}
}

type eventReq struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Date        string  `json:"date"`     // YYYY-MM-DD
	Time        string  `json:"time"`     // HH:MM
	EndTime     string  `json:"end_time"` // HH:MM
	Price       float64 `json:"price"`
}

// validateEventReq checks the field formats the desktop forms used to
// enforce: date YYYY-MM-DD and not in the past, clock times HH:MM with
// end after start, non-negative price.
func validateEventReq(r eventReq) error {
	if strings.TrimSpace(r.Name) == "" || r.Date == "" || r.Time == "" || r.EndTime == "" {
		return errors.New("name, date, time and end_time are required")
	}
	d, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return errors.New("date must be YYYY-MM-DD")
	}
	today, _ := time.Parse("2006-01-02", time.Now().Format("2006-01-02"))
	if d.Before(today) {
		return errors.New("date must not be in the past")
	}
	start, err := time.Parse("15:04", r.Time)
	if err != nil {
		return errors.New("time must be HH:MM")
	}
	end, err := time.Parse("15:04", r.EndTime)
	if err != nil {
		return errors.New("end_time must be HH:MM")
	}
	if !end.After(start) {
		return errors.New("end_time must be after time")
	}
	if r.Price < 0 {
		return errors.New("price must not be negative")
	}
	return nil
}

// CreateEvent handles POST /v1/admin/events.  Venue and capacity are
// injected by the catalog, not caller supplied.
func (h *AdminEventHandler) CreateEvent(c echo.Context) error {
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := validateEventReq(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ev := &model.Event{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		EndTime:     req.EndTime,
		Price:       req.Price,
	}
	if err := h.Events.Create(c.Request().Context(), ev); err != nil {
		if errors.Is(err, repository.ErrDateConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "another event already occupies this date"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": ev})
}

// UpdateEvent handles PATCH /v1/admin/events/:id.  Unspecified fields
// keep their prior values; the date-conflict check excludes the event
// itself so re-saving an event on its own date always succeeds.
func (h *AdminEventHandler) UpdateEvent(c echo.Context) error {
	id, ok := eventIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var upd model.EventUpdate
	if err := c.Bind(&upd); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if upd.Date != nil {
		if _, err := time.Parse("2006-01-02", *upd.Date); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
		}
	}
	for _, clock := range []*string{upd.Time, upd.EndTime} {
		if clock != nil {
			if _, err := time.Parse("15:04", *clock); err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "clock times must be HH:MM"})
			}
		}
	}
	if upd.Price != nil && *upd.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must not be negative"})
	}

	if err := h.Events.Update(c.Request().Context(), id, upd); err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		case errors.Is(err, repository.ErrDateConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "another event already occupies this date"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update event failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteEvent handles DELETE /v1/admin/events/:id.  Dependent
// reservations are removed in the same transaction.
func (h *AdminEventHandler) DeleteEvent(c echo.Context) error {
	id, ok := eventIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	if err := h.Events.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete event failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListEvents handles GET /v1/admin/events: the full catalog, past events
// included, for the admin dashboard.
func (h *AdminEventHandler) ListEvents(c echo.Context) error {
	events, err := h.Events.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load events"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": events})
}

// GetRoster handles GET /v1/admin/events/:id/roster: who holds which seat.
func (h *AdminEventHandler) GetRoster(c echo.Context) error {
	id, ok := eventIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	if _, err := h.Events.GetByID(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load event"})
	}
	roster, err := h.Ledger.Roster(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load roster"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": roster})
}

// ExportRosterCSV handles GET /v1/admin/events/:id/roster.csv.  It
// streams the roster as CSV with the columns the desktop export used:
// seat_id, row, seat, username.
func (h *AdminEventHandler) ExportRosterCSV(c echo.Context) error {
	id, ok := eventIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ev, err := h.Events.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load event"})
	}
	roster, err := h.Ledger.Roster(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load roster"})
	}

	filename := fmt.Sprintf("%s_reservations_%s.csv",
		strings.ReplaceAll(ev.Name, " ", "_"),
		time.Now().Format("20060102_150405"))
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Response().WriteHeader(http.StatusOK)

	w := csv.NewWriter(c.Response())
	if err := w.Write([]string{"seat_id", "row", "seat", "username"}); err != nil {
		return err
	}
	for _, entry := range roster {
		rec := []string{
			entry.Seat.Label(),
			entry.Seat.Row,
			fmt.Sprintf("%d", entry.Seat.Number),
			entry.Username,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// AdminCancelSeat handles DELETE /v1/admin/events/:id/reservations.  The
// staff-initiated cancellation names the seat owner explicitly; the
// deletion rule is identical to the customer path.
func (h *AdminEventHandler) AdminCancelSeat(c echo.Context) error {
	id, ok := eventIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var body struct {
		Username string `json:"username"`
		Row      string `json:"row"`
		Number   int    `json:"number"`
	}
	if err := c.Bind(&body); err != nil || body.Username == "" || body.Row == "" || body.Number < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username, row and number required"})
	}

	removed, err := h.Booking.AdminCancelSeat(c.Request().Context(), strings.ToLower(strings.TrimSpace(body.Username)), id, body.Row, body.Number)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	if !removed {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no matching reservation"})
	}
	return c.NoContent(http.StatusNoContent)
}
