package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eventify/eventify/internal/model"
	"github.com/eventify/eventify/internal/repository"
	"github.com/eventify/eventify/internal/service"
)

// CustomerHandler serves the customer-facing booking flow: browsing
// events, reading the seat board, booking and cancelling seats, and the
// ticket payload.  JWT authentication has already run; methods return
// 401 only when the username cannot be extracted from the context.
type CustomerHandler struct {
	Events  *repository.EventRepo
	Ledger  *repository.ReservationRepo
	Booking *service.BookingService
}

// NewCustomerHandler constructs a CustomerHandler.  All dependencies must
// be non-nil.
func NewCustomerHandler(events *repository.EventRepo, ledger *repository.ReservationRepo, booking *service.BookingService) *CustomerHandler {
	if events == nil || ledger == nil || booking == nil {
		panic("nil dependency passed to NewCustomerHandler")
	}
	return &CustomerHandler{Events: events, Ledger: ledger, Booking: booking}
}

// currentUsername pulls the authenticated username out of the Echo
// context, where the JWT middleware stored the token's subject claim.
func currentUsername(c echo.Context) (string, bool) {
	v, ok := c.Get("username").(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// eventIDParam parses the :id path parameter.
func eventIDParam(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// ListEvents handles GET /v1/events.  It returns future events only
// (date on or after the caller's local calendar day), ordered by date
// then start time.
func (h *CustomerHandler) ListEvents(c echo.Context) error {
	today := time.Now().Format("2006-01-02")
	events, err := h.Events.ListFuture(c.Request().Context(), today)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load events"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": events})
}

// GetEvent handles GET /v1/events/:id.
func (h *CustomerHandler) GetEvent(c echo.Context) error {
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
	return c.JSON(http.StatusOK, echo.Map{"item": ev})
}

// GetBoard handles GET /v1/events/:id/board.  One call returns everything
// a seat-map rendering needs: available seats, seats held by others, the
// viewer's own seats and quota usage.
func (h *CustomerHandler) GetBoard(c echo.Context) error {
	username, ok := currentUsername(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := eventIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	board, err := h.Booking.Board(c.Request().Context(), id, username)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load board"})
	}
	return c.JSON(http.StatusOK, board)
}

// GetQuota handles GET /v1/events/:id/quota: the viewer's quota usage for
// one event, for lightweight quota displays that do not need the board.
func (h *CustomerHandler) GetQuota(c echo.Context) error {
	username, ok := currentUsername(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := eventIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	used, err := h.Ledger.CountForUser(c.Request().Context(), id, username)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load quota"})
	}
	return c.JSON(http.StatusOK, echo.Map{"used": used, "limit": model.MaxSeatsPerUser})
}

// Reserve handles POST /v1/events/:id/reservations.  The body carries the
// requested seats; the response classifies the outcome and lists booked
// and rejected seats so the UI can say "these 2 of 5 were taken by
// someone else just now".
func (h *CustomerHandler) Reserve(c echo.Context) error {
	username, ok := currentUsername(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := eventIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var body struct {
		Seats []model.Seat `json:"seats"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(body.Seats) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats is required"})
	}

	outcome, err := h.Booking.Reserve(c.Request().Context(), username, id, body.Seats)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		case errors.Is(err, service.ErrEventPast):
			return c.JSON(http.StatusConflict, echo.Map{"error": "event has already taken place"})
		case errors.Is(err, service.ErrUnknownSeat):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown seat"})
		case errors.Is(err, repository.ErrQuotaExceeded):
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "reservation quota exceeded",
				"limit": model.MaxSeatsPerUser,
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}

	status := http.StatusCreated
	if outcome.Status == service.ReserveAllConflicted {
		status = http.StatusConflict
	}
	return c.JSON(status, outcome)
}

// CancelSeat handles DELETE /v1/events/:id/reservations.  The body names
// the seat.  Ownership is implicit: a non-owner's attempt matches zero
// rows and reports 404, never an error.
func (h *CustomerHandler) CancelSeat(c echo.Context) error {
	username, ok := currentUsername(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := eventIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var body model.Seat
	if err := c.Bind(&body); err != nil || body.Row == "" || body.Number < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat row and number required"})
	}

	removed, err := h.Booking.CancelSeat(c.Request().Context(), username, id, body.Row, body.Number)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	if !removed {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no matching reservation"})
	}
	return c.NoContent(http.StatusNoContent)
}

// GetTicket handles GET /v1/events/:id/ticket.  It returns the
// human-readable payload the QR collaborator encodes:
// "username -- event name -- A1, A2".
func (h *CustomerHandler) GetTicket(c echo.Context) error {
	username, ok := currentUsername(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := eventIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	payload, err := h.Booking.TicketPayload(c.Request().Context(), username, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		case errors.Is(err, service.ErrNoReservations):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no reservations for this event"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to build ticket"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ticket": payload})
}
