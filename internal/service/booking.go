// Package service composes the event catalog and the reservation ledger
// into the booking facade the UI collaborators call.  The facade owns no
// seat-level correctness: it validates requests against the catalog and
// the seat map, delegates the atomic work to the ledger, and translates
// ledger results into categories a UI can render.
package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/eventify/eventify/internal/model"
	"github.com/eventify/eventify/internal/queue"
	"github.com/eventify/eventify/internal/seatmap"
)

// ErrEventPast is returned when a booking references an event whose date
// has already passed; only future events accept reservations.
var ErrEventPast = errors.New("event has already taken place")

// ErrUnknownSeat is returned when a requested seat does not exist in the
// auditorium layout.
var ErrUnknownSeat = errors.New("seat does not exist in the auditorium")

// ErrNoReservations is returned by TicketPayload when the user holds no
// seats for the event.
var ErrNoReservations = errors.New("no reservations for this event")

// Catalog is the slice of the event catalog the facade needs.
type Catalog interface {
	GetByID(ctx context.Context, id uint64) (*model.Event, error)
}

// Ledger is the slice of the reservation ledger the facade needs.
type Ledger interface {
	ReservedSeats(ctx context.Context, eventID uint64, excludingUsername string) ([]model.Seat, error)
	SeatsOwnedBy(ctx context.Context, eventID uint64, username string) ([]model.Seat, error)
	CountForUser(ctx context.Context, eventID uint64, username string) (int, error)
	Book(ctx context.Context, username string, eventID uint64, seats []model.Seat) (model.BookingResult, error)
	Cancel(ctx context.Context, username string, eventID uint64, row string, num int) (bool, error)
	CancelAsAdmin(ctx context.Context, username string, eventID uint64, row string, num int) (bool, error)
	ListForUser(ctx context.Context, eventID uint64, username string) ([]model.Reservation, error)
}

// Publisher delivers domain events to the broker.  Publishing is best
// effort: a broker outage must never fail a booking.
type Publisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
	PublishBookingCancelled(ctx context.Context, ev queue.BookingCancelledEvent) error
}

// Outcome classification for a reserve call.
const (
	ReserveSuccess       = "success"        // every requested seat booked
	ReservePartial       = "partial"        // some booked, some lost the race
	ReserveAllConflicted = "all_conflicted" // every requested seat was taken
)

// ReserveOutcome is the user-facing translation of a ledger booking
// result.
type ReserveOutcome struct {
	Status string              `json:"status"`
	Result model.BookingResult `json:"result"`
}

// BookingService is the facade over catalog + ledger.
type BookingService struct {
	catalog   Catalog
	ledger    Ledger
	publisher Publisher        // may be nil when no broker is configured
	now       func() time.Time // injected for tests
}

// NewBookingService constructs the facade.  publisher may be nil.
func NewBookingService(catalog Catalog, ledger Ledger, publisher Publisher) *BookingService {
	if catalog == nil || ledger == nil {
		panic("nil dependency passed to NewBookingService")
	}
	return &BookingService{catalog: catalog, ledger: ledger, publisher: publisher, now: time.Now}
}

// today returns the caller's local calendar day in "YYYY-MM-DD" form.
func (s *BookingService) today() string {
	return s.now().Format("2006-01-02")
}

// Board assembles everything a seat-map rendering needs in one call:
// available seats, seats held by others, the viewer's own seats and the
// viewer's quota usage.
func (s *BookingService) Board(ctx context.Context, eventID uint64, username string) (*model.Board, error) {
	if _, err := s.catalog.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	others, err := s.ledger.ReservedSeats(ctx, eventID, username)
	if err != nil {
		return nil, err
	}
	mine, err := s.ledger.SeatsOwnedBy(ctx, eventID, username)
	if err != nil {
		return nil, err
	}

	taken := make(map[model.Seat]struct{}, len(others)+len(mine))
	for _, st := range others {
		taken[st] = struct{}{}
	}
	for _, st := range mine {
		taken[st] = struct{}{}
	}
	available := make([]model.Seat, 0, seatmap.TotalSeats()-len(taken))
	for _, row := range seatmap.Rows() {
		for n := 1; n <= row.Seats; n++ {
			st := model.Seat{Row: row.Label, Number: n}
			if _, ok := taken[st]; !ok {
				available = append(available, st)
			}
		}
	}

	return &model.Board{
		EventID:       eventID,
		Available:     available,
		OwnedByOthers: others,
		OwnedByMe:     mine,
		QuotaUsed:     len(mine),
		QuotaLimit:    model.MaxSeatsPerUser,
	}, nil
}

// Reserve validates the request and delegates to the ledger's atomic
// booking.  Validation errors (unknown event, past event, unknown seat,
// quota) surface as sentinel errors; seat conflicts are not errors but
// part of the returned outcome.
func (s *BookingService) Reserve(ctx context.Context, username string, eventID uint64, seats []model.Seat) (*ReserveOutcome, error) {
	ev, err := s.catalog.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !ev.IsFuture(s.today()) {
		return nil, ErrEventPast
	}

	seats = dedupeSeats(seats)
	if len(seats) == 0 {
		return nil, ErrUnknownSeat
	}
	for _, st := range seats {
		if !seatmap.Contains(st.Row, st.Number) {
			return nil, ErrUnknownSeat
		}
	}

	result, err := s.ledger.Book(ctx, username, eventID, seats)
	if err != nil {
		return nil, err
	}

	outcome := &ReserveOutcome{Result: result}
	switch {
	case len(result.Booked) == 0:
		outcome.Status = ReserveAllConflicted
	case result.AllBooked():
		outcome.Status = ReserveSuccess
	default:
		outcome.Status = ReservePartial
	}

	if s.publisher != nil && len(result.Booked) > 0 {
		labels := make([]string, 0, len(result.Booked))
		for _, st := range result.Booked {
			labels = append(labels, st.Label())
		}
		evt := queue.BookingConfirmedEvent{
			Username:    username,
			EventID:     eventID,
			EventName:   ev.Name,
			EventDate:   ev.Date,
			SeatLabels:  labels,
			Price:       ev.Price,
			ConfirmedAt: s.now().UTC().Format(time.RFC3339),
		}
		if err := s.publisher.PublishBookingConfirmed(ctx, evt); err != nil {
			log.Printf("booking: publish confirmed event failed: %v", err)
		}
	}
	return outcome, nil
}

// CancelSeat releases one of the caller's own seats.  Ownership is
// enforced implicitly by the ledger's exact-match deletion: a non-owner's
// attempt matches zero rows and reports false, never an error.
func (s *BookingService) CancelSeat(ctx context.Context, username string, eventID uint64, row string, num int) (bool, error) {
	row = normalizeRow(row)
	ok, err := s.ledger.Cancel(ctx, username, eventID, row, num)
	if err != nil {
		return false, err
	}
	if ok {
		s.publishCancelled(ctx, username, eventID, row, num)
	}
	return ok, nil
}

// AdminCancelSeat is the staff-initiated variant: the seat owner's
// username is an explicit parameter.  The handler layer is responsible
// for restricting this path to admin callers.
func (s *BookingService) AdminCancelSeat(ctx context.Context, username string, eventID uint64, row string, num int) (bool, error) {
	row = normalizeRow(row)
	ok, err := s.ledger.CancelAsAdmin(ctx, username, eventID, row, num)
	if err != nil {
		return false, err
	}
	if ok {
		s.publishCancelled(ctx, username, eventID, row, num)
	}
	return ok, nil
}

// TicketPayload builds the human-readable ticket line consumed by the QR
// collaborator: "username -- event name -- A1, A2".
func (s *BookingService) TicketPayload(ctx context.Context, username string, eventID uint64) (string, error) {
	ev, err := s.catalog.GetByID(ctx, eventID)
	if err != nil {
		return "", err
	}
	reservations, err := s.ledger.ListForUser(ctx, eventID, username)
	if err != nil {
		return "", err
	}
	if len(reservations) == 0 {
		return "", ErrNoReservations
	}
	labels := make([]string, 0, len(reservations))
	for _, res := range reservations {
		labels = append(labels, res.Seat.Label())
	}
	return username + " -- " + ev.Name + " -- " + strings.Join(labels, ", "), nil
}

func (s *BookingService) publishCancelled(ctx context.Context, username string, eventID uint64, row string, num int) {
	if s.publisher == nil {
		return
	}
	evt := queue.BookingCancelledEvent{
		Username:    username,
		EventID:     eventID,
		SeatLabel:   model.Seat{Row: row, Number: num}.Label(),
		CancelledAt: s.now().UTC().Format(time.RFC3339),
	}
	if err := s.publisher.PublishBookingCancelled(ctx, evt); err != nil {
		log.Printf("booking: publish cancelled event failed: %v", err)
	}
}

// normalizeRow canonicalizes a row label the same way booking does, so
// a cancel for " a "/1 releases the seat booked as A1.
func normalizeRow(row string) string {
	return strings.ToUpper(strings.TrimSpace(row))
}

// dedupeSeats drops duplicate and obviously malformed entries while
// preserving request order.
func dedupeSeats(seats []model.Seat) []model.Seat {
	seen := make(map[model.Seat]struct{}, len(seats))
	out := make([]model.Seat, 0, len(seats))
	for _, st := range seats {
		st.Row = normalizeRow(st.Row)
		if st.Row == "" || st.Number < 1 {
			continue
		}
		if _, ok := seen[st]; ok {
			continue
		}
		seen[st] = struct{}{}
		out = append(out, st)
	}
	return out
}
