package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventify/eventify/internal/model"
	"github.com/eventify/eventify/internal/queue"
	"github.com/eventify/eventify/internal/repository"
	"github.com/eventify/eventify/internal/seatmap"
)

// fakeCatalog serves events from a map and reports ErrEventNotFound for
// everything else, mirroring the real repository's contract.
type fakeCatalog struct {
	events map[uint64]*model.Event
}

func (f *fakeCatalog) GetByID(_ context.Context, id uint64) (*model.Event, error) {
	if ev, ok := f.events[id]; ok {
		return ev, nil
	}
	return nil, repository.ErrEventNotFound
}

// fakeLedger scripts the ledger responses and records what Book received.
type fakeLedger struct {
	reserved   []model.Seat
	mine       []model.Seat
	bookResult model.BookingResult
	bookErr    error
	bookedWith []model.Seat
	cancelOK   bool
	cancelled  []model.Seat
}

func (f *fakeLedger) ReservedSeats(context.Context, uint64, string) ([]model.Seat, error) {
	return f.reserved, nil
}
func (f *fakeLedger) SeatsOwnedBy(context.Context, uint64, string) ([]model.Seat, error) {
	return f.mine, nil
}
func (f *fakeLedger) CountForUser(context.Context, uint64, string) (int, error) {
	return len(f.mine), nil
}
func (f *fakeLedger) Book(_ context.Context, _ string, _ uint64, seats []model.Seat) (model.BookingResult, error) {
	f.bookedWith = seats
	return f.bookResult, f.bookErr
}
func (f *fakeLedger) Cancel(_ context.Context, _ string, _ uint64, row string, num int) (bool, error) {
	f.cancelled = append(f.cancelled, model.Seat{Row: row, Number: num})
	return f.cancelOK, nil
}
func (f *fakeLedger) CancelAsAdmin(_ context.Context, _ string, _ uint64, row string, num int) (bool, error) {
	f.cancelled = append(f.cancelled, model.Seat{Row: row, Number: num})
	return f.cancelOK, nil
}
func (f *fakeLedger) ListForUser(_ context.Context, _ uint64, _ string) ([]model.Reservation, error) {
	out := make([]model.Reservation, 0, len(f.mine))
	for _, st := range f.mine {
		out = append(out, model.Reservation{Seat: st})
	}
	return out, nil
}

type fakePublisher struct {
	confirmed []queue.BookingConfirmedEvent
	cancelled []queue.BookingCancelledEvent
	fail      bool
}

func (f *fakePublisher) PublishBookingConfirmed(_ context.Context, ev queue.BookingConfirmedEvent) error {
	if f.fail {
		return errors.New("broker down")
	}
	f.confirmed = append(f.confirmed, ev)
	return nil
}

func (f *fakePublisher) PublishBookingCancelled(_ context.Context, ev queue.BookingCancelledEvent) error {
	if f.fail {
		return errors.New("broker down")
	}
	f.cancelled = append(f.cancelled, ev)
	return nil
}

func futureEvent() *model.Event {
	return &model.Event{ID: 1, Name: "Jazz Night", Date: "2999-01-01", Time: "19:00", EndTime: "22:00", Price: 30}
}

func newTestService(cat *fakeCatalog, led *fakeLedger, pub Publisher) *BookingService {
	s := NewBookingService(cat, led, pub)
	s.now = func() time.Time { return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestReserveOutcomeClassification(t *testing.T) {
	a1 := model.Seat{Row: "A", Number: 1}
	a2 := model.Seat{Row: "A", Number: 2}

	cases := []struct {
		name   string
		result model.BookingResult
		status string
	}{
		{"all booked", model.BookingResult{Booked: []model.Seat{a1, a2}}, ReserveSuccess},
		{"split", model.BookingResult{Booked: []model.Seat{a1}, Rejected: []model.Seat{a2}}, ReservePartial},
		{"all lost", model.BookingResult{Rejected: []model.Seat{a1, a2}}, ReserveAllConflicted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			led := &fakeLedger{bookResult: tc.result}
			svc := newTestService(&fakeCatalog{events: map[uint64]*model.Event{1: futureEvent()}}, led, nil)

			out, err := svc.Reserve(context.Background(), "alice", 1, []model.Seat{a1, a2})
			require.NoError(t, err)
			assert.Equal(t, tc.status, out.Status)
			assert.Equal(t, tc.result, out.Result)
		})
	}
}

func TestReserveValidation(t *testing.T) {
	past := futureEvent()
	past.Date = "2020-01-01"
	cat := &fakeCatalog{events: map[uint64]*model.Event{1: futureEvent(), 2: past}}

	t.Run("unknown event", func(t *testing.T) {
		svc := newTestService(cat, &fakeLedger{}, nil)
		_, err := svc.Reserve(context.Background(), "alice", 99, []model.Seat{{Row: "A", Number: 1}})
		assert.ErrorIs(t, err, repository.ErrEventNotFound)
	})

	t.Run("past event", func(t *testing.T) {
		svc := newTestService(cat, &fakeLedger{}, nil)
		_, err := svc.Reserve(context.Background(), "alice", 2, []model.Seat{{Row: "A", Number: 1}})
		assert.ErrorIs(t, err, ErrEventPast)
	})

	t.Run("seat outside layout", func(t *testing.T) {
		svc := newTestService(cat, &fakeLedger{}, nil)
		for _, st := range []model.Seat{{Row: "Z", Number: 1}, {Row: "A", Number: 25}} {
			_, err := svc.Reserve(context.Background(), "alice", 1, []model.Seat{st})
			assert.ErrorIs(t, err, ErrUnknownSeat, "seat %v", st)
		}
	})

	t.Run("empty request", func(t *testing.T) {
		svc := newTestService(cat, &fakeLedger{}, nil)
		_, err := svc.Reserve(context.Background(), "alice", 1, nil)
		assert.ErrorIs(t, err, ErrUnknownSeat)
	})

	t.Run("quota error passes through", func(t *testing.T) {
		led := &fakeLedger{bookErr: repository.ErrQuotaExceeded}
		svc := newTestService(cat, led, nil)
		_, err := svc.Reserve(context.Background(), "alice", 1, []model.Seat{{Row: "A", Number: 1}})
		assert.ErrorIs(t, err, repository.ErrQuotaExceeded)
	})
}

func TestReserveNormalizesAndDedupes(t *testing.T) {
	a1 := model.Seat{Row: "A", Number: 1}
	led := &fakeLedger{bookResult: model.BookingResult{Booked: []model.Seat{a1}}}
	svc := newTestService(&fakeCatalog{events: map[uint64]*model.Event{1: futureEvent()}}, led, nil)

	// Lowercase, padded and duplicate entries collapse into one seat;
	// malformed entries are dropped silently.
	req := []model.Seat{
		{Row: " a ", Number: 1},
		{Row: "A", Number: 1},
		{Row: "", Number: 3},
		{Row: "B", Number: 0},
	}
	out, err := svc.Reserve(context.Background(), "alice", 1, req)
	require.NoError(t, err)
	assert.Equal(t, ReserveSuccess, out.Status)
	assert.Equal(t, []model.Seat{a1}, led.bookedWith)
}

func TestReservePublishesConfirmation(t *testing.T) {
	a1 := model.Seat{Row: "A", Number: 1}
	g36 := model.Seat{Row: "G", Number: 36}
	led := &fakeLedger{bookResult: model.BookingResult{Booked: []model.Seat{a1, g36}}}
	pub := &fakePublisher{}
	svc := newTestService(&fakeCatalog{events: map[uint64]*model.Event{1: futureEvent()}}, led, pub)

	_, err := svc.Reserve(context.Background(), "alice", 1, []model.Seat{a1, g36})
	require.NoError(t, err)
	require.Len(t, pub.confirmed, 1)
	evt := pub.confirmed[0]
	assert.Equal(t, "alice", evt.Username)
	assert.Equal(t, "Jazz Night", evt.EventName)
	assert.Equal(t, []string{"A1", "G36"}, evt.SeatLabels)
}

func TestReserveSurvivesBrokerOutage(t *testing.T) {
	a1 := model.Seat{Row: "A", Number: 1}
	led := &fakeLedger{bookResult: model.BookingResult{Booked: []model.Seat{a1}}}
	svc := newTestService(&fakeCatalog{events: map[uint64]*model.Event{1: futureEvent()}}, led, &fakePublisher{fail: true})

	out, err := svc.Reserve(context.Background(), "alice", 1, []model.Seat{a1})
	require.NoError(t, err)
	assert.Equal(t, ReserveSuccess, out.Status)
}

func TestReserveNoPublishWhenNothingBooked(t *testing.T) {
	a1 := model.Seat{Row: "A", Number: 1}
	led := &fakeLedger{bookResult: model.BookingResult{Rejected: []model.Seat{a1}}}
	pub := &fakePublisher{}
	svc := newTestService(&fakeCatalog{events: map[uint64]*model.Event{1: futureEvent()}}, led, pub)

	out, err := svc.Reserve(context.Background(), "alice", 1, []model.Seat{a1})
	require.NoError(t, err)
	assert.Equal(t, ReserveAllConflicted, out.Status)
	assert.Empty(t, pub.confirmed)
}

func TestBoardAssembly(t *testing.T) {
	others := []model.Seat{{Row: "A", Number: 1}, {Row: "B", Number: 2}}
	mine := []model.Seat{{Row: "C", Number: 3}}
	led := &fakeLedger{reserved: others, mine: mine}
	svc := newTestService(&fakeCatalog{events: map[uint64]*model.Event{1: futureEvent()}}, led, nil)

	board, err := svc.Board(context.Background(), 1, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), board.EventID)
	assert.Len(t, board.Available, seatmap.TotalSeats()-3)
	assert.Equal(t, others, board.OwnedByOthers)
	assert.Equal(t, mine, board.OwnedByMe)
	assert.Equal(t, 1, board.QuotaUsed)
	assert.Equal(t, model.MaxSeatsPerUser, board.QuotaLimit)
	assert.NotContains(t, board.Available, model.Seat{Row: "A", Number: 1})
	assert.Contains(t, board.Available, model.Seat{Row: "A", Number: 2})
}

func TestBoardUnknownEvent(t *testing.T) {
	svc := newTestService(&fakeCatalog{events: map[uint64]*model.Event{}}, &fakeLedger{}, nil)
	_, err := svc.Board(context.Background(), 7, "alice")
	assert.ErrorIs(t, err, repository.ErrEventNotFound)
}

func TestCancelSeatPublishesOnlyWhenRemoved(t *testing.T) {
	t.Run("removed", func(t *testing.T) {
		pub := &fakePublisher{}
		svc := newTestService(&fakeCatalog{events: map[uint64]*model.Event{1: futureEvent()}}, &fakeLedger{cancelOK: true}, pub)
		ok, err := svc.CancelSeat(context.Background(), "alice", 1, "A", 1)
		require.NoError(t, err)
		assert.True(t, ok)
		require.Len(t, pub.cancelled, 1)
		assert.Equal(t, "A1", pub.cancelled[0].SeatLabel)
	})

	t.Run("nothing matched", func(t *testing.T) {
		pub := &fakePublisher{}
		svc := newTestService(&fakeCatalog{events: map[uint64]*model.Event{1: futureEvent()}}, &fakeLedger{cancelOK: false}, pub)
		ok, err := svc.CancelSeat(context.Background(), "alice", 1, "A", 1)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, pub.cancelled)
	})
}

func TestCancelSeatNormalizesRow(t *testing.T) {
	// A cancel spelled " a " must release the seat booked as A1, with
	// the same row canonicalization booking applies.
	led := &fakeLedger{cancelOK: true}
	svc := newTestService(&fakeCatalog{events: map[uint64]*model.Event{1: futureEvent()}}, led, nil)

	ok, err := svc.CancelSeat(context.Background(), "alice", 1, " a ", 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.AdminCancelSeat(context.Background(), "alice", 1, "g", 36)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, []model.Seat{{Row: "A", Number: 1}, {Row: "G", Number: 36}}, led.cancelled)
}

func TestTicketPayload(t *testing.T) {
	led := &fakeLedger{mine: []model.Seat{{Row: "A", Number: 1}, {Row: "A", Number: 2}}}
	svc := newTestService(&fakeCatalog{events: map[uint64]*model.Event{1: futureEvent()}}, led, nil)

	payload, err := svc.TicketPayload(context.Background(), "alice", 1)
	require.NoError(t, err)
	assert.Equal(t, "alice -- Jazz Night -- A1, A2", payload)
}

func TestTicketPayloadNoReservations(t *testing.T) {
	svc := newTestService(&fakeCatalog{events: map[uint64]*model.Event{1: futureEvent()}}, &fakeLedger{}, nil)
	_, err := svc.TicketPayload(context.Background(), "alice", 1)
	assert.ErrorIs(t, err, ErrNoReservations)
}
