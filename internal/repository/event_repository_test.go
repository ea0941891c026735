package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventify/eventify/internal/model"
	"github.com/eventify/eventify/internal/seatmap"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

func TestEventCreateFillsDefaults(t *testing.T) {
	db := testDB(t)
	events := NewEventRepo(db)

	ev := mustCreateEvent(t, events, "Defaults", "2999-02-01")
	assert.Equal(t, seatmap.Venue, ev.Venue)
	assert.Equal(t, seatmap.Capacity, ev.Capacity)
	assert.False(t, ev.CreatedAt.IsZero())
}

func TestEventDateConflict(t *testing.T) {
	db := testDB(t)
	events := NewEventRepo(db)
	ctx := context.Background()

	mustCreateEvent(t, events, "First", "2999-02-02")

	dup := &model.Event{Name: "Second", Date: "2999-02-02", Time: "20:00", EndTime: "23:00"}
	err := events.Create(ctx, dup)
	assert.ErrorIs(t, err, ErrDateConflict)

	// A different day is fine.
	dup.Date = "2999-02-03"
	assert.NoError(t, events.Create(ctx, dup))
}

func TestEventUpdateExcludesOwnDate(t *testing.T) {
	db := testDB(t)
	events := NewEventRepo(db)
	ctx := context.Background()

	first := mustCreateEvent(t, events, "Movable", "2999-02-04")
	other := mustCreateEvent(t, events, "Anchor", "2999-02-05")

	// Re-saving an event on its own date must not count as a conflict.
	err := events.Update(ctx, first.ID, model.EventUpdate{Date: strPtr("2999-02-04"), Name: strPtr("Renamed")})
	require.NoError(t, err)

	// Moving onto another event's date does.
	err = events.Update(ctx, first.ID, model.EventUpdate{Date: strPtr(other.Date)})
	assert.ErrorIs(t, err, ErrDateConflict)
}

func TestEventPartialUpdateRetainsFields(t *testing.T) {
	db := testDB(t)
	events := NewEventRepo(db)
	ctx := context.Background()

	ev := mustCreateEvent(t, events, "Partial", "2999-02-06")

	require.NoError(t, events.Update(ctx, ev.ID, model.EventUpdate{Price: f64Ptr(42.5)}))

	got, err := events.GetByID(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, 42.5, got.Price)
	assert.Equal(t, "Partial", got.Name)
	assert.Equal(t, ev.Date, got.Date)
	assert.Equal(t, ev.Time, got.Time)
	assert.Equal(t, ev.EndTime, got.EndTime)
}

func TestEventUpdateNotFound(t *testing.T) {
	db := testDB(t)
	events := NewEventRepo(db)

	err := events.Update(context.Background(), 12345, model.EventUpdate{Name: strPtr("ghost")})
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestEventDeleteCascadesReservations(t *testing.T) {
	db := testDB(t)
	events := NewEventRepo(db)
	ledger := NewReservationRepo(db)
	ctx := context.Background()

	ev := mustCreateEvent(t, events, "Doomed", "2999-02-07")
	_, err := ledger.Book(ctx, "alice", ev.ID, []model.Seat{{Row: "A", Number: 1}})
	require.NoError(t, err)

	require.NoError(t, events.Delete(ctx, ev.ID))

	_, err = events.GetByID(ctx, ev.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)

	roster, err := ledger.Roster(ctx, ev.ID)
	require.NoError(t, err)
	assert.Empty(t, roster)

	// The freed date is immediately reusable.
	assert.NoError(t, events.Create(ctx, &model.Event{Name: "Successor", Date: "2999-02-07", Time: "19:00", EndTime: "21:00"}))
}

func TestEventListFutureFilterAndOrder(t *testing.T) {
	db := testDB(t)
	events := NewEventRepo(db)
	ctx := context.Background()

	mustCreateEvent(t, events, "Later", "2999-03-02")
	mustCreateEvent(t, events, "Sooner", "2999-03-01")
	past := &model.Event{Name: "Gone", Date: "2001-01-01", Time: "19:00", EndTime: "21:00"}
	require.NoError(t, events.Create(ctx, past))

	future, err := events.ListFuture(ctx, "2999-01-01")
	require.NoError(t, err)
	require.Len(t, future, 2)
	assert.Equal(t, "Sooner", future[0].Name)
	assert.Equal(t, "Later", future[1].Name)

	all, err := events.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestEventGetByIDNotFound(t *testing.T) {
	db := testDB(t)
	events := NewEventRepo(db)

	_, err := events.GetByID(context.Background(), 999999)
	assert.ErrorIs(t, err, ErrEventNotFound)
}
