// Package repository contains data access logic for the event catalog.
// An Event is one calendar entry for the auditorium; the venue-wide rule
// is at most one event per calendar date, enforced by a pre-check (for a
// clean DateConflict result) and backstopped by the unique (venue, date)
// key so racing admin writes still cannot both commit.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/eventify/eventify/internal/model"
	"github.com/eventify/eventify/internal/seatmap"
)

// EventRepo manages persistence for events.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo constructs an EventRepo with the given DB handle.
func NewEventRepo(db *sql.DB) *EventRepo {
	return &EventRepo{db: db}
}

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *EventRepo) DB() *sql.DB {
	return r.db
}

const eventColumns = `id, name, description, date, time, end_time, venue, capacity, price, created_at`

func scanEvent(row interface {
	Scan(dest ...interface{}) error
}, e *model.Event) error {
	return row.Scan(&e.ID, &e.Name, &e.Description, &e.Date, &e.Time, &e.EndTime,
		&e.Venue, &e.Capacity, &e.Price, &e.CreatedAt)
}

// Create inserts a new event and assigns the generated ID plus DB-default
// fields back onto the struct.  Venue and capacity are injected constants,
// never caller supplied.  ErrDateConflict is returned when any existing
// event already occupies the date.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	e.Venue = seatmap.Venue
	e.Capacity = seatmap.Capacity

	occupied, err := r.dateOccupied(ctx, e.Date, 0)
	if err != nil {
		return err
	}
	if occupied {
		return ErrDateConflict
	}

	const q = `INSERT INTO events (name, description, date, time, end_time, venue, capacity, price) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, e.Name, e.Description, e.Date, e.Time, e.EndTime, e.Venue, e.Capacity, e.Price)
	if err != nil {
		if isDuplicateKey(err) {
			// Lost a race to a concurrent create on the same date.
			return ErrDateConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	// Query the inserted row back to populate created_at.
	const sel = `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	return scanEvent(r.db.QueryRowContext(ctx, sel, e.ID), e)
}

// Update applies a partial update: nil fields of upd keep their prior
// values.  The date-conflict check excludes the event itself, so moving
// an event onto its own date is always accepted.
func (r *EventRepo) Update(ctx context.Context, id uint64, upd model.EventUpdate) error {
	cur, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if upd.Name != nil {
		cur.Name = *upd.Name
	}
	if upd.Description != nil {
		cur.Description = *upd.Description
	}
	if upd.Date != nil {
		cur.Date = *upd.Date
	}
	if upd.Time != nil {
		cur.Time = *upd.Time
	}
	if upd.EndTime != nil {
		cur.EndTime = *upd.EndTime
	}
	if upd.Price != nil {
		cur.Price = *upd.Price
	}

	occupied, err := r.dateOccupied(ctx, cur.Date, id)
	if err != nil {
		return err
	}
	if occupied {
		return ErrDateConflict
	}

	const q = `UPDATE events SET name=?, description=?, date=?, time=?, end_time=?, price=? WHERE id=?`
	res, err := r.db.ExecContext(ctx, q, cur.Name, cur.Description, cur.Date, cur.Time, cur.EndTime, cur.Price, id)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDateConflict
		}
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Row vanished between the read and the write.
		return ErrEventNotFound
	}
	return nil
}

// Delete removes an event and, in the same transaction, every reservation
// that references it.  Orphaned reservation rows would be harmless (they
// are always queried by event_id) but cascading keeps the ledger clean.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEventNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM user_reservation WHERE event_id = ?`, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID retrieves an event by its ID.  It returns ErrEventNotFound if
// there is no matching row.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	var e model.Event
	if err := scanEvent(r.db.QueryRowContext(ctx, q, id), &e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &e, nil
}

// ListFuture returns events on or after the given calendar day
// ("YYYY-MM-DD", the caller's local date), ordered by date then start
// time ascending.  When no events match it returns an empty slice.
func (r *EventRepo) ListFuture(ctx context.Context, today string) ([]model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE date >= ? ORDER BY date ASC, time ASC`
	return r.list(ctx, q, today)
}

// ListAll returns every event in the catalog ordered by date then start
// time, for the admin dashboard.
func (r *EventRepo) ListAll(ctx context.Context) ([]model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events ORDER BY date ASC, time ASC`
	return r.list(ctx, q)
}

func (r *EventRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]model.Event, 0)
	for rows.Next() {
		var e model.Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// dateOccupied reports whether any event other than excludeID sits on the
// given date.  Venue is a constant so the venue column is not filtered.
func (r *EventRepo) dateOccupied(ctx context.Context, date string, excludeID uint64) (bool, error) {
	const q = `SELECT COUNT(*) FROM events WHERE date = ? AND id <> ?`
	var n int
	if err := r.db.QueryRowContext(ctx, q, date, excludeID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
