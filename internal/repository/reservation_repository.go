package repository

import (
	"context"
	"database/sql"

	"github.com/eventify/eventify/internal/model"
)

// ReservationRepo is the reservation ledger: the authoritative record of
// which seats are held by whom, per event.  Seat uniqueness is NOT
// enforced by application-level check-then-insert; that ordering has a
// race window between two concurrent callers.  Every insert goes straight
// at the unique (event_id, seat_row, seat_number) key and lets the
// storage engine arbitrate: the first committed insert wins, the second
// observes a duplicate-key error and is reported as a rejected seat.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for callers composing wider
// transactions.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

// ReservedSeats returns the seats held by anyone other than
// excludingUsername for the event.  The UI greys these out; the viewer's
// own seats stay selectable for cancellation.
func (r *ReservationRepo) ReservedSeats(ctx context.Context, eventID uint64, excludingUsername string) ([]model.Seat, error) {
	const q = `SELECT seat_row, seat_number FROM user_reservation
	           WHERE event_id = ? AND username <> ?
	           ORDER BY seat_row, seat_number`
	return r.querySeats(ctx, q, eventID, excludingUsername)
}

// SeatsOwnedBy returns the seats the given user holds for the event.
func (r *ReservationRepo) SeatsOwnedBy(ctx context.Context, eventID uint64, username string) ([]model.Seat, error) {
	const q = `SELECT seat_row, seat_number FROM user_reservation
	           WHERE event_id = ? AND username = ?
	           ORDER BY seat_row, seat_number`
	return r.querySeats(ctx, q, eventID, username)
}

// CountForUser returns the user's current quota usage for the event.
func (r *ReservationRepo) CountForUser(ctx context.Context, eventID uint64, username string) (int, error) {
	const q = `SELECT COUNT(*) FROM user_reservation WHERE event_id = ? AND username = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, q, eventID, username).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Book attempts to reserve the given seats for the user.  The whole call
// runs in one transaction:
//
//  1. the quota count uses a locking read, so two concurrent bookings by
//     the same user serialize and cannot jointly pass the pre-check;
//  2. when count+len(seats) would exceed the quota the batch fails fast
//     with ErrQuotaExceeded and nothing is inserted;
//  3. each seat's insert is evaluated independently against the unique
//     key: a duplicate-key outcome on one seat moves it to Rejected
//     without aborting the others.
//
// Rejections are expected outcomes of concurrent use, not errors; only
// infrastructure failures return a non-nil error.
//
// When the user holds no rows yet, the locking read takes only a gap
// lock, and gap locks from two concurrent same-user transactions are
// compatible: both pass the pre-check and one insert is then rolled back
// by InnoDB as a deadlock victim. The rollback is complete, so the whole
// attempt is simply retried a bounded number of times.
func (r *ReservationRepo) Book(ctx context.Context, username string, eventID uint64, seats []model.Seat) (model.BookingResult, error) {
	var result model.BookingResult
	var err error
	for attempt := 0; attempt < bookDeadlockRetries; attempt++ {
		result, err = r.bookOnce(ctx, username, eventID, seats)
		if !isDeadlock(err) {
			return result, err
		}
	}
	return result, err
}

// bookDeadlockRetries bounds how often a booking is replayed after
// losing a same-user gap-lock deadlock.
const bookDeadlockRetries = 3

func (r *ReservationRepo) bookOnce(ctx context.Context, username string, eventID uint64, seats []model.Seat) (model.BookingResult, error) {
	result := model.BookingResult{Booked: []model.Seat{}, Rejected: []model.Seat{}}
	if len(seats) == 0 {
		return result, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return result, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Locking read: holds the (event_id, username) index range until
	// commit so a concurrent Book by the same user waits here.
	const countQ = `SELECT COUNT(*) FROM user_reservation WHERE event_id = ? AND username = ? FOR UPDATE`
	var current int
	if err := tx.QueryRowContext(ctx, countQ, eventID, username).Scan(&current); err != nil {
		return result, err
	}
	if current+len(seats) > model.MaxSeatsPerUser {
		return result, ErrQuotaExceeded
	}

	const insQ = `INSERT INTO user_reservation (username, event_id, seat_row, seat_number, status) VALUES (?, ?, ?, ?, ?)`
	for _, s := range seats {
		_, err := tx.ExecContext(ctx, insQ, username, eventID, s.Row, s.Number, model.StatusReserved)
		if err != nil {
			if isDuplicateKey(err) {
				// Seat already taken: lost the race, keep going.
				result.Rejected = append(result.Rejected, s)
				continue
			}
			return model.BookingResult{Booked: []model.Seat{}, Rejected: []model.Seat{}}, err
		}
		result.Booked = append(result.Booked, s)
	}

	if err := tx.Commit(); err != nil {
		return model.BookingResult{Booked: []model.Seat{}, Rejected: []model.Seat{}}, err
	}
	committed = true
	return result, nil
}

// Cancel deletes the exact reservation row matching all four keys and
// reports whether a row was actually removed.  Cancelling a seat the
// caller does not own matches zero rows and returns false: idempotent,
// never an error.
func (r *ReservationRepo) Cancel(ctx context.Context, username string, eventID uint64, row string, num int) (bool, error) {
	return r.deleteExact(ctx, username, eventID, row, num)
}

// CancelAsAdmin is the privileged variant used for staff-initiated
// cancellations: the username whose seat is released arrives as an
// explicit parameter instead of being the caller.  The deletion rule is
// identical; only the caller's privilege differs.
func (r *ReservationRepo) CancelAsAdmin(ctx context.Context, username string, eventID uint64, row string, num int) (bool, error) {
	return r.deleteExact(ctx, username, eventID, row, num)
}

func (r *ReservationRepo) deleteExact(ctx context.Context, username string, eventID uint64, row string, num int) (bool, error) {
	const q = `DELETE FROM user_reservation WHERE username = ? AND event_id = ? AND seat_row = ? AND seat_number = ?`
	res, err := r.db.ExecContext(ctx, q, username, eventID, row, num)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Roster returns every reservation for the event as (seat, username)
// pairs ordered by row and seat number.  It feeds the admin seat-map
// view and the CSV export.
func (r *ReservationRepo) Roster(ctx context.Context, eventID uint64) ([]model.RosterEntry, error) {
	const q = `SELECT seat_row, seat_number, username FROM user_reservation
	           WHERE event_id = ?
	           ORDER BY seat_row, seat_number`
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]model.RosterEntry, 0)
	for rows.Next() {
		var e model.RosterEntry
		if err := rows.Scan(&e.Seat.Row, &e.Seat.Number, &e.Username); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListForUser returns the user's full reservation rows for one event,
// ordered by row and seat number.  Ticket and export collaborators
// consume this; no core logic depends on what they do with it.
func (r *ReservationRepo) ListForUser(ctx context.Context, eventID uint64, username string) ([]model.Reservation, error) {
	const q = `SELECT reservation_id, username, event_id, seat_row, seat_number, reserved_at, status
	           FROM user_reservation
	           WHERE event_id = ? AND username = ?
	           ORDER BY seat_row, seat_number`
	rows, err := r.db.QueryContext(ctx, q, eventID, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(&res.ID, &res.Username, &res.EventID, &res.Seat.Row, &res.Seat.Number, &res.ReservedAt, &res.Status); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ReservationRepo) querySeats(ctx context.Context, q string, args ...interface{}) ([]model.Seat, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.Row, &s.Number); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}
