package model

import (
	"fmt"
	"sort"
	"time"
)

// MaxSeatsPerUser is the quota: the most seats one user may hold for a
// single event.
const MaxSeatsPerUser = 4

// StatusReserved is the status column value for an active reservation.
// No other status exists; a cancelled seat is a deleted row, not a state
// transition.
const StatusReserved = "reserved"

// Seat identifies one physical seat by row label and seat number.  It is
// a pure value derived from the seat map, not a stored entity.
type Seat struct {
	Row    string `json:"row"`
	Number int    `json:"number"`
}

// Label renders the seat in the "A12" form used on tickets and exports.
func (s Seat) Label() string {
	return fmt.Sprintf("%s%d", s.Row, s.Number)
}

// SortSeats orders seats by row label then seat number, in place.
func SortSeats(seats []Seat) {
	sort.Slice(seats, func(i, j int) bool {
		if seats[i].Row != seats[j].Row {
			return seats[i].Row < seats[j].Row
		}
		return seats[i].Number < seats[j].Number
	})
}

// Reservation mirrors a row of the `user_reservation` table: one seat
// held by one user for one event.  Rows are created by a successful
// booking and deleted by cancellation; they are never updated in place.
type Reservation struct {
	ID         uint64    `json:"reservation_id"` // user_reservation.reservation_id
	Username   string    `json:"username"`       // user_reservation.username
	EventID    uint64    `json:"event_id"`       // user_reservation.event_id
	Seat       Seat      `json:"seat"`           // user_reservation.seat_row / seat_number
	ReservedAt time.Time `json:"reserved_at"`    // user_reservation.reserved_at
	Status     string    `json:"status"`         // user_reservation.status
}

// BookingResult partitions the seats of one booking attempt.  Booked
// seats were committed; Rejected seats lost the race to another user (or
// were already taken).  A rejection is an expected outcome, not an error.
type BookingResult struct {
	Booked   []Seat `json:"booked"`
	Rejected []Seat `json:"rejected"`
}

// AllBooked reports whether every requested seat was committed.
func (r BookingResult) AllBooked() bool {
	return len(r.Rejected) == 0
}

// Board is the per-event view a seat-map rendering needs: what is free,
// what others hold, what the viewer holds, and how much quota is used.
type Board struct {
	EventID       uint64 `json:"event_id"`
	Available     []Seat `json:"available"`
	OwnedByOthers []Seat `json:"owned_by_others"`
	OwnedByMe     []Seat `json:"owned_by_me"`
	QuotaUsed     int    `json:"quota_used"`
	QuotaLimit    int    `json:"quota_limit"`
}

// RosterEntry is one line of the admin reservation roster: who holds
// which seat for an event.
type RosterEntry struct {
	Seat     Seat   `json:"seat"`
	Username string `json:"username"`
}
