package model

import "time"

// Event represents a scheduled event in the auditorium as stored in the
// `events` table.  Date is the calendar day of the event; Time and
// EndTime are clock times in "HH:MM" form.  Venue and Capacity are
// injected constants, never caller supplied.  At most one event may
// occupy a given date venue-wide.
type Event struct {
	ID          uint64    `json:"id"`          // events.id
	Name        string    `json:"name"`        // events.name
	Description string    `json:"description"` // events.description
	Date        string    `json:"date"`        // events.date ("YYYY-MM-DD")
	Time        string    `json:"time"`        // events.time ("HH:MM")
	EndTime     string    `json:"end_time"`    // events.end_time ("HH:MM")
	Venue       string    `json:"venue"`       // events.venue
	Capacity    int       `json:"capacity"`    // events.capacity
	Price       float64   `json:"price"`       // events.price, payable on entry
	CreatedAt   time.Time `json:"created_at"`  // events.created_at
}

// EventUpdate carries a partial update for an event.  Nil fields keep
// their prior values.  ID and CreatedAt are never replaceable.
type EventUpdate struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Date        *string  `json:"date"`
	Time        *string  `json:"time"`
	EndTime     *string  `json:"end_time"`
	Price       *float64 `json:"price"`
}

// IsFuture reports whether the event's date is today or later relative to
// the supplied calendar day ("YYYY-MM-DD").  Dates compare correctly as
// strings in this form.
func (e *Event) IsFuture(today string) bool {
	return e.Date >= today
}
