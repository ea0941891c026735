// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names used by the publisher and the background consumer.
const (
	BookingConfirmedQueue = "booking.confirmed"
	BookingCancelledQueue = "booking.cancelled"
)

// BookingConfirmedEvent is published when a booking commits at least one
// seat.  It carries enough information for downstream consumers to log or
// notify without querying the primary database.
type BookingConfirmedEvent struct {
	Username    string   `json:"username"`
	EventID     uint64   `json:"event_id"`
	EventName   string   `json:"event_name"`
	EventDate   string   `json:"event_date"`
	SeatLabels  []string `json:"seats"`
	Price       float64  `json:"price"`
	ConfirmedAt string   `json:"confirmed_at"`
}

// BookingCancelledEvent is published when a reservation row is removed,
// whether by the owner or by staff.
type BookingCancelledEvent struct {
	Username    string `json:"username"`
	EventID     uint64 `json:"event_id"`
	SeatLabel   string `json:"seat"`
	CancelledAt string `json:"cancelled_at"`
}
