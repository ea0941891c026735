// Package seatmap describes the fixed geometry of the auditorium.  The
// layout is static, process-wide data: row labels and the number of seats
// in each row.  No seat rows exist in the database; a seat is just a
// (row label, seat number) value validated against this layout.
package seatmap

// Venue is the name of the single auditorium all events take place in.
const Venue = "Main Auditorium"

// Capacity is the nominal venue capacity recorded on every event row.
const Capacity = 550

// Row describes one row of the auditorium: its label and how many seats it
// holds.  Seat numbers within a row run from 1 to Seats inclusive.
type Row struct {
	Label string
	Seats int
}

// rows is the auditorium floor plan, front to back.
var rows = []Row{
	{"A", 24}, {"B", 24},
	{"C", 28}, {"D", 28},
	{"E", 32}, {"F", 32},
	{"G", 36}, {"H", 36}, {"I", 36}, {"J", 36}, {"K", 36}, {"L", 36},
	{"M", 34}, {"N", 32},
}

// Rows returns the auditorium layout front to back.  The returned slice is
// a copy; callers may not mutate the layout.
func Rows() []Row {
	out := make([]Row, len(rows))
	copy(out, rows)
	return out
}

// RowSize returns the number of seats in the named row, or 0 when the row
// does not exist.
func RowSize(label string) int {
	for _, r := range rows {
		if r.Label == label {
			return r.Seats
		}
	}
	return 0
}

// Contains reports whether (row, num) identifies a real seat in the
// auditorium.
func Contains(row string, num int) bool {
	if num < 1 {
		return false
	}
	return num <= RowSize(row)
}

// TotalSeats returns the number of physical seats across all rows.
func TotalSeats() int {
	total := 0
	for _, r := range rows {
		total += r.Seats
	}
	return total
}
