// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as the
// booking service and handlers to distinguish failure scenarios with
// errors.Is instead of string matching.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrUsernameExists is returned when registration collides with an
// existing username.
var ErrUsernameExists = errors.New("username already exists")

// ErrEventNotFound indicates that an event was not located in the DB.
var ErrEventNotFound = errors.New("event not found")

// ErrDateConflict is returned when an event create or update would put a
// second event on a calendar date the venue already has one for.
var ErrDateConflict = errors.New("another event already occupies this date")

// ErrQuotaExceeded is returned when a booking would push a user past the
// per-event seat quota.  The whole batch is rejected before any insert.
var ErrQuotaExceeded = errors.New("reservation quota exceeded")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// isDuplicateKey reports whether err is a MySQL duplicate-key violation
// (error 1062).  The uniqueness constraints are the engine's conflict
// arbiter, so this condition is expected in normal operation.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// isDeadlock reports whether err is a MySQL deadlock victim (error 1213).
// InnoDB rolls the losing transaction back completely, so the operation
// can be retried from the top.
func isDeadlock(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1213
}
