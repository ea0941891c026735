package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"

	"github.com/eventify/eventify/internal/database"
	"github.com/eventify/eventify/internal/model"
)

// testDB opens the MySQL database named by TEST_DATABASE_DSN, ensures
// the schema and wipes all tables. Tests are skipped when the variable
// is unset so the suite stays runnable without infrastructure.
//
// Example: TEST_DATABASE_DSN="root@tcp(localhost:3306)/eventify_test?parseTime=true"
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set; skipping MySQL integration test")
	}
	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, db.PingContext(ctx))
	require.NoError(t, database.EnsureSchema(ctx, db))

	// Child tables first so nothing dangles between statements.
	for _, tbl := range []string{"user_reservation", "refresh_tokens", "events", "users"} {
		_, err := db.ExecContext(ctx, "DELETE FROM "+tbl)
		require.NoError(t, err)
	}
	return db
}

// mustCreateEvent inserts a future event on the given date and returns
// it. Dates must be unique per test because the venue hosts at most one
// event per day.
func mustCreateEvent(t *testing.T, repo *EventRepo, name, date string) *model.Event {
	t.Helper()
	ev := &model.Event{
		Name:        name,
		Description: "integration fixture",
		Date:        date,
		Time:        "19:00",
		EndTime:     "22:00",
		Price:       25,
	}
	require.NoError(t, repo.Create(context.Background(), ev))
	require.NotZero(t, ev.ID)
	return ev
}
