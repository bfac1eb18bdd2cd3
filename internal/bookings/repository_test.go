package bookings

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"activly/internal/activities"
)

// newDryRunDB builds a gorm session that renders SQL without touching a
// database, so statement-level invariants can be asserted in tests.
func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=activly dbname=activly_test sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

func TestLockActivityEmitsRowLock(t *testing.T) {
	db := newDryRunDB(t)

	var activity activities.Activity
	stmt := lockActivity(db, uuid.New(), &activity).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, "FOR UPDATE")
	assert.Contains(t, sql, `"activities"`)
}

func TestActiveCountQueryExcludesCancelled(t *testing.T) {
	db := newDryRunDB(t)

	var count int64
	stmt := db.Model(&Booking{}).
		Where("activity_id = ? AND status IN ?", uuid.New(), ActiveStatuses).
		Count(&count).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, "status IN")
	assert.Len(t, stmt.Vars, 4)

	for _, v := range stmt.Vars[1:] {
		assert.NotEqual(t, StatusCancelled, v)
	}
}

func TestMapInsertErrorDuplicateKey(t *testing.T) {
	driverErr := errors.New(`ERROR: duplicate key value violates unique constraint "idx_bookings_active_user_activity" (SQLSTATE 23505)`)

	assert.ErrorIs(t, mapInsertError(driverErr), ErrDuplicateBooking)
}

func TestMapInsertErrorPassthrough(t *testing.T) {
	driverErr := errors.New("pq: connection refused")

	err := mapInsertError(driverErr)
	assert.ErrorIs(t, err, driverErr)
	assert.NotErrorIs(t, err, ErrDuplicateBooking)
}
