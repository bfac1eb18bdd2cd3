package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds constraints AutoMigrate cannot express. The
// partial unique index is what makes "one active booking per user per
// activity" hold under concurrent inserts: cancelled rows fall outside
// the index so rebooking after cancellation stays possible.
func MigrateConstraints(db *gorm.DB) error {
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_active_user_activity
		ON bookings (user_id, activity_id)
		WHERE status <> 'CANCELLED';
	`).Error
	if err != nil {
		return err
	}

	// Supports capacity counts and roster listings per activity
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_activity_status
		ON bookings (activity_id, status);
	`).Error
	if err != nil {
		return err
	}

	// Supports "my bookings" queries
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_user_created
		ON bookings (user_id, created_at DESC);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
