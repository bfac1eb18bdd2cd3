package database

import (
	"activly/internal/activities"
	"activly/internal/bookings"
	"activly/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&activities.Activity{},
		&bookings.Booking{},
	)
}
