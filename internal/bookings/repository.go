package bookings

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"activly/internal/activities"
	"activly/internal/shared/apperrors"
)

var (
	ErrBookingNotFound  = apperrors.NotFound("BOOKING_NOT_FOUND", "booking not found")
	ErrDuplicateBooking = apperrors.Conflict("DUPLICATE_BOOKING", "user already has an active booking for this activity")
	ErrActivityFull     = apperrors.Conflict("ACTIVITY_FULL", "activity has no remaining spots")
)

type Repository interface {
	// CreateWithCapacityCheck inserts the booking only if the activity
	// still has a free spot, holding a row lock on the activity for the
	// duration of the check.
	CreateWithCapacityCheck(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByIDWithActivity(ctx context.Context, id uuid.UUID) (*Booking, error)
	ExistsActive(ctx context.Context, userID, activityID uuid.UUID) (bool, error)
	CountActiveByActivity(ctx context.Context, activityID uuid.UUID) (int64, error)
	// UpdateStatusIf applies updates only while the booking is still in
	// the expected status. Returns false when the guard did not match.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, expected Status, updates map[string]interface{}) (bool, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error)
	GetActivityBookings(ctx context.Context, activityID uuid.UUID, query BookingListQuery) ([]Booking, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateWithCapacityCheck(ctx context.Context, booking *Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var activity activities.Activity
		if err := lockActivity(tx, booking.ActivityID, &activity).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return activities.ErrActivityNotFound
			}
			return err
		}

		var activeCount int64
		if err := tx.Model(&Booking{}).
			Where("activity_id = ? AND status IN ?", booking.ActivityID, ActiveStatuses).
			Count(&activeCount).Error; err != nil {
			return err
		}

		if activeCount >= int64(activity.MaxAttendees) {
			return ErrActivityFull
		}

		if err := tx.Create(booking).Error; err != nil {
			return mapInsertError(err)
		}
		return nil
	})
}

// lockActivity loads the activity row under FOR UPDATE so concurrent
// capacity checks serialize on it for the rest of the transaction.
func lockActivity(tx *gorm.DB, activityID uuid.UUID, activity *activities.Activity) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", activityID).
		First(activity)
}

// mapInsertError converts driver duplicate-key violations into the
// domain conflict. The partial unique index on (user_id, activity_id)
// for non-cancelled rows catches concurrent duplicates.
func mapInsertError(err error) error {
	if strings.Contains(err.Error(), "duplicate key") {
		return ErrDuplicateBooking
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByIDWithActivity(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	if err := r.db.WithContext(ctx).Preload("Activity").Where("id = ?", id).First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) ExistsActive(ctx context.Context, userID, activityID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Booking{}).
		Where("user_id = ? AND activity_id = ? AND status IN ?", userID, activityID, ActiveStatuses).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CountActiveByActivity(ctx context.Context, activityID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Booking{}).
		Where("activity_id = ? AND status IN ?", activityID, ActiveStatuses).
		Count(&count).Error
	return count, err
}

func (r *repository) UpdateStatusIf(ctx context.Context, id uuid.UUID, expected Status, updates map[string]interface{}) (bool, error) {
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}

	result := r.db.WithContext(ctx).Model(&Booking{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	dbQuery := r.db.WithContext(ctx).Model(&Booking{}).Where("user_id = ?", userID)
	return r.paginate(dbQuery, query)
}

func (r *repository) GetActivityBookings(ctx context.Context, activityID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	dbQuery := r.db.WithContext(ctx).Model(&Booking{}).Where("activity_id = ?", activityID)
	return r.paginate(dbQuery, query)
}

func (r *repository) paginate(dbQuery *gorm.DB, query BookingListQuery) ([]Booking, int64, error) {
	if query.Status != "" {
		dbQuery = dbQuery.Where("status = ?", query.Status)
	}

	var totalCount int64
	if err := dbQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit

	var bookings []Booking
	err := dbQuery.Preload("Activity").
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}

	return bookings, totalCount, nil
}

// CalculateTotalPages returns the page count for a paginated result.
func CalculateTotalPages(totalCount int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := totalCount / int64(limit)
	if totalCount%int64(limit) > 0 {
		pages++
	}
	return int(pages)
}
