package activities

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"activly/internal/shared/apperrors"
	"activly/internal/users"
)

type Repository interface {
	Create(ctx context.Context, activity *Activity) error
	GetByID(ctx context.Context, id uuid.UUID) (*Activity, error)
	GetAll(ctx context.Context, query ActivityListQuery) ([]Activity, int64, error)
	GetUpcoming(ctx context.Context, limit int) ([]Activity, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Activity, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddAttendee(ctx context.Context, activityID, userID uuid.UUID) error
	GetAttendees(ctx context.Context, activityID uuid.UUID) ([]users.User, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, activity *Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Activity, error) {
	var activity Activity
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&activity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}
	return &activity, nil
}

func (r *repository) GetAll(ctx context.Context, query ActivityListQuery) ([]Activity, int64, error) {
	var activities []Activity
	var totalCount int64

	db := r.db.WithContext(ctx).Model(&Activity{})

	// Apply filters
	if query.Search != "" {
		searchTerm := "%" + strings.ToLower(query.Search) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(location) LIKE ?",
			searchTerm, searchTerm, searchTerm)
	}

	if query.Location != "" {
		db = db.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(query.Location)+"%")
	}

	// Date filters
	if query.DateFrom != "" {
		if dateFrom, err := time.Parse("2006-01-02", query.DateFrom); err == nil {
			db = db.Where("date_time >= ?", dateFrom)
		}
	}

	if query.DateTo != "" {
		if dateTo, err := time.Parse("2006-01-02", query.DateTo); err == nil {
			// Add 24 hours to include the entire day
			dateTo = dateTo.Add(24 * time.Hour)
			db = db.Where("date_time < ?", dateTo)
		}
	}

	// Count total records
	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	// Apply pagination
	if query.Page == 0 {
		query.Page = 1
	}
	if query.Limit == 0 {
		query.Limit = 10
	}

	offset := (query.Page - 1) * query.Limit

	err := db.Order("date_time ASC").
		Offset(offset).
		Limit(query.Limit).
		Find(&activities).Error

	return activities, totalCount, err
}

func (r *repository) GetUpcoming(ctx context.Context, limit int) ([]Activity, error) {
	var activities []Activity

	err := r.db.WithContext(ctx).
		Where("date_time > ?", time.Now()).
		Order("date_time ASC").
		Limit(limit).
		Find(&activities).Error

	return activities, err
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Activity, error) {
	var activity Activity

	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&activity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}

	if err := r.db.WithContext(ctx).Model(&activity).Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&activity).Error; err != nil {
		return nil, err
	}

	return &activity, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Roster rows go first so the association table never orphans
		if err := tx.Exec("DELETE FROM activity_attendees WHERE activity_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&Activity{}).Error
	})
}

func (r *repository) AddAttendee(ctx context.Context, activityID, userID uuid.UUID) error {
	var activity Activity
	if err := r.db.WithContext(ctx).Where("id = ?", activityID).First(&activity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrActivityNotFound
		}
		return err
	}

	user := users.User{ID: userID}
	err := r.db.WithContext(ctx).Model(&activity).Association("Attendees").Append(&user)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return apperrors.Conflict("ALREADY_ATTENDING", "user is already on the attendance roster")
		}
		return err
	}
	return nil
}

func (r *repository) GetAttendees(ctx context.Context, activityID uuid.UUID) ([]users.User, error) {
	var activity Activity
	if err := r.db.WithContext(ctx).Where("id = ?", activityID).First(&activity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}

	var attendees []users.User
	err := r.db.WithContext(ctx).Model(&activity).Association("Attendees").Find(&attendees)
	return attendees, err
}
