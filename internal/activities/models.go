package activities

import (
	"time"

	"github.com/google/uuid"

	"activly/internal/users"
)

type Activity struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name         string    `json:"name" gorm:"not null;size:255"`
	Description  string    `json:"description" gorm:"type:text"`
	Location     string    `json:"location" gorm:"not null;size:255"`
	DateTime     time.Time `json:"date_time" gorm:"not null"`
	Price        float64   `json:"price" gorm:"not null;check:price >= 0"`
	MaxAttendees int       `json:"max_attendees" gorm:"not null;check:max_attendees >= 0"`

	// Attendance roster, tracked separately from paid bookings
	Attendees []users.User `json:"-" gorm:"many2many:activity_attendees;constraint:OnDelete:CASCADE;"`

	CreatedBy uuid.UUID  `json:"created_by" gorm:"type:uuid;not null"`
	UpdatedBy *uuid.UUID `json:"updated_by" gorm:"type:uuid"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

type ActivityResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	DateTime     time.Time `json:"date_time"`
	Price        float64   `json:"price"`
	MaxAttendees int       `json:"max_attendees"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CreateActivityRequest struct {
	Name         string    `json:"name" binding:"required,min=3,max=255"`
	Description  string    `json:"description" binding:"max=2000"`
	Location     string    `json:"location" binding:"required,min=3,max=255"`
	DateTime     time.Time `json:"date_time" binding:"required"`
	Price        float64   `json:"price" binding:"min=0"`
	MaxAttendees int       `json:"max_attendees" binding:"required,min=0,max=100000"`
}

type UpdateActivityRequest struct {
	Name         *string    `json:"name" binding:"omitempty,min=3,max=255"`
	Description  *string    `json:"description" binding:"omitempty,max=2000"`
	Location     *string    `json:"location" binding:"omitempty,min=3,max=255"`
	DateTime     *time.Time `json:"date_time"`
	Price        *float64   `json:"price" binding:"omitempty,min=0"`
	MaxAttendees *int       `json:"max_attendees" binding:"omitempty,min=0,max=100000"`
}

type ActivityListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
	Location string `form:"location"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
}

type PaginatedActivities struct {
	Activities []ActivityResponse `json:"activities"`
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

type AttendanceRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

type AttendeeResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Helper method to convert Activity to ActivityResponse
func (a *Activity) ToResponse() ActivityResponse {
	return ActivityResponse{
		ID:           a.ID.String(),
		Name:         a.Name,
		Description:  a.Description,
		Location:     a.Location,
		DateTime:     a.DateTime,
		Price:        a.Price,
		MaxAttendees: a.MaxAttendees,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// TableName specifies the table name for GORM
func (Activity) TableName() string {
	return "activities"
}
