package bookings

import (
	"time"

	"github.com/google/uuid"

	"activly/internal/activities"
	"activly/internal/users"
)

// Booking ties a user to a paid spot on an activity. The ID is generated
// before the checkout session is created so the payment provider can
// carry it back through the webhook as an external reference.
type Booking struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	ActivityID uuid.UUID `json:"activity_id" gorm:"type:uuid;not null;index"`

	// ActivityDate is snapshotted at booking time so the cancellation
	// window survives later edits to the activity.
	ActivityDate time.Time `json:"activity_date" gorm:"not null"`

	Status        Status        `json:"status" gorm:"type:varchar(20);not null;default:'PENDING';index"`
	PaymentStatus PaymentStatus `json:"payment_status" gorm:"type:varchar(20);not null;default:'PENDING'"`

	// IsConfirmed flips exactly once, when payment completion is first
	// observed.
	IsConfirmed bool    `json:"is_confirmed" gorm:"not null;default:false"`
	PaymentID   string  `json:"payment_id,omitempty" gorm:"size:255"`
	TotalAmount float64 `json:"total_amount" gorm:"not null"`

	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	Activity *activities.Activity `json:"activity,omitempty" gorm:"foreignKey:ActivityID"`
	User     *users.User          `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Booking) TableName() string {
	return "bookings"
}

type CreateBookingRequest struct {
	ActivityID string `json:"activity_id" binding:"required,uuid"`
	// UserID lets an admin book on behalf of another user; ignored for
	// non-admin callers.
	UserID string `json:"user_id" binding:"omitempty,uuid"`
}

type ConfirmBookingRequest struct {
	PaymentStatus string `json:"payment_status" binding:"omitempty"`
}

type CreateBookingResponse struct {
	BookingID     string  `json:"booking_id"`
	PaymentURL    string  `json:"payment_url"`
	Status        string  `json:"status"`
	PaymentStatus string  `json:"payment_status"`
	TotalAmount   float64 `json:"total_amount"`
}

type BookingResponse struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	ActivityID    string     `json:"activity_id"`
	ActivityName  string     `json:"activity_name,omitempty"`
	ActivityDate  time.Time  `json:"activity_date"`
	Status        string     `json:"status"`
	PaymentStatus string     `json:"payment_status"`
	IsConfirmed   bool       `json:"is_confirmed"`
	TotalAmount   float64    `json:"total_amount"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type AvailabilityResponse struct {
	ActivityID     string `json:"activity_id"`
	Available      bool   `json:"available"`
	RemainingSpots int    `json:"remaining_spots"`
	MaxAttendees   int    `json:"max_attendees"`
}

type BookingListQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Status string `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED CANCELLED COMPLETED"`
}

type PaginatedBookings struct {
	Bookings   []BookingResponse `json:"bookings"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

func (b *Booking) ToResponse() BookingResponse {
	resp := BookingResponse{
		ID:            b.ID.String(),
		UserID:        b.UserID.String(),
		ActivityID:    b.ActivityID.String(),
		ActivityDate:  b.ActivityDate,
		Status:        b.Status.String(),
		PaymentStatus: b.PaymentStatus.String(),
		IsConfirmed:   b.IsConfirmed,
		TotalAmount:   b.TotalAmount,
		CancelledAt:   b.CancelledAt,
		CreatedAt:     b.CreatedAt,
	}
	if b.Activity != nil {
		resp.ActivityName = b.Activity.Name
	}
	return resp
}
