package notifications

import (
	"context"
	"log"

	"github.com/google/uuid"

	"activly/internal/bookings"
)

// UserResolver looks up recipient contact details. Implemented by the
// auth user service adapter.
type UserResolver interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (email, firstName, lastName string, err error)
}

// BookingNotifier bridges the booking flow into the notification
// pipeline. Publishing never blocks or fails the booking: errors are
// logged and dropped.
type BookingNotifier struct {
	service NotificationService
	users   UserResolver
}

func NewBookingNotifier(service NotificationService, users UserResolver) *BookingNotifier {
	return &BookingNotifier{
		service: service,
		users:   users,
	}
}

func (bn *BookingNotifier) BookingConfirmed(ctx context.Context, booking *bookings.Booking) {
	email, firstName, lastName, err := bn.users.GetUserByID(ctx, booking.UserID)
	if err != nil {
		log.Printf("📧 Failed to resolve recipient for booking %s: %v", booking.ID, err)
		return
	}

	templateData := map[string]interface{}{
		"activity_date": booking.ActivityDate.Format("Mon, 02 Jan 2006 15:04"),
		"total_amount":  booking.TotalAmount,
	}
	if booking.Activity != nil {
		templateData["activity_name"] = booking.Activity.Name
		templateData["location"] = booking.Activity.Location
	}

	err = bn.service.SendBookingNotification(ctx,
		booking.UserID, email, firstName+" "+lastName,
		booking.ID, booking.ActivityID,
		NotificationTypeBookingConfirmed, templateData)
	if err != nil {
		log.Printf("📧 Failed to publish confirmation notification for booking %s: %v", booking.ID, err)
	}
}
