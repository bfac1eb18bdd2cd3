package bookings

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"activly/internal/activities"
	"activly/internal/payments"
	"activly/internal/shared/apperrors"
	"activly/internal/shared/config"
	"activly/internal/shared/constants"
	"activly/pkg/cache"
	"activly/pkg/logger"
)

var (
	ErrAlreadyCancelled = apperrors.Conflict("ALREADY_CANCELLED", "booking is already cancelled")
	ErrPaymentNotDone   = apperrors.Conflict("PAYMENT_NOT_COMPLETED", "payment has not been completed for this booking")
	ErrWindowClosed     = apperrors.Conflict("CANCELLATION_WINDOW_CLOSED", "booking can no longer be cancelled this close to the activity")
	ErrNotBookingOwner  = apperrors.Forbidden("NOT_BOOKING_OWNER", "booking belongs to another user")
	ErrBookingTerminal  = apperrors.Conflict("BOOKING_NOT_CONFIRMABLE", "booking is in a terminal state and cannot be confirmed")
)

type Service interface {
	// SetNotifier wires the notification pipeline after both services exist
	SetNotifier(notifier Notifier)
	CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*CreateBookingResponse, error)
	GetBooking(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*BookingResponse, error)
	// ConfirmBooking is the admin/back-office confirmation path. An empty
	// paymentStatus asserts the payment completed; any other non-completed
	// value is rejected without touching the booking. Idempotent for
	// already confirmed bookings.
	ConfirmBooking(ctx context.Context, bookingID uuid.UUID, paymentStatus string) (*BookingResponse, error)
	// HandlePaymentNotification processes a provider webhook event. It
	// returns an error only for infrastructure failures; business no-ops
	// (unknown booking, non-approved payment) are logged and swallowed so
	// the provider is not asked to retry.
	HandlePaymentNotification(ctx context.Context, paymentID string) error
	CancelBooking(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*BookingResponse, error)
	CheckAvailability(ctx context.Context, activityID uuid.UUID) (*AvailabilityResponse, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error)
	GetActivityBookings(ctx context.Context, activityID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error)
	CountActiveByActivity(ctx context.Context, activityID uuid.UUID) (int64, error)
}

// ActivityService is the slice of the activities service the booking
// orchestrator needs. Declared here to avoid an import cycle.
type ActivityService interface {
	GetActivity(ctx context.Context, id uuid.UUID) (*activities.Activity, error)
}

// Notifier is implemented by the notification pipeline. A nil Notifier
// disables notifications without affecting the booking flow.
type Notifier interface {
	BookingConfirmed(ctx context.Context, booking *Booking)
}

type service struct {
	repo         Repository
	activitySvc  ActivityService
	gateway      payments.Gateway
	notifier     Notifier
	cacheService cache.Service
	cfg          *config.Config
	log          *logger.Logger

	// now is swapped in tests to pin the cancellation window clock.
	now func() time.Time
}

func NewService(repo Repository, activitySvc ActivityService, gateway payments.Gateway, cacheService cache.Service, cfg *config.Config, log *logger.Logger) Service {
	return &service{
		repo:         repo,
		activitySvc:  activitySvc,
		gateway:      gateway,
		cacheService: cacheService,
		cfg:          cfg,
		log:          log,
		now:          time.Now,
	}
}

// SetNotifier wires the notification pipeline after both services exist.
func (s *service) SetNotifier(notifier Notifier) {
	s.notifier = notifier
}

// CreateBooking runs the checkout saga: validate the activity, create the
// provider session, then persist the booking. The session is created
// before the insert so a failed insert leaves only an unpaid orphan
// session at the provider rather than an unpayable booking.
func (s *service) CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*CreateBookingResponse, error) {
	activityID, err := uuid.Parse(req.ActivityID)
	if err != nil {
		return nil, apperrors.Validation("INVALID_ACTIVITY_ID", "invalid activity id")
	}

	activity, err := s.activitySvc.GetActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}

	if activity.DateTime.Before(s.now()) {
		return nil, apperrors.Validation("ACTIVITY_IN_PAST", "activity has already started")
	}

	exists, err := s.repo.ExistsActive(ctx, userID, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing bookings: %w", err)
	}
	if exists {
		return nil, ErrDuplicateBooking
	}

	bookingID := uuid.New()

	gatewayCtx, cancel := context.WithTimeout(ctx, s.cfg.Payments.RequestTimeout)
	defer cancel()

	session, err := s.gateway.CreateCheckoutSession(gatewayCtx, payments.CheckoutRequest{
		AmountMinorUnits: int64(math.Round(activity.Price * 100)),
		Currency:         s.cfg.Payments.Currency,
		Title:            activity.Name,
		Description:      activity.Description,
		SuccessURL:       s.cfg.Payments.FrontendURL + "/bookings/" + bookingID.String() + "/success",
		CancelURL:        s.cfg.Payments.FrontendURL + "/bookings/" + bookingID.String() + "/cancelled",
		BookingID:        bookingID.String(),
		UserID:           userID.String(),
	})
	if err != nil {
		return nil, err
	}

	booking := &Booking{
		ID:            bookingID,
		UserID:        userID,
		ActivityID:    activityID,
		ActivityDate:  activity.DateTime,
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
		TotalAmount:   activity.Price,
	}

	if err := s.repo.CreateWithCapacityCheck(ctx, booking); err != nil {
		// The checkout session already exists at the provider. Nobody can
		// complete it without a booking row, so it expires unpaid.
		s.log.WarnWithContext(ctx, "checkout session orphaned after booking insert failed", map[string]interface{}{
			"booking_id": bookingID.String(),
			"session_id": session.SessionID,
		})
		return nil, err
	}

	s.log.LogBookingCreated(ctx, booking.ID.String(), activityID.String(), userID.String())
	s.invalidateBookingCache(ctx, activityID, userID)

	return &CreateBookingResponse{
		BookingID:     booking.ID.String(),
		PaymentURL:    session.RedirectURL,
		Status:        booking.Status.String(),
		PaymentStatus: booking.PaymentStatus.String(),
		TotalAmount:   booking.TotalAmount,
	}, nil
}

func (s *service) GetBooking(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*BookingResponse, error) {
	booking, err := s.repo.GetByIDWithActivity(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !isAdmin && booking.UserID != requesterID {
		return nil, ErrNotBookingOwner
	}

	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) ConfirmBooking(ctx context.Context, bookingID uuid.UUID, paymentStatus string) (*BookingResponse, error) {
	if paymentStatus != "" && !strings.EqualFold(paymentStatus, PaymentCompleted.String()) {
		return nil, ErrPaymentNotDone
	}

	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return s.confirm(ctx, booking, "admin")
}

func (s *service) HandlePaymentNotification(ctx context.Context, paymentID string) error {
	info, err := s.gateway.GetPaymentInfo(ctx, paymentID)
	if err != nil {
		return err
	}

	if info.Status != payments.StatusApproved {
		s.log.LogPaymentEvent(ctx, "payment_not_approved", paymentID, map[string]interface{}{
			"status": info.Status,
			"detail": info.StatusDetail,
		})
		return nil
	}

	if info.BookingRef == "" {
		s.log.LogPaymentEvent(ctx, "payment_missing_booking_ref", paymentID, nil)
		return nil
	}

	bookingID, err := uuid.Parse(info.BookingRef)
	if err != nil {
		s.log.LogPaymentEvent(ctx, "payment_invalid_booking_ref", paymentID, map[string]interface{}{
			"booking_ref": info.BookingRef,
		})
		return nil
	}

	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		if apperrors.CodeOf(err) == "BOOKING_NOT_FOUND" {
			s.log.LogPaymentEvent(ctx, "payment_for_unknown_booking", paymentID, map[string]interface{}{
				"booking_id": bookingID.String(),
			})
			return nil
		}
		return err
	}

	booking.PaymentID = paymentID
	if _, err := s.confirm(ctx, booking, "webhook"); err != nil {
		// Conflicts here mean the booking reached a terminal state before
		// the notification arrived; the provider must not retry.
		if apperrors.KindOf(err) == apperrors.KindConflict {
			s.log.LogPaymentEvent(ctx, "payment_for_terminal_booking", paymentID, map[string]interface{}{
				"booking_id": bookingID.String(),
				"code":       apperrors.CodeOf(err),
			})
			return nil
		}
		return err
	}
	return nil
}

// confirm moves a pending booking to CONFIRMED. Safe to call twice: an
// already confirmed booking is returned as is.
func (s *service) confirm(ctx context.Context, booking *Booking, source string) (*BookingResponse, error) {
	if booking.Status == StatusConfirmed {
		resp := booking.ToResponse()
		return &resp, nil
	}
	if booking.Status == StatusCancelled {
		return nil, ErrBookingTerminal
	}

	updates := map[string]interface{}{
		"status":         StatusConfirmed,
		"payment_status": PaymentCompleted,
		"is_confirmed":   true,
	}
	if booking.PaymentID != "" {
		updates["payment_id"] = booking.PaymentID
	}

	updated, err := s.repo.UpdateStatusIf(ctx, booking.ID, StatusPending, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm booking: %w", err)
	}
	if !updated {
		// Lost the race: re-read and report the current state.
		current, err := s.repo.GetByID(ctx, booking.ID)
		if err != nil {
			return nil, err
		}
		if current.Status == StatusConfirmed {
			resp := current.ToResponse()
			return &resp, nil
		}
		return nil, ErrBookingTerminal
	}

	booking.Status = StatusConfirmed
	booking.PaymentStatus = PaymentCompleted
	booking.IsConfirmed = true

	s.log.LogBookingConfirmed(ctx, booking.ID.String(), source)
	s.invalidateBookingCache(ctx, booking.ActivityID, booking.UserID)

	if s.notifier != nil {
		s.notifier.BookingConfirmed(ctx, booking)
	}

	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) CancelBooking(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*BookingResponse, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !isAdmin && booking.UserID != requesterID {
		return nil, ErrNotBookingOwner
	}

	if booking.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	// Signed duration: a past activity yields a negative lead time and is
	// rejected by the same comparison.
	if booking.ActivityDate.Sub(s.now()) < s.cfg.Booking.CancellationWindow {
		return nil, ErrWindowClosed
	}

	now := s.now()
	updates := map[string]interface{}{
		"status":       StatusCancelled,
		"cancelled_at": now,
	}

	refunded := booking.PaymentStatus == PaymentCompleted && booking.IsConfirmed
	if refunded {
		updates["payment_status"] = PaymentRefunded
	}

	updated, err := s.repo.UpdateStatusIf(ctx, booking.ID, booking.Status, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}
	if !updated {
		return nil, ErrAlreadyCancelled
	}

	booking.Status = StatusCancelled
	booking.CancelledAt = &now
	if refunded {
		booking.PaymentStatus = PaymentRefunded
	}

	s.log.LogBookingCancelled(ctx, booking.ID.String(), booking.ActivityID.String(), requesterID.String())
	s.invalidateBookingCache(ctx, booking.ActivityID, booking.UserID)

	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) CheckAvailability(ctx context.Context, activityID uuid.UUID) (*AvailabilityResponse, error) {
	cacheKey := constants.BuildAvailabilityKey(activityID.String())

	if s.cacheService != nil {
		var cached AvailabilityResponse
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	activity, err := s.activitySvc.GetActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}

	activeCount, err := s.repo.CountActiveByActivity(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	remaining := activity.MaxAttendees - int(activeCount)
	if remaining < 0 {
		remaining = 0
	}

	result := &AvailabilityResponse{
		ActivityID:     activityID.String(),
		Available:      remaining > 0,
		RemainingSpots: remaining,
		MaxAttendees:   activity.MaxAttendees,
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, result, constants.TTL_BOOKING_AVAILABILITY); err != nil {
			s.log.WarnWithContext(ctx, "failed to cache availability", map[string]interface{}{
				"activity_id": activityID.String(),
			})
		}
	}

	return result, nil
}

func (s *service) GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error) {
	normalizeQuery(&query)

	bookings, totalCount, err := s.repo.GetUserBookings(ctx, userID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get user bookings: %w", err)
	}
	return buildPage(bookings, totalCount, query), nil
}

func (s *service) GetActivityBookings(ctx context.Context, activityID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error) {
	normalizeQuery(&query)

	bookings, totalCount, err := s.repo.GetActivityBookings(ctx, activityID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get activity bookings: %w", err)
	}
	return buildPage(bookings, totalCount, query), nil
}

func (s *service) CountActiveByActivity(ctx context.Context, activityID uuid.UUID) (int64, error) {
	return s.repo.CountActiveByActivity(ctx, activityID)
}

func (s *service) invalidateBookingCache(ctx context.Context, activityID, userID uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	_ = s.cacheService.Delete(ctx, constants.BuildAvailabilityKey(activityID.String()))
	_ = s.cacheService.DeletePattern(ctx, constants.CACHE_KEY_USER_BOOKINGS+userID.String()+":*")
}

func normalizeQuery(query *BookingListQuery) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}
}

func buildPage(bookings []Booking, totalCount int64, query BookingListQuery) *PaginatedBookings {
	responses := make([]BookingResponse, len(bookings))
	for i, booking := range bookings {
		responses[i] = booking.ToResponse()
	}

	return &PaginatedBookings{
		Bookings:   responses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: CalculateTotalPages(totalCount, query.Limit),
	}
}
