package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"activly/internal/activities"
	"activly/internal/payments"
	"activly/internal/shared/apperrors"
	"activly/internal/shared/config"
	"activly/pkg/logger"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) CreateWithCapacityCheck(ctx context.Context, booking *Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *mockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *mockRepository) GetByIDWithActivity(ctx context.Context, id uuid.UUID) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *mockRepository) ExistsActive(ctx context.Context, userID, activityID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, activityID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) CountActiveByActivity(ctx context.Context, activityID uuid.UUID) (int64, error) {
	args := m.Called(ctx, activityID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, expected Status, updates map[string]interface{}) (bool, error) {
	args := m.Called(ctx, id, expected, updates)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	args := m.Called(ctx, userID, query)
	return args.Get(0).([]Booking), args.Get(1).(int64), args.Error(2)
}

func (m *mockRepository) GetActivityBookings(ctx context.Context, activityID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	args := m.Called(ctx, activityID, query)
	return args.Get(0).([]Booking), args.Get(1).(int64), args.Error(2)
}

type mockActivityService struct {
	mock.Mock
}

func (m *mockActivityService) GetActivity(ctx context.Context, id uuid.UUID) (*activities.Activity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*activities.Activity), args.Error(1)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateCheckoutSession(ctx context.Context, req payments.CheckoutRequest) (*payments.CheckoutSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.CheckoutSession), args.Error(1)
}

func (m *mockGateway) GetPaymentInfo(ctx context.Context, paymentID string) (*payments.PaymentInfo, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.PaymentInfo), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) BookingConfirmed(ctx context.Context, booking *Booking) {
	m.Called(ctx, booking)
}

func testConfig() *config.Config {
	return &config.Config{
		Payments: config.PaymentsConfig{
			FrontendURL:    "http://localhost:3000",
			Currency:       "ARS",
			RequestTimeout: time.Second,
		},
		Booking: config.BookingConfig{
			CancellationWindow: 24 * time.Hour,
		},
	}
}

func newTestService(repo Repository, activitySvc ActivityService, gateway payments.Gateway) *service {
	svc := NewService(repo, activitySvc, gateway, nil, testConfig(), logger.GetDefault())
	return svc.(*service)
}

func futureActivity(price float64, maxAttendees int) *activities.Activity {
	return &activities.Activity{
		ID:           uuid.New(),
		Name:         "Sunrise Yoga",
		Description:  "Outdoor yoga session",
		Location:     "Parque Centenario",
		DateTime:     time.Now().Add(72 * time.Hour),
		Price:        price,
		MaxAttendees: maxAttendees,
	}
}

func TestCreateBookingSuccess(t *testing.T) {
	repo := new(mockRepository)
	activitySvc := new(mockActivityService)
	gateway := new(mockGateway)
	svc := newTestService(repo, activitySvc, gateway)

	userID := uuid.New()
	activity := futureActivity(1500.0, 10)

	activitySvc.On("GetActivity", mock.Anything, activity.ID).Return(activity, nil)
	repo.On("ExistsActive", mock.Anything, userID, activity.ID).Return(false, nil)
	gateway.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(req payments.CheckoutRequest) bool {
		return req.AmountMinorUnits == 150000 && req.Currency == "ARS" && req.Title == activity.Name
	})).Return(&payments.CheckoutSession{
		SessionID:   "pref-123",
		RedirectURL: "https://checkout.example/pref-123",
	}, nil)
	repo.On("CreateWithCapacityCheck", mock.Anything, mock.MatchedBy(func(b *Booking) bool {
		return b.UserID == userID && b.ActivityID == activity.ID &&
			b.Status == StatusPending && b.PaymentStatus == PaymentPending &&
			b.TotalAmount == 1500.0
	})).Return(nil)

	result, err := svc.CreateBooking(context.Background(), userID, CreateBookingRequest{
		ActivityID: activity.ID.String(),
	})

	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example/pref-123", result.PaymentURL)
	assert.Equal(t, "PENDING", result.Status)
	assert.Equal(t, "PENDING", result.PaymentStatus)
	assert.Equal(t, 1500.0, result.TotalAmount)
	assert.NotEmpty(t, result.BookingID)

	repo.AssertExpectations(t)
	gateway.AssertExpectations(t)
}

func TestCreateBookingActivityNotFound(t *testing.T) {
	repo := new(mockRepository)
	activitySvc := new(mockActivityService)
	gateway := new(mockGateway)
	svc := newTestService(repo, activitySvc, gateway)

	activityID := uuid.New()
	activitySvc.On("GetActivity", mock.Anything, activityID).Return(nil, activities.ErrActivityNotFound)

	_, err := svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		ActivityID: activityID.String(),
	})

	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	gateway.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
}

func TestCreateBookingActivityInPast(t *testing.T) {
	repo := new(mockRepository)
	activitySvc := new(mockActivityService)
	gateway := new(mockGateway)
	svc := newTestService(repo, activitySvc, gateway)

	activity := futureActivity(1000, 10)
	activity.DateTime = time.Now().Add(-time.Hour)
	activitySvc.On("GetActivity", mock.Anything, activity.ID).Return(activity, nil)

	_, err := svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		ActivityID: activity.ID.String(),
	})

	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Equal(t, "ACTIVITY_IN_PAST", apperrors.CodeOf(err))
	gateway.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
}

func TestCreateBookingDuplicateActive(t *testing.T) {
	repo := new(mockRepository)
	activitySvc := new(mockActivityService)
	gateway := new(mockGateway)
	svc := newTestService(repo, activitySvc, gateway)

	userID := uuid.New()
	activity := futureActivity(1000, 10)

	activitySvc.On("GetActivity", mock.Anything, activity.ID).Return(activity, nil)
	repo.On("ExistsActive", mock.Anything, userID, activity.ID).Return(true, nil)

	_, err := svc.CreateBooking(context.Background(), userID, CreateBookingRequest{
		ActivityID: activity.ID.String(),
	})

	assert.ErrorIs(t, err, ErrDuplicateBooking)
	// The checkout session must not be created for a duplicate booking.
	gateway.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
}

func TestCreateBookingGatewayFailureDoesNotPersist(t *testing.T) {
	repo := new(mockRepository)
	activitySvc := new(mockActivityService)
	gateway := new(mockGateway)
	svc := newTestService(repo, activitySvc, gateway)

	userID := uuid.New()
	activity := futureActivity(1000, 10)

	activitySvc.On("GetActivity", mock.Anything, activity.ID).Return(activity, nil)
	repo.On("ExistsActive", mock.Anything, userID, activity.ID).Return(false, nil)
	gateway.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Return(nil, apperrors.ExternalGateway("CHECKOUT_SESSION_FAILED", "provider down", nil))

	_, err := svc.CreateBooking(context.Background(), userID, CreateBookingRequest{
		ActivityID: activity.ID.String(),
	})

	assert.Equal(t, apperrors.KindExternalGateway, apperrors.KindOf(err))
	repo.AssertNotCalled(t, "CreateWithCapacityCheck", mock.Anything, mock.Anything)
}

func TestCreateBookingCapacityFullLeavesOrphanSession(t *testing.T) {
	repo := new(mockRepository)
	activitySvc := new(mockActivityService)
	gateway := new(mockGateway)
	svc := newTestService(repo, activitySvc, gateway)

	userID := uuid.New()
	activity := futureActivity(1000, 1)

	activitySvc.On("GetActivity", mock.Anything, activity.ID).Return(activity, nil)
	repo.On("ExistsActive", mock.Anything, userID, activity.ID).Return(false, nil)
	gateway.On("CreateCheckoutSession", mock.Anything, mock.Anything).Return(&payments.CheckoutSession{
		SessionID:   "pref-456",
		RedirectURL: "https://checkout.example/pref-456",
	}, nil)
	repo.On("CreateWithCapacityCheck", mock.Anything, mock.Anything).Return(ErrActivityFull)

	_, err := svc.CreateBooking(context.Background(), userID, CreateBookingRequest{
		ActivityID: activity.ID.String(),
	})

	assert.ErrorIs(t, err, ErrActivityFull)
}

func TestConfirmBookingIdempotent(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo, new(mockActivityService), new(mockGateway))

	booking := &Booking{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		ActivityID:    uuid.New(),
		Status:        StatusConfirmed,
		PaymentStatus: PaymentCompleted,
		IsConfirmed:   true,
	}
	repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)

	result, err := svc.ConfirmBooking(context.Background(), booking.ID, "")

	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", result.Status)
	repo.AssertNotCalled(t, "UpdateStatusIf", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmBookingPendingTransitions(t *testing.T) {
	repo := new(mockRepository)
	notifier := new(mockNotifier)
	svc := newTestService(repo, new(mockActivityService), new(mockGateway))
	svc.SetNotifier(notifier)

	booking := &Booking{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		ActivityID:    uuid.New(),
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
	}
	repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	repo.On("UpdateStatusIf", mock.Anything, booking.ID, StatusPending, mock.MatchedBy(func(updates map[string]interface{}) bool {
		return updates["status"] == StatusConfirmed &&
			updates["payment_status"] == PaymentCompleted &&
			updates["is_confirmed"] == true
	})).Return(true, nil)
	notifier.On("BookingConfirmed", mock.Anything, mock.Anything).Return()

	result, err := svc.ConfirmBooking(context.Background(), booking.ID, "")

	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", result.Status)
	assert.Equal(t, "COMPLETED", result.PaymentStatus)
	assert.True(t, result.IsConfirmed)
	notifier.AssertCalled(t, "BookingConfirmed", mock.Anything, mock.Anything)
}

func TestConfirmBookingRejectsIncompletePayment(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo, new(mockActivityService), new(mockGateway))

	_, err := svc.ConfirmBooking(context.Background(), uuid.New(), "FAILED")

	assert.ErrorIs(t, err, ErrPaymentNotDone)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "UpdateStatusIf", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmBookingCancelledIsTerminal(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo, new(mockActivityService), new(mockGateway))

	booking := &Booking{
		ID:     uuid.New(),
		Status: StatusCancelled,
	}
	repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)

	_, err := svc.ConfirmBooking(context.Background(), booking.ID, "")

	assert.ErrorIs(t, err, ErrBookingTerminal)
}

func TestConfirmBookingLostRaceToCompleted(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo, new(mockActivityService), new(mockGateway))

	pending := &Booking{ID: uuid.New(), Status: StatusPending}
	completed := &Booking{ID: pending.ID, Status: StatusCompleted}

	repo.On("GetByID", mock.Anything, pending.ID).Return(pending, nil).Once()
	repo.On("UpdateStatusIf", mock.Anything, pending.ID, StatusPending, mock.Anything).Return(false, nil)
	repo.On("GetByID", mock.Anything, pending.ID).Return(completed, nil).Once()

	_, err := svc.ConfirmBooking(context.Background(), pending.ID, "")

	assert.ErrorIs(t, err, ErrBookingTerminal)
	// The message covers every terminal state, not just cancellation.
	assert.Equal(t, "booking is in a terminal state and cannot be confirmed", apperrors.MessageOf(err))
}

func TestConfirmBookingNotFound(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo, new(mockActivityService), new(mockGateway))

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, ErrBookingNotFound)

	_, err := svc.ConfirmBooking(context.Background(), id, "")

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestHandlePaymentNotificationApproved(t *testing.T) {
	repo := new(mockRepository)
	gateway := new(mockGateway)
	svc := newTestService(repo, new(mockActivityService), gateway)

	booking := &Booking{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		ActivityID:    uuid.New(),
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
	}

	gateway.On("GetPaymentInfo", mock.Anything, "12345").Return(&payments.PaymentInfo{
		PaymentID:  "12345",
		Status:     payments.StatusApproved,
		BookingRef: booking.ID.String(),
	}, nil)
	repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	repo.On("UpdateStatusIf", mock.Anything, booking.ID, StatusPending, mock.MatchedBy(func(updates map[string]interface{}) bool {
		return updates["payment_id"] == "12345"
	})).Return(true, nil)

	err := svc.HandlePaymentNotification(context.Background(), "12345")

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestHandlePaymentNotificationNotApprovedIgnored(t *testing.T) {
	repo := new(mockRepository)
	gateway := new(mockGateway)
	svc := newTestService(repo, new(mockActivityService), gateway)

	gateway.On("GetPaymentInfo", mock.Anything, "999").Return(&payments.PaymentInfo{
		PaymentID: "999",
		Status:    payments.StatusRejected,
	}, nil)

	err := svc.HandlePaymentNotification(context.Background(), "999")

	require.NoError(t, err)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestHandlePaymentNotificationUnknownBookingIgnored(t *testing.T) {
	repo := new(mockRepository)
	gateway := new(mockGateway)
	svc := newTestService(repo, new(mockActivityService), gateway)

	bookingID := uuid.New()
	gateway.On("GetPaymentInfo", mock.Anything, "12345").Return(&payments.PaymentInfo{
		PaymentID:  "12345",
		Status:     payments.StatusApproved,
		BookingRef: bookingID.String(),
	}, nil)
	repo.On("GetByID", mock.Anything, bookingID).Return(nil, ErrBookingNotFound)

	err := svc.HandlePaymentNotification(context.Background(), "12345")

	// Unknown bookings are swallowed so the provider stops retrying.
	require.NoError(t, err)
}

func TestHandlePaymentNotificationCancelledBookingIgnored(t *testing.T) {
	repo := new(mockRepository)
	gateway := new(mockGateway)
	svc := newTestService(repo, new(mockActivityService), gateway)

	booking := &Booking{
		ID:     uuid.New(),
		Status: StatusCancelled,
	}
	gateway.On("GetPaymentInfo", mock.Anything, "12345").Return(&payments.PaymentInfo{
		PaymentID:  "12345",
		Status:     payments.StatusApproved,
		BookingRef: booking.ID.String(),
	}, nil)
	repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)

	err := svc.HandlePaymentNotification(context.Background(), "12345")

	require.NoError(t, err)
}

func TestCancelBookingWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		activityDate time.Time
		wantErr      error
	}{
		{
			name:         "well before the window",
			activityDate: now.Add(48 * time.Hour),
			wantErr:      nil,
		},
		{
			name:         "exactly at the window boundary",
			activityDate: now.Add(24 * time.Hour),
			wantErr:      nil,
		},
		{
			name:         "one minute inside the window",
			activityDate: now.Add(24*time.Hour - time.Minute),
			wantErr:      ErrWindowClosed,
		},
		{
			name:         "activity already happened",
			activityDate: now.Add(-time.Hour),
			wantErr:      ErrWindowClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepository)
			svc := newTestService(repo, new(mockActivityService), new(mockGateway))
			svc.now = func() time.Time { return now }

			userID := uuid.New()
			booking := &Booking{
				ID:            uuid.New(),
				UserID:        userID,
				ActivityID:    uuid.New(),
				ActivityDate:  tt.activityDate,
				Status:        StatusPending,
				PaymentStatus: PaymentPending,
			}
			repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
			if tt.wantErr == nil {
				repo.On("UpdateStatusIf", mock.Anything, booking.ID, StatusPending, mock.Anything).Return(true, nil)
			}

			result, err := svc.CancelBooking(context.Background(), booking.ID, userID, false)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "UpdateStatusIf", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "CANCELLED", result.Status)
			}
		})
	}
}

func TestCancelBookingPaidGetsRefund(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo, new(mockActivityService), new(mockGateway))

	userID := uuid.New()
	booking := &Booking{
		ID:            uuid.New(),
		UserID:        userID,
		ActivityID:    uuid.New(),
		ActivityDate:  time.Now().Add(72 * time.Hour),
		Status:        StatusConfirmed,
		PaymentStatus: PaymentCompleted,
		IsConfirmed:   true,
	}
	repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	repo.On("UpdateStatusIf", mock.Anything, booking.ID, StatusConfirmed, mock.MatchedBy(func(updates map[string]interface{}) bool {
		return updates["payment_status"] == PaymentRefunded
	})).Return(true, nil)

	result, err := svc.CancelBooking(context.Background(), booking.ID, userID, false)

	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", result.Status)
	assert.Equal(t, "REFUNDED", result.PaymentStatus)
	assert.NotNil(t, result.CancelledAt)
}

func TestCancelBookingUnpaidNoRefund(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo, new(mockActivityService), new(mockGateway))

	userID := uuid.New()
	booking := &Booking{
		ID:            uuid.New(),
		UserID:        userID,
		ActivityID:    uuid.New(),
		ActivityDate:  time.Now().Add(72 * time.Hour),
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
	}
	repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	repo.On("UpdateStatusIf", mock.Anything, booking.ID, StatusPending, mock.MatchedBy(func(updates map[string]interface{}) bool {
		_, hasRefund := updates["payment_status"]
		return !hasRefund
	})).Return(true, nil)

	result, err := svc.CancelBooking(context.Background(), booking.ID, userID, false)

	require.NoError(t, err)
	assert.Equal(t, "PENDING", result.PaymentStatus)
}

func TestCancelBookingAlreadyCancelled(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo, new(mockActivityService), new(mockGateway))

	userID := uuid.New()
	booking := &Booking{
		ID:     uuid.New(),
		UserID: userID,
		Status: StatusCancelled,
	}
	repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)

	_, err := svc.CancelBooking(context.Background(), booking.ID, userID, false)

	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestCancelBookingNotOwner(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo, new(mockActivityService), new(mockGateway))

	booking := &Booking{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		ActivityDate: time.Now().Add(72 * time.Hour),
		Status:       StatusPending,
	}
	repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)

	_, err := svc.CancelBooking(context.Background(), booking.ID, uuid.New(), false)

	assert.ErrorIs(t, err, ErrNotBookingOwner)
}

func TestCancelBookingAdminCanCancelAnyBooking(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo, new(mockActivityService), new(mockGateway))

	booking := &Booking{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		ActivityID:   uuid.New(),
		ActivityDate: time.Now().Add(72 * time.Hour),
		Status:       StatusPending,
	}
	repo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)
	repo.On("UpdateStatusIf", mock.Anything, booking.ID, StatusPending, mock.Anything).Return(true, nil)

	result, err := svc.CancelBooking(context.Background(), booking.ID, uuid.New(), true)

	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", result.Status)
}

func TestCheckAvailability(t *testing.T) {
	tests := []struct {
		name          string
		maxAttendees  int
		activeCount   int64
		wantRemaining int
		wantAvailable bool
	}{
		{"spots remaining", 10, 7, 3, true},
		{"full", 10, 10, 0, false},
		{"overbooked clamps to zero", 10, 12, 0, false},
		{"empty activity", 5, 0, 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepository)
			activitySvc := new(mockActivityService)
			svc := newTestService(repo, activitySvc, new(mockGateway))

			activity := futureActivity(1000, tt.maxAttendees)
			activitySvc.On("GetActivity", mock.Anything, activity.ID).Return(activity, nil)
			repo.On("CountActiveByActivity", mock.Anything, activity.ID).Return(tt.activeCount, nil)

			result, err := svc.CheckAvailability(context.Background(), activity.ID)

			require.NoError(t, err)
			assert.Equal(t, tt.wantRemaining, result.RemainingSpots)
			assert.Equal(t, tt.wantAvailable, result.Available)
			assert.Equal(t, tt.maxAttendees, result.MaxAttendees)
		})
	}
}

func TestGetBookingOwnerAccess(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo, new(mockActivityService), new(mockGateway))

	owner := uuid.New()
	booking := &Booking{
		ID:     uuid.New(),
		UserID: owner,
		Status: StatusPending,
	}
	repo.On("GetByIDWithActivity", mock.Anything, booking.ID).Return(booking, nil)

	_, err := svc.GetBooking(context.Background(), booking.ID, owner, false)
	require.NoError(t, err)

	_, err = svc.GetBooking(context.Background(), booking.ID, uuid.New(), false)
	assert.ErrorIs(t, err, ErrNotBookingOwner)

	_, err = svc.GetBooking(context.Background(), booking.ID, uuid.New(), true)
	require.NoError(t, err)
}

func TestGetUserBookingsPagination(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo, new(mockActivityService), new(mockGateway))

	userID := uuid.New()
	stored := []Booking{
		{ID: uuid.New(), UserID: userID, Status: StatusConfirmed},
		{ID: uuid.New(), UserID: userID, Status: StatusPending},
	}
	repo.On("GetUserBookings", mock.Anything, userID, BookingListQuery{Page: 1, Limit: 10}).
		Return(stored, int64(25), nil)

	result, err := svc.GetUserBookings(context.Background(), userID, BookingListQuery{})

	require.NoError(t, err)
	assert.Len(t, result.Bookings, 2)
	assert.Equal(t, int64(25), result.TotalCount)
	assert.Equal(t, 3, result.TotalPages)
}
