package activities

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"activly/internal/users"
	"activly/pkg/logger"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, activity *Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *mockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Activity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Activity), args.Error(1)
}

func (m *mockRepository) GetAll(ctx context.Context, query ActivityListQuery) ([]Activity, int64, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]Activity), args.Get(1).(int64), args.Error(2)
}

func (m *mockRepository) GetUpcoming(ctx context.Context, limit int) ([]Activity, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]Activity), args.Error(1)
}

func (m *mockRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Activity, error) {
	args := m.Called(ctx, id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Activity), args.Error(1)
}

func (m *mockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRepository) AddAttendee(ctx context.Context, activityID, userID uuid.UUID) error {
	args := m.Called(ctx, activityID, userID)
	return args.Error(0)
}

func (m *mockRepository) GetAttendees(ctx context.Context, activityID uuid.UUID) ([]users.User, error) {
	args := m.Called(ctx, activityID)
	return args.Get(0).([]users.User), args.Error(1)
}

type mockBookingCounter struct {
	mock.Mock
}

func (m *mockBookingCounter) CountActiveByActivity(ctx context.Context, activityID uuid.UUID) (int64, error) {
	args := m.Called(ctx, activityID)
	return args.Get(0).(int64), args.Error(1)
}

func newTestService(repo Repository) Service {
	return NewService(repo, nil, logger.GetDefault())
}

func TestCreateActivitySuccess(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo)

	adminID := uuid.New()
	req := CreateActivityRequest{
		Name:         "Indoor Climbing Intro",
		Description:  "First steps on the wall",
		Location:     "Boulder Club Palermo",
		DateTime:     time.Now().Add(48 * time.Hour),
		Price:        4500.0,
		MaxAttendees: 12,
	}

	repo.On("Create", mock.Anything, mock.MatchedBy(func(a *Activity) bool {
		return a.Name == req.Name && a.CreatedBy == adminID && a.MaxAttendees == 12
	})).Return(nil)

	result, err := svc.CreateActivity(context.Background(), adminID, req)

	require.NoError(t, err)
	assert.Equal(t, req.Name, result.Name)
	assert.Equal(t, req.Price, result.Price)
	repo.AssertExpectations(t)
}

func TestCreateActivityDateInPast(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo)

	req := CreateActivityRequest{
		Name:         "Yesterday Run",
		Location:     "Somewhere",
		DateTime:     time.Now().Add(-time.Hour),
		MaxAttendees: 10,
	}

	_, err := svc.CreateActivity(context.Background(), uuid.New(), req)

	assert.ErrorIs(t, err, ErrDateInPast)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDeleteActivityBlockedByActiveBookings(t *testing.T) {
	repo := new(mockRepository)
	counter := new(mockBookingCounter)
	svc := newTestService(repo)
	svc.SetBookingCounter(counter)

	activity := &Activity{ID: uuid.New(), Name: "Kayak Trip", MaxAttendees: 20}
	repo.On("GetByID", mock.Anything, activity.ID).Return(activity, nil)
	counter.On("CountActiveByActivity", mock.Anything, activity.ID).Return(int64(3), nil)

	err := svc.DeleteActivity(context.Background(), activity.ID)

	assert.ErrorIs(t, err, ErrActivityHasBookings)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteActivityWithoutBookings(t *testing.T) {
	repo := new(mockRepository)
	counter := new(mockBookingCounter)
	svc := newTestService(repo)
	svc.SetBookingCounter(counter)

	activity := &Activity{ID: uuid.New(), Name: "Padel Clinic"}
	repo.On("GetByID", mock.Anything, activity.ID).Return(activity, nil)
	counter.On("CountActiveByActivity", mock.Anything, activity.ID).Return(int64(0), nil)
	repo.On("Delete", mock.Anything, activity.ID).Return(nil)

	err := svc.DeleteActivity(context.Background(), activity.ID)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUpdateActivityRejectsPastDate(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo)

	activity := &Activity{ID: uuid.New(), Name: "Night Run"}
	repo.On("GetByID", mock.Anything, activity.ID).Return(activity, nil)

	past := time.Now().Add(-24 * time.Hour)
	_, err := svc.UpdateActivity(context.Background(), activity.ID, uuid.New(), UpdateActivityRequest{
		DateTime: &past,
	})

	assert.ErrorIs(t, err, ErrDateInPast)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateActivityPartialFields(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo)

	activity := &Activity{ID: uuid.New(), Name: "Old Name", Price: 100}
	newName := "New Name"

	repo.On("GetByID", mock.Anything, activity.ID).Return(activity, nil)
	repo.On("Update", mock.Anything, activity.ID, mock.MatchedBy(func(updates map[string]interface{}) bool {
		_, hasPrice := updates["price"]
		return updates["name"] == newName && !hasPrice
	})).Return(&Activity{ID: activity.ID, Name: newName, Price: 100}, nil)

	result, err := svc.UpdateActivity(context.Background(), activity.ID, uuid.New(), UpdateActivityRequest{
		Name: &newName,
	})

	require.NoError(t, err)
	assert.Equal(t, newName, result.Name)
}

func TestGetAllActivitiesDefaultsPagination(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo)

	repo.On("GetAll", mock.Anything, mock.MatchedBy(func(q ActivityListQuery) bool {
		return q.Page == 1 && q.Limit == 10
	})).Return([]Activity{{ID: uuid.New(), Name: "Yoga"}}, int64(1), nil)

	result, err := svc.GetAllActivities(context.Background(), ActivityListQuery{})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 10, result.Limit)
	assert.Equal(t, 1, result.TotalPages)
	assert.Len(t, result.Activities, 1)
}

func TestGetAttendeesMapsUsers(t *testing.T) {
	repo := new(mockRepository)
	svc := newTestService(repo)

	activityID := uuid.New()
	repo.On("GetAttendees", mock.Anything, activityID).Return([]users.User{
		{ID: uuid.New(), FirstName: "Ana", LastName: "Garcia", Email: "ana@activly.test"},
	}, nil)

	attendees, err := svc.GetAttendees(context.Background(), activityID)

	require.NoError(t, err)
	require.Len(t, attendees, 1)
	assert.Equal(t, "Ana", attendees[0].FirstName)
	assert.Equal(t, "ana@activly.test", attendees[0].Email)
}
