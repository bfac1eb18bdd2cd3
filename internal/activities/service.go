package activities

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"activly/internal/shared/apperrors"
	"activly/internal/shared/constants"
	"activly/pkg/cache"
	"activly/pkg/logger"
)

var (
	ErrActivityNotFound    = apperrors.NotFound("ACTIVITY_NOT_FOUND", "activity not found")
	ErrActivityHasBookings = apperrors.Conflict("ACTIVITY_HAS_BOOKINGS", "activity has active bookings and cannot be deleted")
	ErrDateInPast          = apperrors.Validation("ACTIVITY_DATE_PAST", "activity date must be in the future")
)

type Service interface {
	// SetBookingCounter wires the bookings dependency after both services exist
	SetBookingCounter(counter BookingCounter)
	CreateActivity(ctx context.Context, adminID uuid.UUID, req CreateActivityRequest) (*ActivityResponse, error)
	GetActivityByID(ctx context.Context, id uuid.UUID) (*ActivityResponse, error)
	// GetActivity returns the raw record; the booking orchestrator reads
	// date, price and capacity from it.
	GetActivity(ctx context.Context, id uuid.UUID) (*Activity, error)
	GetAllActivities(ctx context.Context, query ActivityListQuery) (*PaginatedActivities, error)
	GetUpcomingActivities(ctx context.Context, limit int) ([]ActivityResponse, error)
	UpdateActivity(ctx context.Context, id, adminID uuid.UUID, req UpdateActivityRequest) (*ActivityResponse, error)
	DeleteActivity(ctx context.Context, id uuid.UUID) error
	TrackAttendance(ctx context.Context, activityID, userID uuid.UUID) error
	GetAttendees(ctx context.Context, activityID uuid.UUID) ([]AttendeeResponse, error)
}

// BookingCounter reports active bookings per activity. Implemented by the
// bookings package; declared here to avoid an import cycle.
type BookingCounter interface {
	CountActiveByActivity(ctx context.Context, activityID uuid.UUID) (int64, error)
}

type service struct {
	repo           Repository
	cacheService   cache.Service
	bookingCounter BookingCounter
	log            *logger.Logger
}

func NewService(repo Repository, cacheService cache.Service, log *logger.Logger) Service {
	return &service{
		repo:         repo,
		cacheService: cacheService,
		log:          log,
	}
}

// SetBookingCounter injects the booking counter dependency after both
// services exist.
func (s *service) SetBookingCounter(counter BookingCounter) {
	s.bookingCounter = counter
}

func (s *service) CreateActivity(ctx context.Context, adminID uuid.UUID, req CreateActivityRequest) (*ActivityResponse, error) {
	if req.DateTime.Before(time.Now()) {
		return nil, ErrDateInPast
	}

	activity := &Activity{
		Name:         req.Name,
		Description:  req.Description,
		Location:     req.Location,
		DateTime:     req.DateTime,
		Price:        req.Price,
		MaxAttendees: req.MaxAttendees,
		CreatedBy:    adminID,
	}

	if err := s.repo.Create(ctx, activity); err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}

	s.log.LogActivityCreated(ctx, activity.ID.String(), adminID.String())
	s.invalidateActivityCache(ctx)

	response := activity.ToResponse()
	return &response, nil
}

func (s *service) GetActivityByID(ctx context.Context, id uuid.UUID) (*ActivityResponse, error) {
	cacheKey := constants.BuildActivityDetailKey(id.String())

	var cached ActivityResponse
	if s.cacheService != nil {
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	activity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := activity.ToResponse()

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, response, constants.TTL_ACTIVITY_DETAIL); err != nil {
			s.log.WarnWithContext(ctx, "failed to cache activity detail", map[string]interface{}{
				"activity_id": id.String(),
			})
		}
	}

	return &response, nil
}

func (s *service) GetActivity(ctx context.Context, id uuid.UUID) (*Activity, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetAllActivities(ctx context.Context, query ActivityListQuery) (*PaginatedActivities, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	// Only unfiltered pages are cached; filtered queries hit the database
	cacheable := query.Search == "" && query.Location == "" && query.DateFrom == "" && query.DateTo == ""
	cacheKey := constants.BuildActivityListKey(query.Page, query.Limit)

	if cacheable && s.cacheService != nil {
		var cached PaginatedActivities
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	activities, totalCount, err := s.repo.GetAll(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get activities: %w", err)
	}

	responses := make([]ActivityResponse, len(activities))
	for i, activity := range activities {
		responses[i] = activity.ToResponse()
	}

	result := &PaginatedActivities{
		Activities: responses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: int(math.Ceil(float64(totalCount) / float64(query.Limit))),
	}

	if cacheable && s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, result, constants.TTL_ACTIVITY_LIST); err != nil {
			s.log.WarnWithContext(ctx, "failed to cache activity list", map[string]interface{}{
				"key": cacheKey,
			})
		}
	}

	return result, nil
}

func (s *service) GetUpcomingActivities(ctx context.Context, limit int) ([]ActivityResponse, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	activities, err := s.repo.GetUpcoming(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get upcoming activities: %w", err)
	}

	responses := make([]ActivityResponse, len(activities))
	for i, activity := range activities {
		responses[i] = activity.ToResponse()
	}
	return responses, nil
}

func (s *service) UpdateActivity(ctx context.Context, id, adminID uuid.UUID, req UpdateActivityRequest) (*ActivityResponse, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.DateTime != nil {
		if req.DateTime.Before(time.Now()) {
			return nil, ErrDateInPast
		}
		updates["date_time"] = *req.DateTime
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.MaxAttendees != nil {
		updates["max_attendees"] = *req.MaxAttendees
	}

	updates["updated_at"] = time.Now()
	updates["updated_by"] = adminID

	updated, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to update activity: %w", err)
	}

	s.invalidateActivityCache(ctx)

	response := updated.ToResponse()
	return &response, nil
}

func (s *service) DeleteActivity(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if s.bookingCounter != nil {
		count, err := s.bookingCounter.CountActiveByActivity(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to check activity bookings: %w", err)
		}
		if count > 0 {
			return ErrActivityHasBookings
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}

	s.invalidateActivityCache(ctx)
	return nil
}

func (s *service) TrackAttendance(ctx context.Context, activityID, userID uuid.UUID) error {
	if err := s.repo.AddAttendee(ctx, activityID, userID); err != nil {
		return err
	}

	if s.cacheService != nil {
		_ = s.cacheService.Delete(ctx, constants.CACHE_KEY_ACTIVITY_ATTENDEES+activityID.String())
	}
	return nil
}

func (s *service) GetAttendees(ctx context.Context, activityID uuid.UUID) ([]AttendeeResponse, error) {
	attendees, err := s.repo.GetAttendees(ctx, activityID)
	if err != nil {
		return nil, err
	}

	responses := make([]AttendeeResponse, len(attendees))
	for i, user := range attendees {
		responses[i] = AttendeeResponse{
			ID:        user.ID.String(),
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
		}
	}
	return responses, nil
}

func (s *service) invalidateActivityCache(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.DeletePattern(ctx, constants.PATTERN_INVALIDATE_ACTIVITIES_ALL); err != nil {
		s.log.WarnWithContext(ctx, "failed to invalidate activity cache", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
