package constants

import (
	"fmt"
	"time"
)

// Redis Cache Configuration
// This file centralizes all Redis cache keys and TTL values for the Activly application
// Pattern: activly:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

// Semi-Static Data (Medium TTL: changes occasionally)
const (
	TTL_SEMI_STATIC_MEDIUM = 2 * time.Hour    // 2 hours - for activity details
	TTL_SEMI_STATIC_SHORT  = 1 * time.Hour    // 1 hour - for activity listings
	TTL_SEMI_STATIC_QUICK  = 15 * time.Minute // 15 minutes - for upcoming activities
)

// Dynamic Data (Short TTL: changes frequently)
const (
	TTL_DYNAMIC_MEDIUM = 10 * time.Minute // 10 minutes - for user booking lists
	TTL_DYNAMIC_SHORT  = 5 * time.Minute  // 5 minutes - for activity rosters
	TTL_DYNAMIC_QUICK  = 2 * time.Minute  // 2 minutes - for booking availability
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "activly"
)

// ================== ACTIVITIES MODULE ==================

// Activity Cache Keys
const (
	CACHE_KEY_ACTIVITIES_LIST    = CACHE_PREFIX + ":activities:list"         // + :page:X:limit:Y
	CACHE_KEY_ACTIVITY_DETAIL    = CACHE_PREFIX + ":activities:detail:uuid:" // + activity-id
	CACHE_KEY_ACTIVITY_UPCOMING  = CACHE_PREFIX + ":activities:upcoming"     // + :page:X:limit:Y
	CACHE_KEY_ACTIVITY_ATTENDEES = CACHE_PREFIX + ":activities:roster:uuid:" // + activity-id
)

// Activity Cache TTLs
const (
	TTL_ACTIVITY_LIST      = TTL_SEMI_STATIC_QUICK  // 15 minutes
	TTL_ACTIVITY_DETAIL    = TTL_SEMI_STATIC_MEDIUM // 2 hours
	TTL_ACTIVITY_ATTENDEES = TTL_DYNAMIC_SHORT      // 5 minutes
)

// ================== BOOKINGS MODULE ==================

// Booking Cache Keys
const (
	CACHE_KEY_BOOKING_AVAILABILITY = CACHE_PREFIX + ":bookings:availability:uuid:" // + activity-id
	CACHE_KEY_USER_BOOKINGS        = CACHE_PREFIX + ":bookings:user:uuid:"         // + user-id:page:X
)

// Booking Cache TTLs
const (
	TTL_BOOKING_AVAILABILITY = TTL_DYNAMIC_QUICK  // 2 minutes
	TTL_USER_BOOKINGS        = TTL_DYNAMIC_MEDIUM // 10 minutes
)

// ================== CACHE INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_ACTIVITIES_ALL = CACHE_PREFIX + ":activities:*"
	PATTERN_INVALIDATE_BOOKINGS_ALL   = CACHE_PREFIX + ":bookings:*"
	PATTERN_INVALIDATE_USER_ALL       = CACHE_PREFIX + ":*:user:*" // + user-id + *
)

// ================== HELPER FUNCTIONS ==================

func BuildActivityListKey(page, limit int) string {
	return CACHE_KEY_ACTIVITIES_LIST + ":page:" + fmt.Sprintf("%d", page) + ":limit:" + fmt.Sprintf("%d", limit)
}

func BuildActivityDetailKey(activityID string) string {
	return CACHE_KEY_ACTIVITY_DETAIL + activityID
}

func BuildAvailabilityKey(activityID string) string {
	return CACHE_KEY_BOOKING_AVAILABILITY + activityID
}

func BuildUserBookingsKey(userID string, page int) string {
	return CACHE_KEY_USER_BOOKINGS + userID + ":page:" + fmt.Sprintf("%d", page)
}
