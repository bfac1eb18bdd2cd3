package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsIsMatchesKindAndCode(t *testing.T) {
	sentinel := Conflict("DUPLICATE_BOOKING", "user already has an active booking")

	same := Conflict("DUPLICATE_BOOKING", "a different message")
	assert.ErrorIs(t, same, sentinel)

	differentCode := Conflict("ACTIVITY_FULL", "no spots left")
	assert.NotErrorIs(t, differentCode, sentinel)

	differentKind := NotFound("DUPLICATE_BOOKING", "weird but different kind")
	assert.NotErrorIs(t, differentKind, sentinel)
}

func TestErrorsIsSurvivesWrapping(t *testing.T) {
	sentinel := NotFound("BOOKING_NOT_FOUND", "booking not found")

	wrapped := fmt.Errorf("loading booking: %w", sentinel)
	assert.ErrorIs(t, wrapped, sentinel)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, "BOOKING_NOT_FOUND", CodeOf(wrapped))
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := ExternalGateway("CHECKOUT_SESSION_FAILED", "failed to create checkout session", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "CHECKOUT_SESSION_FAILED")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestUntaggedErrorDefaults(t *testing.T) {
	plain := errors.New("pq: deadlock detected")

	assert.Equal(t, KindInternal, KindOf(plain))
	assert.Equal(t, "INTERNAL_ERROR", CodeOf(plain))
	assert.Equal(t, "something went wrong", MessageOf(plain))
}

func TestMessageOfTaggedError(t *testing.T) {
	err := Validation("INVALID_ACTIVITY_ID", "invalid activity id")
	assert.Equal(t, "invalid activity id", MessageOf(err))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "conflict", KindConflict.String())
	assert.Equal(t, "external_gateway", KindExternalGateway.String())
	assert.Equal(t, "internal", KindInternal.String())
}
