package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"wsb/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Message: "test error message",
	}

	assert.Equal(t, "test error message", f.Error())
}

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		reason failure.Reason
		code   int
	}{
		{name: "bad time format", reason: failure.ReasonBadTimeFormat, code: http.StatusBadRequest},
		{name: "unaligned", reason: failure.ReasonUnaligned, code: http.StatusBadRequest},
		{name: "past time", reason: failure.ReasonPastTime, code: http.StatusBadRequest},
		{name: "denied", reason: failure.ReasonDenied, code: http.StatusForbidden},
		{name: "inactive principal", reason: failure.ReasonInactivePrincipal, code: http.StatusForbidden},
		{name: "not found", reason: failure.ReasonNotFound, code: http.StatusNotFound},
		{name: "unknown resource", reason: failure.ReasonUnknownResource, code: http.StatusNotFound},
		{name: "already terminal", reason: failure.ReasonAlreadyTerminal, code: http.StatusConflict},
		{name: "conflict", reason: failure.ReasonConflict, code: http.StatusConflict},
		{name: "unknown reason", reason: failure.Reason("SOMETHING"), code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := failure.New(tt.reason, "msg")

			var f *failure.Failure
			assert.True(t, errors.As(err, &f))
			assert.Equal(t, tt.code, f.Code)
			assert.Equal(t, tt.reason, f.Reason)
			assert.Equal(t, "msg", f.Message)
		})
	}
}

func TestFailure_Is(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", failure.New(failure.ReasonExpired, "reservation already ended"))

	assert.ErrorIs(t, err, failure.ErrExpired)
	assert.NotErrorIs(t, err, failure.ErrNotStarted)
	assert.NotErrorIs(t, err, &failure.Failure{})
}

func TestWithDetails(t *testing.T) {
	details := []string{"09:00-10:30"}
	err := failure.WithDetails(failure.ReasonConflict, "interval is taken", details)

	var f *failure.Failure
	assert.True(t, errors.As(err, &f))
	assert.Equal(t, http.StatusConflict, f.Code)
	assert.Equal(t, details, f.Details)
	assert.ErrorIs(t, err, failure.ErrConflict)
}

func TestBadRequest(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		expected error
	}{
		{
			name:  "with error",
			input: errors.New("validation failed"),
			expected: &failure.Failure{
				Code:    http.StatusBadRequest,
				Reason:  failure.ReasonInvalidRequest,
				Message: "validation failed",
			},
		},
		{
			name:     "with nil error",
			input:    nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := failure.BadRequest(tt.input)

			if tt.expected == nil {
				assert.NoError(t, result)

				return
			}

			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, http.StatusConflict, failure.GetCode(failure.Conflict("taken")))
	assert.Equal(t, http.StatusForbidden, failure.GetCode(failure.ForbiddenError))
	assert.Equal(t, http.StatusServiceUnavailable, failure.GetCode(errors.New("connection refused")))
}

func TestGetReason(t *testing.T) {
	assert.Equal(t, failure.ReasonNotFound, failure.GetReason(failure.NotFound("reservation not found")))
	assert.Equal(t, failure.ReasonUnavailable, failure.GetReason(errors.New("connection refused")))
	assert.True(t, failure.IsExpected(failure.Forbidden("nope")))
	assert.False(t, failure.IsExpected(errors.New("boom")))
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("extend: %w", failure.WithDetails(failure.ReasonConflict, "taken", []string{"09:00"}))

	fail, ok := failure.As(wrapped)
	require.True(t, ok)
	assert.Equal(t, failure.ReasonConflict, fail.Reason)
	assert.Equal(t, []string{"09:00"}, fail.Details)

	_, ok = failure.As(errors.New("boom"))
	assert.False(t, ok)
}
