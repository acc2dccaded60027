package failure

import (
	"errors"
	"net/http"
)

// Reason is the closed set of expected outcomes surfaced to adapters.
type Reason string

const (
	ReasonBadTimeFormat      Reason = "BAD_TIME_FORMAT"
	ReasonUnaligned          Reason = "UNALIGNED"
	ReasonOutOfHours         Reason = "OUT_OF_HOURS"
	ReasonDurationOutOfRange Reason = "DURATION_OUT_OF_RANGE"
	ReasonPastTime           Reason = "PAST_TIME"
	ReasonInvalidRequest     Reason = "INVALID_REQUEST"

	ReasonDenied            Reason = "DENIED"
	ReasonInactivePrincipal Reason = "INACTIVE_PRINCIPAL"
	ReasonUnauthorized      Reason = "UNAUTHORIZED"

	ReasonNotFound        Reason = "NOT_FOUND"
	ReasonUnknownResource Reason = "UNKNOWN_RESOURCE"
	ReasonAlreadyTerminal Reason = "ALREADY_TERMINAL"
	ReasonExpired         Reason = "EXPIRED"
	ReasonNotStarted      Reason = "NOT_STARTED"

	ReasonConflict Reason = "CONFLICT"

	ReasonUnavailable Reason = "UNAVAILABLE"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
type Failure struct {
	Code    int    `json:"code"`
	Reason  Reason `json:"reason,omitempty"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

var ForbiddenError = &Failure{Code: http.StatusForbidden, Reason: ReasonDenied, Message: "You don't have the required permissions"}

// Sentinels for errors.Is matching. Only the reason is compared.
var (
	ErrBadTimeFormat      = &Failure{Reason: ReasonBadTimeFormat}
	ErrUnaligned          = &Failure{Reason: ReasonUnaligned}
	ErrOutOfHours         = &Failure{Reason: ReasonOutOfHours}
	ErrDurationOutOfRange = &Failure{Reason: ReasonDurationOutOfRange}
	ErrPastTime           = &Failure{Reason: ReasonPastTime}
	ErrDenied             = &Failure{Reason: ReasonDenied}
	ErrInactivePrincipal  = &Failure{Reason: ReasonInactivePrincipal}
	ErrNotFound           = &Failure{Reason: ReasonNotFound}
	ErrUnknownResource    = &Failure{Reason: ReasonUnknownResource}
	ErrAlreadyTerminal    = &Failure{Reason: ReasonAlreadyTerminal}
	ErrExpired            = &Failure{Reason: ReasonExpired}
	ErrNotStarted         = &Failure{Reason: ReasonNotStarted}
	ErrConflict           = &Failure{Reason: ReasonConflict}
)

var reasonCodes = map[Reason]int{
	ReasonBadTimeFormat:      http.StatusBadRequest,
	ReasonUnaligned:          http.StatusBadRequest,
	ReasonOutOfHours:         http.StatusBadRequest,
	ReasonDurationOutOfRange: http.StatusBadRequest,
	ReasonPastTime:           http.StatusBadRequest,
	ReasonInvalidRequest:     http.StatusBadRequest,
	ReasonDenied:             http.StatusForbidden,
	ReasonInactivePrincipal:  http.StatusForbidden,
	ReasonUnauthorized:       http.StatusUnauthorized,
	ReasonNotFound:           http.StatusNotFound,
	ReasonUnknownResource:    http.StatusNotFound,
	ReasonAlreadyTerminal:    http.StatusConflict,
	ReasonExpired:            http.StatusConflict,
	ReasonNotStarted:         http.StatusConflict,
	ReasonConflict:           http.StatusConflict,
	ReasonUnavailable:        http.StatusServiceUnavailable,
}

// Error returns the error code and message in a formatted string.
func (e *Failure) Error() string {
	return e.Message
}

// Is reports whether target carries the same reason.
func (e *Failure) Is(target error) bool {
	t, ok := target.(*Failure)
	if !ok || t.Reason == "" {
		return false
	}

	return t.Reason == e.Reason
}

// New returns a Failure for the given reason with the matching HTTP code.
func New(reason Reason, msg string) error {
	code, ok := reasonCodes[reason]
	if !ok {
		code = http.StatusInternalServerError
	}

	return &Failure{
		Code:    code,
		Reason:  reason,
		Message: msg,
	}
}

// WithDetails returns a Failure carrying a structured payload, e.g. conflicting intervals.
func WithDetails(reason Reason, msg string, details any) error {
	err := New(reason, msg)
	err.(*Failure).Details = details //nolint:forcetypeassert

	return err
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Reason:  ReasonInvalidRequest,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Reason:  ReasonInvalidRequest,
		Message: msg,
	}
}

// Unauthorized returns a new Failure with code for unauthorized requests.
func Unauthorized(msg string) error {
	return New(ReasonUnauthorized, msg)
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return New(ReasonNotFound, entityName)
}

// Conflict returns a new Failure with code for conflict situations.
func Conflict(message string) error {
	return New(ReasonConflict, message)
}

func Forbidden(msg string) error {
	return New(ReasonDenied, msg)
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) && fail.Code != 0 {
		return fail.Code
	}

	return http.StatusServiceUnavailable
}

// GetReason returns the reason of an expected outcome, or UNAVAILABLE for infrastructure errors.
func GetReason(err error) Reason {
	var fail *Failure
	if errors.As(err, &fail) && fail.Reason != "" {
		return fail.Reason
	}

	return ReasonUnavailable
}

// IsExpected reports whether err is one of the expected service outcomes.
func IsExpected(err error) bool {
	var fail *Failure

	return errors.As(err, &fail)
}

// As returns the Failure carried by err, if any.
func As(err error) (*Failure, bool) {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail, true
	}

	return nil, false
}
