package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ollieshotz/shotz/internal/model"
	"github.com/ollieshotz/shotz/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeRateLimited       = "RATE_LIMITED"
	CodeProfileNotFound   = "PROFILE_NOT_FOUND"
	CodeGameNotFound      = "GAME_NOT_FOUND"
	CodeEventNotFound     = "EVENT_NOT_FOUND"
	CodeFamilyNotFound    = "FAMILY_MEMBER_NOT_FOUND"
	CodeAlreadyInvited    = "ALREADY_INVITED"
	CodeInvalidGameStatus = "INVALID_GAME_STATUS"
	CodeInvalidEventType  = "INVALID_EVENT_TYPE"
	CodeUnknownPeriod     = "UNKNOWN_PERIOD"
	CodeInvalidPeriods    = "INVALID_PERIODS"
	CodeNothingToUndo     = "NOTHING_TO_UNDO"
	CodeInvalidPin        = "INVALID_PIN"
	CodePinFormat         = "PIN_FORMAT"
	CodeStoreUnavailable  = "STORE_UNAVAILABLE"
	CodeInternalError     = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrProfileNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeProfileNotFound, "Profile not found"}}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrEventNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeEventNotFound, "Event not found"}}
	case errors.Is(err, model.ErrFamilyMemberNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeFamilyNotFound, "Family member not found"}}
	case errors.Is(err, model.ErrAlreadyInvited):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyInvited, "This email is already invited"}}
	case errors.Is(err, model.ErrInvalidGameStatus):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidGameStatus, "Status must be upcoming, live, or completed"}}
	case errors.Is(err, model.ErrInvalidEventType):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidEventType, "Event type must be save or goal"}}
	case errors.Is(err, model.ErrUnknownPeriod):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownPeriod, "Period is not part of this game"}}
	case errors.Is(err, model.ErrNoPeriods), errors.Is(err, model.ErrDuplicatePeriod):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPeriods, "Period labels must be non-empty and unique"}}
	case errors.Is(err, model.ErrNothingToUndo):
		return &httpError{http.StatusConflict, APIError{CodeNothingToUndo, "No events to undo"}}
	case errors.Is(err, model.ErrUnauthorized):
		return &httpError{http.StatusForbidden, APIError{CodeForbidden, "You do not have access to this profile"}}
	case errors.Is(err, model.ErrStoreUnavailable):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeStoreUnavailable, "Store temporarily unavailable, changes are queued"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidPin):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidPin, "PIN does not match any profile"}}
	case errors.Is(err, auth.ErrPinFormat):
		return &httpError{http.StatusBadRequest, APIError{CodePinFormat, "PIN must be exactly 6 digits"}}
	case errors.Is(err, auth.ErrTooManyAttempts):
		return &httpError{http.StatusTooManyRequests, APIError{CodeRateLimited, "Too many PIN attempts, try again later"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError() error {
	return &httpError{http.StatusForbidden, APIError{CodeForbidden, "You do not have access to this profile"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
