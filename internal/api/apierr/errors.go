package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/pelada/internal/model"
	"github.com/mcoot/pelada/internal/services/auth"
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
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeEmailExists         = "EMAIL_EXISTS"
	CodeAthleteNotFound     = "ATHLETE_NOT_FOUND"
	CodeAthleteInactive     = "ATHLETE_INACTIVE"
	CodeProfileNotFound     = "PROFILE_NOT_FOUND"
	CodeAccountNotFound     = "ACCOUNT_NOT_FOUND"
	CodeInvalidTeamCount    = "INVALID_TEAM_COUNT"
	CodeInsufficientPlayers = "INSUFFICIENT_PLAYERS"
	CodeUnknownPosition     = "UNKNOWN_POSITION"
	CodeDuplicatePlayer     = "DUPLICATE_PLAYER"
	CodeNotFound            = "NOT_FOUND"
	CodeInternalError       = "INTERNAL_ERROR"
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

// Status returns the HTTP status WriteError would use for err
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError.
// Client errors carry the wrapped message so callers see the detail.
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Balancing errors
	case errors.Is(err, model.ErrInvalidTeamCount):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidTeamCount, err.Error()}}
	case errors.Is(err, model.ErrInsufficientPlayers):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeInsufficientPlayers, err.Error()}}
	case errors.Is(err, model.ErrUnknownPosition):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownPosition, err.Error()}}
	case errors.Is(err, model.ErrDuplicatePlayer):
		return &httpError{http.StatusBadRequest, APIError{CodeDuplicatePlayer, err.Error()}}

	// Roster and profile errors
	case errors.Is(err, model.ErrAthleteNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeAthleteNotFound, err.Error()}}
	case errors.Is(err, model.ErrAthleteInactive):
		return &httpError{http.StatusConflict, APIError{CodeAthleteInactive, err.Error()}}
	case errors.Is(err, model.ErrInvalidAthlete), errors.Is(err, model.ErrInvalidProfile):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, err.Error()}}
	case errors.Is(err, model.ErrProfileNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeProfileNotFound, "Profile not found"}}
	case errors.Is(err, model.ErrAccountNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeAccountNotFound, "Account not found"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid email or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrEmailExists):
		return &httpError{http.StatusConflict, APIError{CodeEmailExists, "Email already registered"}}
	case errors.Is(err, auth.ErrInvalidSignup):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, err.Error()}}

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

// NewNotFoundError creates a not found error for unknown routes
func NewNotFoundError() error {
	return &httpError{http.StatusNotFound, APIError{CodeNotFound, "Not found"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
