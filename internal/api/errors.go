package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/nickunderhill/ai-interviewer/internal/api/shared"
	"github.com/nickunderhill/ai-interviewer/internal/domain"
	"github.com/nickunderhill/ai-interviewer/internal/service/auth"
	"github.com/nickunderhill/ai-interviewer/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Not found errors. Ownership failures fold into these so the
	// existence of other users' resources is not revealed.
	case errors.Is(err, store.ErrOperationNotFound),
		errors.Is(err, store.ErrSessionNotFound),
		errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrFeedbackNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrFeedbackExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrOperationNotRetryable),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"

	case errors.Is(err, store.ErrOperationNotFound):
		return "Operation not found"

	case errors.Is(err, store.ErrSessionNotFound):
		return "Session not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrFeedbackNotFound):
		return "Feedback not found"

	case errors.Is(err, store.ErrFeedbackExists):
		return "Feedback already exists for this session"

	case errors.Is(err, domain.ErrOperationNotRetryable):
		return "Only failed operations can be retried"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			return fmt.Sprintf("Invalid %s: %s", validationErr.Field, validationErr.Message)
		}
		return "Invalid request"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the standard error response for an internal error:
// status from MapErrorToStatusCode, message from GetSafeErrorMessage unless
// an override is provided, full error in the logs only.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, userMessage string) {
	status := MapErrorToStatusCode(err)
	if userMessage == "" {
		userMessage = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, userMessage, err)
}
