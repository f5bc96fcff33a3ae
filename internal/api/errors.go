package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/auth"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/phrazzld/scry-study/internal/ingest"
	"github.com/phrazzld/scry-study/internal/paper"
	"github.com/phrazzld/scry-study/internal/platform/speech"
	"github.com/phrazzld/scry-study/internal/service"
	"github.com/phrazzld/scry-study/internal/session"
	"github.com/phrazzld/scry-study/internal/state"
	"github.com/phrazzld/scry-study/internal/store"
	"github.com/phrazzld/scry-study/internal/studyplan"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// exposing their types to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, store.ErrNotFound),
		errors.Is(err, state.ErrUnknownCourse),
		errors.Is(err, state.ErrNoTest),
		errors.Is(err, state.ErrNoDeck):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrCourseExists),
		errors.Is(err, state.ErrCourseExists),
		errors.Is(err, state.ErrTestAlreadySubmitted):
		return http.StatusConflict

	// Bad request errors
	case errors.As(err, &validationErrs),
		errors.Is(err, shared.ErrEmptyBody),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidLevel),
		errors.Is(err, domain.ErrEmptySubject),
		errors.Is(err, domain.ErrEmptyCourseName),
		errors.Is(err, domain.ErrDayOutOfRange),
		errors.Is(err, domain.ErrInvalidAnswer),
		errors.Is(err, store.ErrInvalidCourseName),
		errors.Is(err, studyplan.ErrInvalidDuration),
		errors.Is(err, state.ErrInvalidTransition),
		errors.Is(err, session.ErrMissingAPIKey),
		errors.Is(err, paper.ErrEmptyText),
		errors.Is(err, speech.ErrEmptyText):
		return http.StatusBadRequest

	// Unusable uploads
	case errors.Is(err, ingest.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ingest.ErrEmptyDocument),
		errors.Is(err, ingest.ErrUnreadableDocument),
		errors.Is(err, generation.ErrContentBlocked):
		return http.StatusUnprocessableEntity

	// Language model failures
	case errors.Is(err, generation.ErrMaxRetriesExceeded):
		return http.StatusServiceUnavailable
	case errors.Is(err, service.ErrNoQuestions),
		errors.Is(err, service.ErrNoFlashcards),
		errors.Is(err, studyplan.ErrPlanShapeMismatch),
		errors.Is(err, paper.ErrScriptIncomplete),
		errors.Is(err, generation.ErrInvalidResponse):
		return http.StatusBadGateway

	case errors.Is(err, service.ErrSpeechDisabled):
		return http.StatusNotImplemented

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err that never
// includes internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid username or password"

	case errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, store.ErrNotFound),
		errors.Is(err, state.ErrUnknownCourse):
		return "Course not found"
	case errors.Is(err, state.ErrNoTest):
		return "No test has been generated for this day"
	case errors.Is(err, state.ErrNoDeck):
		return "No flashcards have been generated for this day"

	case errors.Is(err, service.ErrCourseExists),
		errors.Is(err, state.ErrCourseExists):
		return "Course already exists"
	case errors.Is(err, state.ErrTestAlreadySubmitted):
		return "Test already submitted; retake it to answer again"

	case errors.As(err, &validationErrs):
		return SanitizeValidationError(err)
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"
	case errors.Is(err, domain.ErrInvalidLevel):
		return "Level must be beginner, intermediate or advanced"
	case errors.Is(err, domain.ErrEmptySubject):
		return "Subject is required"
	case errors.Is(err, domain.ErrEmptyCourseName),
		errors.Is(err, store.ErrInvalidCourseName):
		return "Invalid course name"
	case errors.Is(err, domain.ErrDayOutOfRange):
		return "Day is outside the study plan"
	case errors.Is(err, domain.ErrInvalidAnswer):
		return "Answers must be letters A to D"
	case errors.Is(err, studyplan.ErrInvalidDuration):
		return "Invalid number of days"
	case errors.Is(err, session.ErrMissingAPIKey):
		return "An API key is required"
	case errors.Is(err, paper.ErrEmptyText),
		errors.Is(err, speech.ErrEmptyText):
		return "Text is required"
	case errors.Is(err, state.ErrInvalidTransition),
		errors.Is(err, domain.ErrValidation):
		return "Invalid request"

	case errors.Is(err, ingest.ErrUnsupportedFormat):
		return "Unsupported file format; upload PDF, DOCX or TXT"
	case errors.Is(err, ingest.ErrEmptyDocument):
		return "The document contains no text"
	case errors.Is(err, ingest.ErrUnreadableDocument):
		return "The document could not be read"
	case errors.Is(err, generation.ErrContentBlocked):
		return "The request was blocked by content safety filters"

	case errors.Is(err, generation.ErrMaxRetriesExceeded):
		return "The language model is busy, please try again later"
	case errors.Is(err, service.ErrNoQuestions):
		return "The language model returned no usable questions"
	case errors.Is(err, service.ErrNoFlashcards):
		return "The language model returned no usable flashcards"
	case errors.Is(err, studyplan.ErrPlanShapeMismatch),
		errors.Is(err, paper.ErrScriptIncomplete),
		errors.Is(err, generation.ErrInvalidResponse):
		return "The language model returned an unusable answer"

	case errors.Is(err, service.ErrSpeechDisabled):
		return "Audio generation is not enabled"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the status and safe message for err. A non-empty
// message replaces the safe message. The full error is only logged.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError turns a validator error into a short message
// naming the first failing field.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte", "gt":
		return "too small"
	case "max", "lte", "lt":
		return "too large"
	case "oneof":
		return "invalid value"
	case "datetime":
		return "invalid date, use YYYY-MM-DD"
	default:
		return "validation failed"
	}
}
