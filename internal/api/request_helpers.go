package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/phrazzld/scry-study/internal/session"
)

// sessionFrom returns the session the auth middleware put in the request
// context. It writes a 401 and returns false when there is none.
func sessionFrom(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, ok := shared.GetSession(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Session not found")
		return nil, false
	}
	return s, true
}

// collectWarnings returns r with a retry warning collector in its context.
// Warnings raised by the language model client while serving r land in it.
func collectWarnings(r *http.Request) (*http.Request, *generation.Warnings) {
	ctx, warnings := generation.WithWarnings(r.Context())
	return r.WithContext(ctx), warnings
}

// decodeAndValidate decodes a JSON body into v and validates it, writing
// a 400 on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		if errors.Is(err, shared.ErrEmptyBody) {
			HandleAPIError(w, r, err, "")
			return false
		}
		HandleAPIError(w, r, fmt.Errorf("%w: %v", domain.ErrValidation, err), "Invalid request format")
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		HandleAPIError(w, r, err, "")
		return false
	}
	return true
}

// pathDay parses the {day} URL parameter. Range checks are left to the
// course.
func pathDay(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "day")
	day, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: day %q is not a number", domain.ErrValidation, raw)
	}
	return day, nil
}

// courseAndDay extracts the session, the {name} parameter and the {day}
// parameter, writing an error response if any is missing or invalid.
func courseAndDay(w http.ResponseWriter, r *http.Request) (*session.Session, string, int, bool) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return nil, "", 0, false
	}
	day, err := pathDay(r)
	if err != nil {
		HandleAPIError(w, r, err, "Day must be a number")
		return nil, "", 0, false
	}
	return s, chi.URLParam(r, "name"), day, true
}
