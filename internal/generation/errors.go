package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrEmptyPrompt is returned when a completion is requested for an empty prompt
	ErrEmptyPrompt = errors.New("prompt cannot be empty")

	// ErrInvalidResponse is returned when the LLM response is empty or malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrMaxRetriesExceeded is returned when every attempt failed with a quota error.
	// The returned error also wraps the last failure.
	ErrMaxRetriesExceeded = errors.New("max retries reached, please try again later")

	// ErrInvalidConfig is returned when the client configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
