package assistant

import "errors"

// Common errors returned by assistant implementations
var (
	// ErrEmptyQuestion is returned when the question is blank.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrThemeRequired is returned when an operation that needs a theme is
	// called without one.
	ErrThemeRequired = errors.New("theme is required")

	// ErrInvalidResponse is returned when the model response is empty or
	// cannot be interpreted.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the model blocks the content due
	// to safety filters.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might
	// resolve on retry.
	ErrTransientFailure = errors.New("transient error during assistant call")

	// ErrInvalidConfig is returned when the assistant configuration is invalid.
	ErrInvalidConfig = errors.New("invalid assistant configuration")
)
