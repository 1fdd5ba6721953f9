package llm

import "errors"

var (
	// ErrMissingCredential indicates the provider needs an API key and none
	// is configured.
	ErrMissingCredential = errors.New("llm provider credential missing")

	// ErrProviderUnavailable indicates the provider could not be reached.
	ErrProviderUnavailable = errors.New("llm provider unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrProviderStatus indicates the provider answered with an error status
	// or refused to produce a candidate.
	ErrProviderStatus = errors.New("llm provider returned an error")

	// ErrInvalidOutput indicates the response could not be parsed into the
	// expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")
)
