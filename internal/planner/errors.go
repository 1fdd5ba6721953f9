package planner

import (
	"errors"
	"fmt"

	"github.com/meltforce/rowplan/internal/llm"
)

// Kind classifies why a generation failed. It is logged, never shown to
// API callers.
type Kind string

const (
	KindProviderUnavailable  Kind = "provider_unavailable"
	KindInvalidResponseShape Kind = "invalid_response_shape"
	KindInvalidContent       Kind = "invalid_content"
	KindUnknown              Kind = "unknown"
)

// Error is returned by Gateway.Generate for every failure.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("generate workouts (%s): %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}

// providerKind maps an llm client failure onto a Kind.
func providerKind(err error) Kind {
	switch {
	case errors.Is(err, llm.ErrMissingCredential),
		errors.Is(err, llm.ErrProviderUnavailable),
		errors.Is(err, llm.ErrTimeout),
		errors.Is(err, llm.ErrProviderStatus):
		return KindProviderUnavailable
	case errors.Is(err, llm.ErrInvalidOutput):
		return KindInvalidResponseShape
	default:
		return KindUnknown
	}
}
