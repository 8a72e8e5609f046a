package ipwherelib

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownProvider is returned when a provider name is not a
	// member of the known provider set.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrNoProviders is returned when a lookup is requested with an
	// empty provider list.
	ErrNoProviders = errors.New("no providers given")

	// ErrTooManyRequests is returned when a provider answers with 429.
	ErrTooManyRequests = errors.New("too many requests")

	// ErrRequestStatus is returned when a provider answers with any
	// unexpected status which is not 429.
	ErrRequestStatus = errors.New("unexpected response status")

	// ErrUnsupportedTargetLookup is returned when a target-aware
	// lookup was required but attempted providers can only resolve
	// the caller's own address.
	ErrUnsupportedTargetLookup = errors.New("provider does not support target lookups")
)

// ExhaustedError is returned when every allowed provider attempt has
// failed. It carries the number of attempts made and the last
// underlying failure.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all %d lookup attempts failed: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}
