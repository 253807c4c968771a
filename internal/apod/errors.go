package apod

import (
	"errors"
	"fmt"
)

// Kind classifies a fetch failure.
type Kind int

const (
	// KindNetwork covers transport failures and non-2xx provider responses.
	KindNetwork Kind = iota + 1
	// KindParse covers malformed provider payloads.
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

var (
	ErrNetwork = errors.New("network error")
	ErrParse   = errors.New("parse error")

	// ErrInvalidDate is returned for dates that are not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")
)

// FetchError is returned by providers and the fetcher when daily content
// cannot be obtained. errors.Is matches ErrNetwork or ErrParse by Kind.
type FetchError struct {
	Kind       Kind
	Op         string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s error (status %d): %v", e.Op, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrParse:
		return e.Kind == KindParse
	}
	return false
}

func networkError(op string, status int, err error) *FetchError {
	return &FetchError{Kind: KindNetwork, Op: op, StatusCode: status, Err: err}
}

func parseError(op string, err error) *FetchError {
	return &FetchError{Kind: KindParse, Op: op, Err: err}
}
