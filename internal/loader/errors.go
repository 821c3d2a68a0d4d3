package loader

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies why a page fetch failed.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidRequest
	KindNotFound
	KindTransport
	KindDecode
)

// String returns the lowercase kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindInvalidRequest:
		return "invalid_request"
	case KindNotFound:
		return "not_found"
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// FetchError is the classified failure a fetcher reports and the loader stores
// as its last error.
type FetchError struct {
	Kind  Kind
	Query string
	Err   error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Message returns the text shown to the user for this failure.
func (e *FetchError) Message() string {
	switch e.Kind {
	case KindNotFound:
		if e.Query != "" {
			return fmt.Sprintf("No results for %q.", e.Query)
		}
		return "No results."
	case KindTransport:
		return "Could not load data. Please check your connection and try again."
	default:
		return "Something went wrong while loading data."
	}
}

// Retryable reports whether offering a manual retry makes sense.
func (e *FetchError) Retryable() bool {
	return e.Kind != KindNotFound
}

// NewError wraps err with the given kind.
func NewError(kind Kind, err error) *FetchError {
	return &FetchError{Kind: kind, Err: err}
}

// Classify converts any fetch error into a *FetchError. Errors that already
// carry a kind keep it; context cancellation and deadlines count as transport
// failures; everything else is unknown.
func Classify(err error, query string) *FetchError {
	if err == nil {
		return nil
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		out := *fe
		out.Query = query
		return &out
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &FetchError{Kind: KindTransport, Query: query, Err: err}
	}
	return &FetchError{Kind: KindUnknown, Query: query, Err: err}
}
