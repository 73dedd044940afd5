package wikiquery

import (
	"errors"
	"fmt"
)

var (
	// ErrDone is returned by Paginator.Next once the final round has been
	// consumed.
	ErrDone = errors.New("wikiquery: no more results")

	// ErrInvalidPermission is wrapped when an action permission is neither
	// a boolean nor a code/text record.
	ErrInvalidPermission = errors.New("wikiquery: action permission is neither bool nor detailed")
)

// BuildError reports a request target that is not a well-formed URI.
type BuildError struct {
	Target string
	Err    error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build request %q: %v", e.Target, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// DecodeError reports a response body that does not match the expected
// shape.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// APIError is the error envelope the server returns instead of a query
// block.
type APIError struct {
	Code     string `json:"code"`
	Info     string `json:"info"`
	DocRef   string `json:"docref"`
	ServedBy string `json:"-"`
}

func (e *APIError) Error() string {
	if e.ServedBy != "" {
		return fmt.Sprintf("mediawiki error %s: %s (served by %s)", e.Code, e.Info, e.ServedBy)
	}
	return fmt.Sprintf("mediawiki error %s: %s", e.Code, e.Info)
}

// StatusError reports a non-2xx HTTP reply.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %s", e.Status)
}
