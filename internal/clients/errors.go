// internal/clients/errors.go
package clients

import (
	"errors"
	"fmt"
)

var (
	ErrReferenceNotFound = errors.New("reference not found")
	ErrInvalidReference  = errors.New("invalid reference")
)

// Kind names the remote entity a client looks up.
type Kind string

const (
	KindAccount Kind = "account"
	KindBook    Kind = "book"
	KindWorker  Kind = "worker"
)

// LookupError is a classified failure of a remote lookup. Err is either
// ErrReferenceNotFound or ErrInvalidReference.
type LookupError struct {
	Kind   Kind
	ID     string
	Status int
	Detail string
	Err    error
}

func (e *LookupError) Error() string {
	msg := fmt.Sprintf("%s %q: %v", e.Kind, e.ID, e.Err)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *LookupError) Unwrap() error { return e.Err }

// UpstreamError is any remote failure that is neither a not-found nor an
// invalid-reference response: transport errors, timeouts, unexpected
// statuses and undecodable bodies. It is never retried.
type UpstreamError struct {
	Kind   Kind
	ID     string
	Status int
	Body   string
	Err    error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Err != nil && e.Status != 0:
		return fmt.Sprintf("%s service lookup for %q failed (status %d): %v", e.Kind, e.ID, e.Status, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s service lookup for %q failed: %v", e.Kind, e.ID, e.Err)
	default:
		return fmt.Sprintf("%s service lookup for %q failed with unexpected status %d: %s", e.Kind, e.ID, e.Status, e.Body)
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }
