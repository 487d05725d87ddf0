// internal/loan/errors.go
package loan

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrRelatedEntityNotFound = errors.New("related entity not found")
	ErrLoanNotFound          = errors.New("loan not found")
)

// InvalidInputError reports a malformed, missing or mismatched request field.
type InvalidInputError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s %s: %s", e.Field, e.Reason, e.Value)
}

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

func invalidInput(field, value, reason string) error {
	return &InvalidInputError{Field: field, Value: value, Reason: reason}
}

// RelatedEntityNotFoundError reports an account, book or worker that did
// not exist at lookup time.
type RelatedEntityNotFoundError struct {
	Kind string
	ID   string
}

func (e *RelatedEntityNotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e *RelatedEntityNotFoundError) Is(target error) bool { return target == ErrRelatedEntityNotFound }

// LoanNotFoundError reports a loan absent for the given key. LoanID is empty
// when the lookup was by account only.
type LoanNotFoundError struct {
	AccountID string
	LoanID    string
}

func (e *LoanNotFoundError) Error() string {
	switch {
	case e.LoanID == "":
		return fmt.Sprintf("no loans found for account: %s", e.AccountID)
	case e.AccountID == "":
		return fmt.Sprintf("loan not found: %s", e.LoanID)
	default:
		return fmt.Sprintf("loan not found: %s (account %s)", e.LoanID, e.AccountID)
	}
}

func (e *LoanNotFoundError) Is(target error) bool { return target == ErrLoanNotFound }
