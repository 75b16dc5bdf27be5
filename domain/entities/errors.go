package entities

import (
	"errors"
	"fmt"
)

// Business-rule violations. These are expected failures: they leave no
// partial state behind and are reported to the caller as-is.
var (
	// ErrAlreadyExists is returned when a round, ticket or pot id collides
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotFound is returned when the referenced round, ticket or pot does not exist
	ErrNotFound = errors.New("not found")

	// ErrRoundNotActive is returned for a purchase against an inactive round
	ErrRoundNotActive = errors.New("round is not active")

	// ErrUnauthorized is returned when the caller is not the buyer, or a
	// non-admin invokes an admin-only operation
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInsufficientFunds is returned when a ledger debit would overdraw
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidReveal is returned when a round reveal's id does not match
	// the round, or a revealed value is outside [0, MaxNumber]
	ErrInvalidReveal = errors.New("invalid reveal")

	// ErrValidation is returned for malformed ids and amounts
	ErrValidation = errors.New("validation failed")
)

// DependencyError wraps a failure of an external collaborator (ledger
// transfer, oracle request). The operation aborted with no durable state
// change; the caller may retry the whole operation.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("dependency failure in %s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

// NewDependencyError wraps err as a retryable dependency failure
func NewDependencyError(op string, err error) error {
	return &DependencyError{Op: op, Err: err}
}

// IsDependencyError reports whether err is a retryable dependency failure
func IsDependencyError(err error) bool {
	var de *DependencyError
	return errors.As(err, &de)
}
