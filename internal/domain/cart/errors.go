// internal/domain/cart/errors.go
package cart

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCartOperationFailed is the terminal failure after the single
// recreate-and-retry cycle is exhausted. The persisted handle has been
// cleared by the time it is returned.
var ErrCartOperationFailed = errors.New("cart operation failed")

// ErrNothingToCheckout is returned when checkout is requested for an
// empty or absent cart. It never reaches the network layer.
var ErrNothingToCheckout = errors.New("nothing to check out")

// ValidationError is a local input error that never reaches the
// network layer.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// TransportError means the remote cart service was unreachable or
// answered with a transport-level failure. It is never retried
// automatically; the UI owns user-facing retry.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("cart %s: transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DomainRejection means the remote service was reachable but rejected
// the operation at the application level. InvalidHandle marks the
// rejections that flag the cart id itself as unusable; those trigger
// the engine's one-shot recreate-and-retry.
type DomainRejection struct {
	Op            string
	Messages      []string
	InvalidHandle bool
}

func (e *DomainRejection) Error() string {
	return fmt.Sprintf("cart %s: rejected by remote service: %s", e.Op, strings.Join(e.Messages, "; "))
}

// IsTransport reports whether err is a transport-level failure
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsDomainRejection reports whether err is an application-level rejection
func IsDomainRejection(err error) bool {
	var de *DomainRejection
	return errors.As(err, &de)
}

// isInvalidHandle reports whether err flags the cart handle as unusable
func isInvalidHandle(err error) bool {
	var de *DomainRejection
	return errors.As(err, &de) && de.InvalidHandle
}
