package entity

import (
	"errors"
	"fmt"
	"time"
)

// Infrastructure errors terminate the scenario that hit them. They are never
// retried inside a page object; whole-scenario retry is a runner policy.

// NavigationError: the target surface was unreachable or did not finish
// loading within the bounded window.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation to %q failed: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// TimeoutError: a locate-and-act, subscription or poll did not complete in
// its bounded window.
type TimeoutError struct {
	Op      string
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s: %v", e.Op, e.Timeout, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// StaleReferenceError: a row/element reference was used after the underlying
// structure mutated. Callers must re-resolve, not cache.
type StaleReferenceError struct {
	Locator Locator
}

func (e *StaleReferenceError) Error() string {
	return fmt.Sprintf("stale reference: %s (re-resolve after mutation)", e.Locator.Path())
}

// LostEventError: a pending async event was registered after its triggering
// action, so the event may already have fired unobserved. This is a defect
// in the calling code, not a flaky condition to retry.
type LostEventError struct {
	Kind EventKind
}

func (e *LostEventError) Error() string {
	return fmt.Sprintf("event %q awaited without prior registration: the event may have fired before anyone listened", e.Kind)
}

// AssertionFailure is a test-level judgment, distinct from infrastructure
// faults: an observed value did not match the expectation.
type AssertionFailure struct {
	What string
	Want string
	Got  string
}

func (e *AssertionFailure) Error() string {
	return fmt.Sprintf("assertion failed: %s: want %s, got %s", e.What, e.Want, e.Got)
}

// IsInfrastructure reports whether err belongs to the infrastructure class
// (as opposed to an assertion failure).
func IsInfrastructure(err error) bool {
	var nav *NavigationError
	var to *TimeoutError
	var stale *StaleReferenceError
	var lost *LostEventError
	return errors.As(err, &nav) || errors.As(err, &to) || errors.As(err, &stale) || errors.As(err, &lost)
}
