// Package tracking implements the visitor session engine: the in-memory
// visitor store, the lifecycle state machine and the elapsed-time poller
// that keeps remaining minutes current and fires threshold notifications.
package tracking

import "errors"

// Sentinel errors returned by the lifecycle controller. Handlers translate
// these into HTTP 404, 409 and 400 respectively.
var (
	ErrNotFound          = errors.New("visitor not found")
	ErrInvalidTransition = errors.New("invalid session transition")
	ErrInvalidArgument   = errors.New("invalid argument")
)
