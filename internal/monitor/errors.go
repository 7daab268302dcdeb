package monitor

import (
	"errors"
	"fmt"
)

// InvariantViolationError reports that the store holds more than one open
// incident for a monitor. The reconciler refuses to guess which one is
// current and issues no mutation while the condition persists.
type InvariantViolationError struct {
	// Monitor is the monitor whose invariant was violated.
	Monitor string

	// IncidentIDs are the open incidents found.
	IncidentIDs []int64
}

// Error implements the error interface for InvariantViolationError.
func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("monitor %s: found %d open incidents %v, expected at most one; refusing to act",
		e.Monitor, len(e.IncidentIDs), e.IncidentIDs)
}

// IsInvariantViolation checks if an error is an InvariantViolationError
// using error unwrapping.
func IsInvariantViolation(err error) bool {
	var invErr *InvariantViolationError
	return errors.As(err, &invErr)
}
