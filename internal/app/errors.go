package app

import "fmt"

// ServiceError reports that a backing store or cache could not serve an
// operation: it failed, or did not answer within the configured timeout.
// The operation is read-only, so the caller may retry it as a whole.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: service unavailable: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
