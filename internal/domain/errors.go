package domain

import "errors"

// ErrValidation marks input that violates a domain rule. Callers wrap it with
// the specific reason.
var ErrValidation = errors.New("validation failed")
