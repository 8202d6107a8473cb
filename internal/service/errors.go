package service

import "errors"

// ErrTimeout is returned when a workflow call exceeds its aggregate
// deadline. Partial work is discarded, never partially returned.
var ErrTimeout = errors.New("workflow deadline exceeded")
