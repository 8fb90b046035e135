package domain

import "errors"

// ErrRunNotFound is returned when a run ID cannot be found in the store.
var ErrRunNotFound = errors.New("run not found")

// ErrTableNotFound is returned when a loader has no machine with the requested name.
var ErrTableNotFound = errors.New("table not found")
