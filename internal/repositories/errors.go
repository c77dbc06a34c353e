package repositories

import "errors"

// ErrNotFound is returned when no record matches the given identifier.
// Implementations wrap it with entity context; callers test with errors.Is.
var ErrNotFound = errors.New("record not found")
