// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrConflict signals that an operation cannot proceed due to
// existing dependent records (e.g. deleting a time package that visitors
// still reference).
package repository

import "errors"

// ErrConflict is returned when a delete or update cannot be performed
// because of conflicting state. Handlers should translate this into an
// HTTP 409 response.
var ErrConflict = errors.New("conflict")
