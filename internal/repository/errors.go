package repository

import "errors"

// ErrNotFound marks lookups that resolved to no row. Callers distinguish it
// from validation and storage failures with errors.Is.
var ErrNotFound = errors.New("not found")
