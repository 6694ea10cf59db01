package domain

import "errors"

// Error taxonomy returned by services and repositories. The HTTP layer maps
// these to status codes; storage errors never leak past the repo boundary.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidArgument = errors.New("invalid argument")
)
