package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrNoActiveSession = errors.New("no active parking session")
)
