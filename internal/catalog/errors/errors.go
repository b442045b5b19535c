package errors

import "errors"

var (
	ErrSpotNotFound = errors.New("parking spot not found")
)
