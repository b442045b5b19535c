package availability

import (
	"errors"
	"fmt"
)

var (
	ErrEmptySelection = errors.New("no slots selected")

	ErrTooManySlots = errors.New("slot selection exceeds per-booking limit")

	ErrSlotOutOfRange = errors.New("slot index out of range")
)

// ConflictError reports candidate slots that are already covered by an
// active booking. It means the slot was taken between render and
// confirm; the user has to reselect.
type ConflictError struct {
	Slots []int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slots already reserved: %v", e.Slots)
}
