// Package availability derives per-slot reservation state for a parking
// spot. Reservation state is never stored: it is recomputed from the
// active booking set on every read, which keeps slot status and the
// ledger from drifting apart at the cost of an O(active bookings) scan.
package availability

import (
	"fmt"
	"sort"

	"carpark/pkg/model"
)

// ComputeReservedSlots unions the selected slots of the given bookings
// into a boolean vector of length capacity. Index i marks slot i+1; slot
// indices outside [1, capacity] are ignored. Callers pass bookings
// already filtered to one spot and to the active window.
func ComputeReservedSlots(bookings []model.Booking, capacity int) []bool {
	reserved := make([]bool, capacity)
	for _, b := range bookings {
		for _, slot := range b.SelectedSlots {
			if slot >= 1 && slot <= capacity {
				reserved[slot-1] = true
			}
		}
	}
	return reserved
}

// ValidateSelection checks a candidate slot selection against the
// reserved vector and returns it sorted and deduplicated. maxSelectable
// is the per-booking cap on slot count.
func ValidateSelection(candidate []int, reserved []bool, maxSelectable int) ([]int, error) {
	if len(candidate) == 0 {
		return nil, ErrEmptySelection
	}

	capacity := len(reserved)
	seen := make(map[int]bool, len(candidate))
	selection := make([]int, 0, len(candidate))

	for _, slot := range candidate {
		if slot < 1 || slot > capacity {
			return nil, fmt.Errorf("%w: slot %d (capacity %d)", ErrSlotOutOfRange, slot, capacity)
		}
		if seen[slot] {
			continue
		}
		seen[slot] = true
		selection = append(selection, slot)
	}

	if len(selection) > maxSelectable {
		return nil, fmt.Errorf("%w: selected %d, limit %d", ErrTooManySlots, len(selection), maxSelectable)
	}

	var conflicts []int
	for _, slot := range selection {
		if reserved[slot-1] {
			conflicts = append(conflicts, slot)
		}
	}
	if len(conflicts) > 0 {
		sort.Ints(conflicts)
		return nil, &ConflictError{Slots: conflicts}
	}

	sort.Ints(selection)
	return selection, nil
}
