// Package pricing holds the pure cost arithmetic of a booking. No
// storage, no clocks: both functions are referentially transparent so
// the workflow can price a draft before committing anything.
package pricing

import (
	"errors"
	"time"
)

// ErrInvalidTimeRange is returned when check-out is not strictly after
// check-in.
var ErrInvalidTimeRange = errors.New("check-out time must be after check-in time")

// DurationHours returns the billable duration in whole hours, rounding
// any started hour up. A one-minute stay bills as one hour.
func DurationHours(checkIn, checkOut time.Time) (int, error) {
	if !checkOut.After(checkIn) {
		return 0, ErrInvalidTimeRange
	}

	d := checkOut.Sub(checkIn)
	hours := int(d / time.Hour)
	if d%time.Hour != 0 {
		hours++
	}
	if hours < 1 {
		hours = 1
	}
	return hours, nil
}

// Cost computes the booking cost: slot count times billable hours times
// the spot's hourly price.
func Cost(slotCount, durationHours int, hourlyPrice float64) float64 {
	return float64(slotCount) * float64(durationHours) * hourlyPrice
}
