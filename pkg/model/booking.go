package model

import "time"

const (
	VehicleCar   = "Car"
	VehicleBike  = "Bike"
	VehicleSUV   = "SUV"
	VehicleTruck = "Truck"
)

// VehicleTypes is the fixed set offered by the vehicle picker.
var VehicleTypes = []string{VehicleCar, VehicleBike, VehicleSUV, VehicleTruck}

// Booking is created atomically by the confirmation workflow and never
// mutated afterwards. It logically expires once CheckOutTime passes;
// expiry is a derived predicate, not a deletion.
type Booking struct {
	ID            string    `json:"id"`
	SpotID        string    `json:"spot_id"`
	SpotName      string    `json:"spot_name"`
	SelectedSlots []int     `json:"selected_slots"`
	VehicleType   string    `json:"vehicle_type"`
	NumberPlate   string    `json:"number_plate"`
	CheckInTime   time.Time `json:"check_in_time"`
	CheckOutTime  time.Time `json:"check_out_time"`
	DurationHours int       `json:"duration_hours"`
	Cost          float64   `json:"cost"`
	QRPayload     string    `json:"qr_payload"`
	CreatedAt     time.Time `json:"created_at"`
}

// BookingRequest is the confirmation payload as submitted by the client.
// The plate is normalized before validation, so the `plate` tag sees the
// canonical uppercase form.
type BookingRequest struct {
	SpotID        string    `json:"spot_id" validate:"required"`
	SelectedSlots []int     `json:"selected_slots" validate:"required,min=1"`
	VehicleType   string    `json:"vehicle_type" validate:"required,oneof=Car Bike SUV Truck"`
	NumberPlate   string    `json:"number_plate" validate:"required,plate"`
	CheckInTime   time.Time `json:"check_in_time" validate:"required"`
	CheckOutTime  time.Time `json:"check_out_time" validate:"required"`
}

// Active reports whether the booking still holds its slots at the given
// instant. The boundary is exclusive: a booking whose check-out equals
// now is already expired.
func (b Booking) Active(now time.Time) bool {
	return b.CheckOutTime.After(now)
}
