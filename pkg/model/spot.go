package model

// ParkingSpot is immutable reference data owned by the catalog. The core
// never mutates it; SoldOut is derived from current availability when a
// spot is served, never stored.
type ParkingSpot struct {
	ID          string  `json:"id" bson:"_id"`
	Name        string  `json:"name" bson:"name"`
	Address     string  `json:"address" bson:"address"`
	Latitude    float64 `json:"latitude" bson:"latitude"`
	Longitude   float64 `json:"longitude" bson:"longitude"`
	Capacity    int     `json:"capacity" bson:"capacity"`
	HourlyPrice float64 `json:"hourly_price" bson:"hourly_price"`
	Rating      float64 `json:"rating" bson:"rating"`
	SoldOut     bool    `json:"sold_out" bson:"-"`
}

// SpotAvailability is the per-spot slot view served to the selection
// screen. ReservedSlots lists occupied slot numbers, 1-based.
type SpotAvailability struct {
	Spot           ParkingSpot `json:"spot"`
	ReservedSlots  []int       `json:"reserved_slots"`
	AvailableCount int         `json:"available_count"`
	SoldOut        bool        `json:"sold_out"`
}
