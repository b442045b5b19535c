package service

import "carpark/pkg/model"

// DefaultSpots is the catalog loaded into an empty database on first
// start.
func DefaultSpots() []model.ParkingSpot {
	return []model.ParkingSpot{
		{
			ID:          "spot-city-center",
			Name:        "City Center Parking",
			Address:     "MG Road, Khopoli",
			Latitude:    18.8211,
			Longitude:   73.2705,
			Capacity:    20,
			HourlyPrice: 50,
			Rating:      4.5,
		},
		{
			ID:          "spot-station-west",
			Name:        "Station West Lot",
			Address:     "Station Road, Khopoli",
			Latitude:    18.8205,
			Longitude:   73.2720,
			Capacity:    20,
			HourlyPrice: 40,
			Rating:      4.1,
		},
		{
			ID:          "spot-market-square",
			Name:        "Market Square Garage",
			Address:     "Bazar Peth, Khopoli",
			Latitude:    18.8199,
			Longitude:   73.2715,
			Capacity:    20,
			HourlyPrice: 60,
			Rating:      4.7,
		},
		{
			ID:          "spot-lakeview",
			Name:        "Lakeview Open Parking",
			Address:     "Pali Road, Khopoli",
			Latitude:    18.8220,
			Longitude:   73.2708,
			Capacity:    20,
			HourlyPrice: 30,
			Rating:      3.9,
		},
	}
}
