package entities

// ValidatedUpdate is a client availability update ready to be persisted.
// Timestamp is always generated by the server.
type ValidatedUpdate struct {
	LocationID     string `json:"location_id"`
	AvailableSpots int64  `json:"available_spots"`
	Timestamp      int64  `json:"timestamp"`
}

// OccupancyReading is the payload served by an occupancy feed (camera detector).
type OccupancyReading struct {
	Occupied int64 `json:"occupied"`
}
