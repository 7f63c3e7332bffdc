package entities

import "encoding/json"

// MergedLocation is the joined, decoded, display-ready record for one parking location.
type MergedLocation struct {
	LocationID     string
	Name           string
	Address        string
	TotalSpots     *int64
	AvailableSpots *int64
	Timestamp      *int64
	LastUpdated    string
	// Fields holds every other column, passed through as opaque text.
	Fields map[string]string
}

func NewMergedLocation(locationID string) *MergedLocation {
	return &MergedLocation{LocationID: locationID, Fields: map[string]string{}}
}

// Field returns an opaque column by name, empty when absent.
func (l MergedLocation) Field(name string) string {
	return l.Fields[name]
}

func (l MergedLocation) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(l.Fields)+7)
	for k, v := range l.Fields {
		out[k] = v
	}
	out["location_id"] = l.LocationID
	if l.Name != "" {
		out["name"] = l.Name
	}
	if l.Address != "" {
		out["address"] = l.Address
	}
	if l.TotalSpots != nil {
		out["total_spots"] = *l.TotalSpots
	}
	if l.AvailableSpots != nil {
		out["available_spots"] = *l.AvailableSpots
	}
	if l.Timestamp != nil {
		out["timestamp"] = *l.Timestamp
	}
	if l.LastUpdated != "" {
		out["last_updated"] = l.LastUpdated
	}
	return json.Marshal(out)
}
