package api

import (
	"bytes"
	"encoding/json"
)

// FlexibleString accepts a JSON string or number. Set reports whether the key
// was present with a non-null value.
type FlexibleString struct {
	Value string
	Set   bool
}

func (f *FlexibleString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = FlexibleString{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexibleString{Value: s, Set: true}
		return nil
	}
	// numbers, booleans and objects keep their raw text and fail validation later
	*f = FlexibleString{Value: string(data), Set: true}
	return nil
}

// Ptr returns nil when the value was absent.
func (f FlexibleString) Ptr() *string {
	if !f.Set {
		return nil
	}
	v := f.Value
	return &v
}

// Update
type UpdateRequest struct {
	LocationID     FlexibleString `json:"location_id"`
	AvailableSpots FlexibleString `json:"available_spots"`
}

type UpdateResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	LocationID     string `json:"location_id,omitempty"`
	AvailableSpots *int64 `json:"available_spots,omitempty"`
	Timestamp      int64  `json:"timestamp,omitempty"`
}

// Admin login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}
