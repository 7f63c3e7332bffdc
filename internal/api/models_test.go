package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleString(t *testing.T) {
	var req UpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"location_id": 12, "available_spots": null}`), &req))
	assert.Equal(t, "12", req.LocationID.Value)
	assert.Nil(t, req.AvailableSpots.Ptr())

	require.NoError(t, json.Unmarshal([]byte(`{"location_id": "A7", "available_spots": "4"}`), &req))
	assert.Equal(t, "A7", req.LocationID.Value)
	require.NotNil(t, req.AvailableSpots.Ptr())
	assert.Equal(t, "4", *req.AvailableSpots.Ptr())

	req = UpdateRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &req))
	assert.False(t, req.LocationID.Set)
}
