package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "parkingspots/internal/errors"
)

func strPtr(s string) *string { return &s }

func TestValidateSuccess(t *testing.T) {
	v := NewUpdateValidator()
	before := time.Now().Unix()

	update, err := v.Validate("5", strPtr("3"))
	require.NoError(t, err)

	assert.Equal(t, "5", update.LocationID)
	assert.Equal(t, int64(3), update.AvailableSpots)
	assert.InDelta(t, before, update.Timestamp, 1)
}

func TestValidateUsesServerClock(t *testing.T) {
	v := &UpdateValidator{now: func() time.Time { return time.Unix(1700000000, 0) }}

	update, err := v.Validate(" 7 ", strPtr(" 0 "))
	require.NoError(t, err)
	assert.Equal(t, "7", update.LocationID)
	assert.Equal(t, int64(0), update.AvailableSpots)
	assert.Equal(t, int64(1700000000), update.Timestamp)
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		spots    *string
		sentinel error
	}{
		{"negative", "5", strPtr("-1"), apperrors.ErrInvalidValue},
		{"not a number", "5", strPtr("lots"), apperrors.ErrInvalidValue},
		{"fraction", "5", strPtr("2.5"), apperrors.ErrInvalidValue},
		{"empty spots", "5", strPtr(""), apperrors.ErrInvalidValue},
		{"empty id", "", strPtr("5"), apperrors.ErrMissingField},
		{"blank id", "   ", strPtr("5"), apperrors.ErrMissingField},
		{"absent spots", "5", nil, apperrors.ErrMissingField},
	}
	v := NewUpdateValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			update, err := v.Validate(tt.id, tt.spots)
			assert.Nil(t, update)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)
		})
	}
}
