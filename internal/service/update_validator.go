package service

import (
	"strconv"
	"strings"
	"time"

	"parkingspots/internal/entities"
	apperrors "parkingspots/internal/errors"
)

const (
	msgMissingUpdateField = "Missing location_id or available_spots"
	msgInvalidSpots       = "Invalid available_spots value. Must be a positive number."
)

// UpdateValidator checks client availability updates and stamps them with the server clock.
type UpdateValidator struct {
	now func() time.Time
}

func NewUpdateValidator() *UpdateValidator {
	return &UpdateValidator{now: time.Now}
}

// Validate rejects an empty location id or a nil availableSpots with MissingField, and
// anything that is not a non-negative base-10 integer with InvalidValue.
func (v *UpdateValidator) Validate(locationID string, availableSpots *string) (*entities.ValidatedUpdate, error) {
	locationID = strings.TrimSpace(locationID)
	if locationID == "" {
		return nil, apperrors.NewMissingField("location_id", msgMissingUpdateField)
	}
	if availableSpots == nil {
		return nil, apperrors.NewMissingField("available_spots", msgMissingUpdateField)
	}

	spots, err := strconv.ParseInt(strings.TrimSpace(*availableSpots), 10, 64)
	if err != nil || spots < 0 {
		return nil, apperrors.NewInvalidValue("available_spots", msgInvalidSpots)
	}

	return &entities.ValidatedUpdate{
		LocationID:     locationID,
		AvailableSpots: spots,
		Timestamp:      v.now().Unix(),
	}, nil
}
