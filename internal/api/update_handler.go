package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"parkingspots/internal/entities"
	apperrors "parkingspots/internal/errors"
)

const maxUpdateBodyBytes = int64(4096)

// AvailabilityUpdater is the write side of the parking service.
type AvailabilityUpdater interface {
	UpdateAvailability(ctx context.Context, locationID string, availableSpots *string) (*entities.ValidatedUpdate, error)
}

type UpdateHandler struct {
	Service AvailabilityUpdater
	logger  *zap.Logger
}

func NewUpdateHandler(svc AvailabilityUpdater, logger *zap.Logger) *UpdateHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UpdateHandler{Service: svc, logger: logger}
}

func (h *UpdateHandler) UpdateAvailability(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpdateBodyBytes)
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, UpdateResponse{Success: false, Message: "Invalid request body"})
		return
	}

	update, err := h.Service.UpdateAvailability(r.Context(), req.LocationID.Value, req.AvailableSpots.Ptr())
	if err != nil {
		var validationErr *apperrors.ValidationError
		if errors.As(err, &validationErr) {
			writeJSON(w, http.StatusBadRequest, UpdateResponse{Success: false, Message: validationErr.Message})
			return
		}
		h.logger.Error("error updating store", zap.Error(err))
		cause := err
		var storeErr *apperrors.StoreError
		if errors.As(err, &storeErr) {
			cause = storeErr.Err
		}
		writeJSON(w, http.StatusInternalServerError, UpdateResponse{
			Success: false,
			Message: "Failed to update database: " + cause.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, UpdateResponse{
		Success:        true,
		Message:        fmt.Sprintf("Updated location %s to %d available spots", update.LocationID, update.AvailableSpots),
		LocationID:     update.LocationID,
		AvailableSpots: &update.AvailableSpots,
		Timestamp:      update.Timestamp,
	})
}
