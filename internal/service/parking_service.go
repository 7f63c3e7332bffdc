package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"parkingspots/internal/entities"
	apperrors "parkingspots/internal/errors"
	"parkingspots/internal/repository"
)

const (
	opReadLocations    = "reading parking locations"
	opReadAvailability = "reading parking availability"
	opUpdate           = "updating parking availability"
)

// ParkingService builds the location views and persists availability updates.
type ParkingService struct {
	Repo       *repository.ParkingRepository
	aggregator *LocationAggregator
	validator  *UpdateValidator
	logger     *zap.Logger
}

func NewParkingService(repo *repository.ParkingRepository, aggregator *LocationAggregator, validator *UpdateValidator, logger *zap.Logger) *ParkingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParkingService{Repo: repo, aggregator: aggregator, validator: validator, logger: logger}
}

// ListLocations scans locations, then availability, and returns the merged,
// decorated and sorted view. Nothing is cached between calls.
func (s *ParkingService) ListLocations(ctx context.Context) ([]entities.MergedLocation, error) {
	locationCells, err := s.Repo.ScanLocations(ctx)
	if err != nil {
		return nil, apperrors.NewStoreError(opReadLocations, err)
	}
	s.logger.Info("found location cells", zap.Int("count", len(locationCells)))

	availabilityCells, err := s.Repo.ScanAvailability(ctx)
	if err != nil {
		return nil, apperrors.NewStoreError(opReadAvailability, err)
	}
	s.logger.Info("found availability cells", zap.Int("count", len(availabilityCells)))

	locations := s.aggregator.Aggregate(locationCells, availabilityCells)
	s.logger.Info("processed parking locations", zap.Int("count", len(locations)))
	if len(locations) > 0 {
		s.logger.Debug("sample location data", zap.Any("location", locations[0]))
	}
	return locations, nil
}

// ListLocationMetadata returns the locations table alone, sorted by id, for the update form.
func (s *ParkingService) ListLocationMetadata(ctx context.Context) ([]entities.MergedLocation, error) {
	locationCells, err := s.Repo.ScanLocations(ctx)
	if err != nil {
		return nil, apperrors.NewStoreError(opReadLocations, err)
	}
	return s.aggregator.ToSortedList(s.aggregator.Merge(locationCells, nil)), nil
}

// UpdateAvailability validates a client update and writes it. Validation failures
// are returned as *apperrors.ValidationError, store failures as *apperrors.StoreError.
func (s *ParkingService) UpdateAvailability(ctx context.Context, locationID string, availableSpots *string) (*entities.ValidatedUpdate, error) {
	update, err := s.validator.Validate(locationID, availableSpots)
	if err != nil {
		return nil, err
	}

	s.logger.Info("updating location",
		zap.String("location_id", update.LocationID),
		zap.Int64("available_spots", update.AvailableSpots),
		zap.Int64("timestamp", update.Timestamp))

	if err := s.Repo.SaveAvailability(ctx, *update); err != nil {
		return nil, apperrors.NewStoreError(opUpdate, err)
	}
	s.logger.Info("successfully updated location", zap.String("location_id", update.LocationID))
	return update, nil
}

// RecordOccupancy writes a feed-derived availability as binary counters.
func (s *ParkingService) RecordOccupancy(ctx context.Context, locationID string, available int64, at time.Time) error {
	if err := s.Repo.SaveCounterAvailability(ctx, locationID, int32(available), at); err != nil {
		return apperrors.NewStoreError(opUpdate, err)
	}
	return nil
}

// CheckStore pings the backing store.
func (s *ParkingService) CheckStore(ctx context.Context) error {
	return s.Repo.Ping(ctx)
}
