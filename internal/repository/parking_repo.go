package repository

import (
	"context"
	"strconv"
	"time"

	"parkingspots/internal/entities"
	"parkingspots/internal/utils"
)

const (
	columnAvailableSpots = "stat:available_spots"
	columnTimestamp      = "stat:timestamp"
	columnLastUpdated    = "stat:last_updated"

	lastUpdatedLayout = "2006-01-02 15:04:05"
)

// ParkingRepository reads and writes the locations and availability tables.
type ParkingRepository struct {
	store             CellStore
	locationsTable    string
	availabilityTable string
}

func NewParkingRepository(store CellStore, locationsTable, availabilityTable string) *ParkingRepository {
	return &ParkingRepository{store: store, locationsTable: locationsTable, availabilityTable: availabilityTable}
}

func (r *ParkingRepository) ScanLocations(ctx context.Context) ([]entities.Cell, error) {
	return r.store.Scan(ctx, r.locationsTable, 1)
}

func (r *ParkingRepository) ScanAvailability(ctx context.Context) ([]entities.Cell, error) {
	return r.store.Scan(ctx, r.availabilityTable, 1)
}

// SaveAvailability writes a client update as decimal text, the way text clients do.
func (r *ParkingRepository) SaveAvailability(ctx context.Context, update entities.ValidatedUpdate) error {
	return r.store.Put(ctx, r.availabilityTable, update.LocationID, []entities.ColumnValue{
		{Column: columnAvailableSpots, Value: []byte(strconv.FormatInt(update.AvailableSpots, 10))},
		{Column: columnTimestamp, Value: []byte(strconv.FormatInt(update.Timestamp, 10))},
	})
}

// SaveCounterAvailability writes binary counters: a 4-byte available count and an
// 8-byte Unix timestamp, plus a local-time last_updated string.
func (r *ParkingRepository) SaveCounterAvailability(ctx context.Context, locationID string, available int32, at time.Time) error {
	return r.store.Put(ctx, r.availabilityTable, locationID, []entities.ColumnValue{
		{Column: columnAvailableSpots, Value: utils.EncodeCounter32(available)},
		{Column: columnLastUpdated, Value: []byte(at.Format(lastUpdatedLayout))},
		{Column: columnTimestamp, Value: utils.EncodeCounter64(at.Unix())},
	})
}

func (r *ParkingRepository) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}
