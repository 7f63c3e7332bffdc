package repository

import (
	"context"

	"parkingspots/internal/entities"
)

// CellStore is a row-oriented key-value store scanned and written one column at a time.
type CellStore interface {
	// Scan returns every cell of the table, one entry per (row key, column) pair,
	// ordered by row key then column.
	Scan(ctx context.Context, table string, maxVersions int) ([]entities.Cell, error)
	// Put writes the given columns under rowKey. Existing values are overwritten.
	Put(ctx context.Context, table, rowKey string, columns []entities.ColumnValue) error
	Ping(ctx context.Context) error
}
