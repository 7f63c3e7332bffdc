package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"parkingspots/internal/entities"
)

const cellsSchema = `
CREATE TABLE IF NOT EXISTS parking_cells (
	table_name  TEXT        NOT NULL,
	row_key     TEXT        NOT NULL,
	column_name TEXT        NOT NULL,
	value       BYTEA       NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (table_name, row_key, column_name)
)`

// PostgresStore keeps the wide-column cell model in a single relational table.
// Only the latest version of each cell is retained.
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

// EnsureSchema creates the cells table when it does not exist yet.
func (r *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, cellsSchema); err != nil {
		return fmt.Errorf("error creating parking_cells table: %w", err)
	}
	return nil
}

func (r *PostgresStore) Scan(ctx context.Context, table string, maxVersions int) ([]entities.Cell, error) {
	query := `
	SELECT row_key, column_name, value, (EXTRACT(EPOCH FROM updated_at) * 1000)::BIGINT
	FROM parking_cells
	WHERE table_name = $1
	ORDER BY row_key, column_name`
	rows, err := r.DB.QueryContext(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("error scanning %s: %w", table, err)
	}
	defer rows.Close()

	var cells []entities.Cell
	for rows.Next() {
		var c entities.Cell
		if err := rows.Scan(&c.RowKey, &c.Column, &c.Value, &c.Timestamp); err != nil {
			return nil, fmt.Errorf("error scanning cell of %s: %w", table, err)
		}
		cells = append(cells, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating %s: %w", table, err)
	}
	return cells, nil
}

func (r *PostgresStore) Put(ctx context.Context, table, rowKey string, columns []entities.ColumnValue) error {
	if len(columns) == 0 {
		return errors.New("put with no columns")
	}
	names := make([]string, 0, len(columns))
	values := make([][]byte, 0, len(columns))
	for _, c := range columns {
		names = append(names, c.Column)
		values = append(values, c.Value)
	}

	query := `
	INSERT INTO parking_cells (table_name, row_key, column_name, value, updated_at)
	SELECT $1, $2, c.column_name, c.value, NOW()
	FROM unnest($3::TEXT[], $4::BYTEA[]) AS c(column_name, value)
	ON CONFLICT (table_name, row_key, column_name)
	DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	if _, err := r.DB.ExecContext(ctx, query, table, rowKey, pq.Array(names), pq.ByteaArray(values)); err != nil {
		return fmt.Errorf("error writing %s/%s: %w", table, rowKey, err)
	}
	return nil
}

func (r *PostgresStore) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}
