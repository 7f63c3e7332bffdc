// Package testutil provides an in-memory cell store for tests.
package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"

	"parkingspots/internal/entities"
)

// MemoryStore implements repository.CellStore in memory.
type MemoryStore struct {
	mu      sync.Mutex
	tables  map[string]map[string]map[string][]byte // table -> row -> column -> value
	ScanErr map[string]error
	PutErr  error
	PingErr error
	Puts    int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables:  make(map[string]map[string]map[string][]byte),
		ScanErr: make(map[string]error),
	}
}

// Set stores a single cell, creating the table and row on demand.
func (m *MemoryStore) Set(table, rowKey, column string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(table, rowKey, column, value)
}

func (m *MemoryStore) set(table, rowKey, column string, value []byte) {
	rows, ok := m.tables[table]
	if !ok {
		rows = make(map[string]map[string][]byte)
		m.tables[table] = rows
	}
	cols, ok := rows[rowKey]
	if !ok {
		cols = make(map[string][]byte)
		rows[rowKey] = cols
	}
	cols[column] = append([]byte(nil), value...)
}

// Get returns a stored cell value.
func (m *MemoryStore) Get(table, rowKey, column string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.tables[table][rowKey][column]
	return v, ok
}

func (m *MemoryStore) Scan(ctx context.Context, table string, maxVersions int) ([]entities.Cell, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ScanErr[table]; err != nil {
		return nil, err
	}
	rows := m.tables[table]
	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var cells []entities.Cell
	for _, k := range keys {
		cols := make([]string, 0, len(rows[k]))
		for c := range rows[k] {
			cols = append(cols, c)
		}
		sort.Strings(cols)
		for _, c := range cols {
			cells = append(cells, entities.Cell{RowKey: k, Column: c, Value: rows[k][c]})
		}
	}
	return cells, nil
}

func (m *MemoryStore) Put(ctx context.Context, table, rowKey string, columns []entities.ColumnValue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PutErr != nil {
		return m.PutErr
	}
	if len(columns) == 0 {
		return errors.New("put with no columns")
	}
	for _, c := range columns {
		m.set(table, rowKey, c.Column, c.Value)
	}
	m.Puts++
	return nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return m.PingErr
}
