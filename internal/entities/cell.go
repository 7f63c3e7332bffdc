package entities

import "strings"

// Cell is one (row key, column, value) triple returned by a store scan.
type Cell struct {
	RowKey    string
	Column    string
	Timestamp int64
	Value     []byte
}

// ColumnValue is a single column write under a row.
type ColumnValue struct {
	Column string
	Value  []byte
}

// Qualifier strips the "<family>:" prefix from the column name.
func (c Cell) Qualifier() string {
	if i := strings.IndexByte(c.Column, ':'); i >= 0 {
		return c.Column[i+1:]
	}
	return c.Column
}
