// Package cohort loads and holds the patient admission table.
//
// A Table is an immutable snapshot: every transformation returns a new
// Table and never mutates the receiver, so pipeline stages can hand
// tables forward without hidden aliasing.
//
// Errors:
//
//	ErrMissingColumn - a required column is absent from the header.
//	ErrRaggedRow     - a data row has a different width than the header.
package cohort

import (
	"errors"
	"fmt"
	"strconv"
)

// Sentinel errors for table construction and column access.
var (
	// ErrMissingColumn indicates a lookup referenced a column the header does not carry.
	ErrMissingColumn = errors.New("cohort: missing column")

	// ErrRaggedRow indicates a data row whose width differs from the header.
	ErrRaggedRow = errors.New("cohort: ragged row")
)

// Table is a header-indexed, row-oriented string table.
type Table struct {
	cols  []string
	index map[string]int
	rows  [][]string
}

// New builds a Table from a header and rows. Rows must all match the
// header width.
func New(cols []string, rows [][]string) (*Table, error) {
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[c] = i
	}
	for i, r := range rows {
		if len(r) != len(cols) {
			return nil, fmt.Errorf("%w: row %d has %d fields, header has %d", ErrRaggedRow, i, len(r), len(cols))
		}
	}
	return &Table{cols: cols, index: index, rows: rows}, nil
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int { return len(t.rows) }

// Columns returns the header names in file order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.cols))
	copy(out, t.cols)
	return out
}

// Has reports whether the table carries the named column.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns a copy of the named column's raw values.
func (t *Table) Column(name string) ([]string, error) {
	j, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	out := make([]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[j]
	}
	return out, nil
}

// Float parses the named column as float64. Any unparseable cell is an
// error; callers that tolerate bad cells clean the column first.
func (t *Table) Float(name string) ([]float64, error) {
	raw, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(raw))
	for i, s := range raw {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("cohort: column %q row %d: parse %q: %w", name, i, s, err)
		}
		out[i] = v
	}
	return out, nil
}

// Cell returns the raw value at (row, column).
func (t *Table) Cell(row int, name string) (string, error) {
	j, ok := t.index[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	return t.rows[row][j], nil
}

// Select returns a new Table keeping only the given rows, in the given
// order. Indices must be valid for the receiver.
func (t *Table) Select(rows []int) *Table {
	out := make([][]string, len(rows))
	for i, ri := range rows {
		out[i] = t.rows[ri]
	}
	nt, _ := New(t.cols, out)
	return nt
}

// WithColumn returns a new Table with an extra column appended. The
// receiver is left untouched. Replacing an existing column is not
// supported; pick a fresh name.
func (t *Table) WithColumn(name string, values []string) (*Table, error) {
	if t.Has(name) {
		return nil, fmt.Errorf("cohort: column %q already present", name)
	}
	if len(values) != len(t.rows) {
		return nil, fmt.Errorf("cohort: column %q has %d values, table has %d rows", name, len(values), len(t.rows))
	}
	cols := append(append([]string(nil), t.cols...), name)
	rows := make([][]string, len(t.rows))
	for i, r := range t.rows {
		rows[i] = append(append([]string(nil), r...), values[i])
	}
	return New(cols, rows)
}

// ReplaceColumn returns a new Table with the named column's values
// swapped out.
func (t *Table) ReplaceColumn(name string, values []string) (*Table, error) {
	j, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	if len(values) != len(t.rows) {
		return nil, fmt.Errorf("cohort: column %q has %d values, table has %d rows", name, len(values), len(t.rows))
	}
	rows := make([][]string, len(t.rows))
	for i, r := range t.rows {
		nr := append([]string(nil), r...)
		nr[j] = values[i]
		rows[i] = nr
	}
	return New(t.cols, rows)
}
