// Package rowstore is the materialized table a Statement fetches from:
// column descriptors plus rows of optional strings, one cell per
// column, NULL represented by a nil *string rather than an empty one.
package rowstore

import "github.com/furball-odbc/furball/internal/types"

// Store holds exactly one Statement's current result set: at most one
// materialized result set per Statement, enforced by Reset always
// discarding whatever was there before.
type Store struct {
	Columns []types.ColumnDesc
	Rows    [][]*string
	cursor  int // -1 = before first row
}

// NewStore returns an empty store positioned before the first row.
func NewStore() *Store {
	return &Store{cursor: -1}
}

// Reset clears columns, rows and the cursor, as Statement.Close does.
func (s *Store) Reset() {
	s.Columns = nil
	s.Rows = nil
	s.cursor = -1
}

// SetColumns installs the column descriptors for a fresh result set.
// Only the first call after Reset has effect on a given result set:
// metadata arriving after a row-done boundary (i.e. a second result set
// in a multi-statement batch) is ignored.
func (s *Store) SetColumns(cols []types.ColumnDesc) {
	if s.Columns != nil {
		return
	}
	s.Columns = cols
}

// AppendRow adds one row of cells; len(cells) must equal len(Columns).
func (s *Store) AppendRow(cells []*string) {
	s.Rows = append(s.Rows, cells)
}

// HasColumns reports whether a result set's shape has been established,
// even if it has zero rows (distinguishing "no SELECT ran" from "SELECT
// ran, zero rows came back").
func (s *Store) HasColumns() bool {
	return s.Columns != nil
}

// NumCols reports the column count, for SQLNumResultCols.
func (s *Store) NumCols() int {
	return len(s.Columns)
}

// ColumnAt returns the 1-based column descriptor. ok is false out of
// range (SQLSTATE 07009).
func (s *Store) ColumnAt(k int) (types.ColumnDesc, bool) {
	idx := k - 1
	if idx < 0 || idx >= len(s.Columns) {
		return types.ColumnDesc{}, false
	}
	return s.Columns[idx], true
}

// Next advances the cursor to the next row. ok is false at/past the end
// (SQL_NO_DATA): once past the last row, further calls keep returning
// false.
func (s *Store) Next() bool {
	if s.cursor+1 >= len(s.Rows) {
		s.cursor = len(s.Rows) // clamp so it never "un-ends"
		return false
	}
	s.cursor++
	return true
}

// CurrentRow reports whether a row is currently positioned (false before
// the first Next, or past the last row) and the 0-based cursor value.
func (s *Store) CurrentRow() (int, bool) {
	if s.cursor < 0 || s.cursor >= len(s.Rows) {
		return s.cursor, false
	}
	return s.cursor, true
}

// Cell returns the 1-based column's cell in the current row. ok is false
// if no row is current or the index is out of range.
func (s *Store) Cell(k int) (*string, bool) {
	row, ok := s.CurrentRow()
	if !ok {
		return nil, false
	}
	idx := k - 1
	if idx < 0 || idx >= len(s.Columns) {
		return nil, false
	}
	return s.Rows[row][idx], true
}
