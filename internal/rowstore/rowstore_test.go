package rowstore

import (
	"testing"

	"github.com/furball-odbc/furball/internal/types"
)

func strp(s string) *string { return &s }

func TestNewStorePositionedBeforeFirstRow(t *testing.T) {
	s := NewStore()
	if s.HasColumns() {
		t.Fatalf("expected a fresh store to have no columns")
	}
	if _, ok := s.CurrentRow(); ok {
		t.Fatalf("expected no current row before the first Next")
	}
}

func TestSetColumnsOnlyEffectiveOnce(t *testing.T) {
	s := NewStore()
	first := []types.ColumnDesc{{Name: "a", SQLType: types.SQLInteger}}
	second := []types.ColumnDesc{{Name: "b", SQLType: types.SQLVarchar}}
	s.SetColumns(first)
	s.SetColumns(second)
	if s.NumCols() != 1 || s.Columns[0].Name != "a" {
		t.Fatalf("expected the second SetColumns to be ignored, got %+v", s.Columns)
	}
}

func TestAppendRowAndFetchCursor(t *testing.T) {
	s := NewStore()
	s.SetColumns([]types.ColumnDesc{{Name: "a"}, {Name: "b"}})
	s.AppendRow([]*string{strp("1"), nil})
	s.AppendRow([]*string{strp("2"), strp("two")})

	if !s.Next() {
		t.Fatalf("expected a first row to be available")
	}
	row, ok := s.CurrentRow()
	if !ok || row != 0 {
		t.Fatalf("expected cursor at row 0, got %d (ok=%v)", row, ok)
	}
	cell, ok := s.Cell(1)
	if !ok || cell == nil || *cell != "1" {
		t.Fatalf("unexpected cell 1: %v (ok=%v)", cell, ok)
	}
	if cell, ok := s.Cell(2); !ok || cell != nil {
		t.Fatalf("expected a nil cell for NULL, got %v (ok=%v)", cell, ok)
	}

	if !s.Next() {
		t.Fatalf("expected a second row to be available")
	}
	if cell, ok := s.Cell(2); !ok || cell == nil || *cell != "two" {
		t.Fatalf("unexpected cell 2 on second row: %v (ok=%v)", cell, ok)
	}

	if s.Next() {
		t.Fatalf("expected SQL_NO_DATA past the last row")
	}
	if s.Next() {
		t.Fatalf("expected fetch monotonicity: further Next calls stay false")
	}
}

func TestCellWithNoCurrentRow(t *testing.T) {
	s := NewStore()
	s.SetColumns([]types.ColumnDesc{{Name: "a"}})
	s.AppendRow([]*string{strp("x")})
	if _, ok := s.Cell(1); ok {
		t.Fatalf("expected no cell before the first Next")
	}
}

func TestColumnAtOutOfRange(t *testing.T) {
	s := NewStore()
	s.SetColumns([]types.ColumnDesc{{Name: "a"}})
	if _, ok := s.ColumnAt(0); ok {
		t.Fatalf("expected column index 0 to be out of range (1-based)")
	}
	if _, ok := s.ColumnAt(2); ok {
		t.Fatalf("expected column index 2 to be out of range")
	}
	if _, ok := s.ColumnAt(1); !ok {
		t.Fatalf("expected column index 1 to be valid")
	}
}

func TestResetClearsEverything(t *testing.T) {
	s := NewStore()
	s.SetColumns([]types.ColumnDesc{{Name: "a"}})
	s.AppendRow([]*string{strp("x")})
	s.Next()
	s.Reset()
	if s.HasColumns() || s.NumCols() != 0 {
		t.Fatalf("expected Reset to clear columns")
	}
	if _, ok := s.CurrentRow(); ok {
		t.Fatalf("expected Reset to clear the cursor")
	}
}
