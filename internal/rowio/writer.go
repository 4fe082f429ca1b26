// Package rowio adapts the TDS client's result delivery into the row
// store: a consumer of *sql.Rows / *sql.ColumnType, since
// github.com/thda/tds already speaks database/sql and there is no need
// for a bespoke streaming callback interface on top of it.
package rowio

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/thda/tds"

	"github.com/furball-odbc/furball/internal/rowstore"
	"github.com/furball-odbc/furball/internal/types"
)

// Writer converts one *sql.Rows result set into a rowstore.Store, using
// each value's canonical textual form: every cell is stored as a
// string regardless of SQL type, reparsed into a C type only at
// GetData time.
type Writer struct{}

// NewWriter constructs a Writer. It carries no state of its own; one
// instance is reused across every statement execution.
func NewWriter() *Writer { return &Writer{} }

// Consume reads column metadata and then every row from rows into
// store, which must already be Reset. Only the first result set is
// retained: Consume never looks past the result set rows itself
// describes — a caller that wants additional result sets must
// explicitly call rows.NextResultSet, which the statement component
// does not do.
func (w *Writer) Consume(rows *sql.Rows, store *rowstore.Store) error {
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return fmt.Errorf("rowio: reading column metadata: %w", err)
	}

	cols := make([]types.ColumnDesc, len(colTypes))
	for i, ct := range colTypes {
		sqlType := types.TDSToSQL(ct.DatabaseTypeName())
		desc := types.ColumnDesc{
			Name:    ct.Name(),
			SQLType: sqlType,
		}
		if length, ok := ct.Length(); ok {
			desc.ColumnSize = uint64(length)
			desc.OctetLength = length
		} else {
			desc.ColumnSize = types.DefaultColumnSize(sqlType)
		}
		if prec, scale, ok := ct.DecimalSize(); ok {
			desc.ColumnSize = uint64(prec)
			desc.DecimalDigits = int16(scale)
		}
		if nullable, ok := ct.Nullable(); ok {
			if nullable {
				desc.Nullable = types.Nullable
			} else {
				desc.Nullable = types.NoNulls
			}
		} else {
			desc.Nullable = types.NullableUnknown
		}
		cols[i] = desc
	}
	store.SetColumns(cols)

	dest := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range dest {
		ptrs[i] = &dest[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("rowio: scanning row: %w", err)
		}
		cells := make([]*string, len(cols))
		for i, v := range dest {
			cells[i] = canonicalize(v, cols[i])
		}
		store.AppendRow(cells)
	}
	return rows.Err()
}

// canonicalize converts one scanned driver value to its canonical
// textual form, or nil for SQL NULL.
func canonicalize(v any, desc types.ColumnDesc) *string {
	if v == nil {
		return nil
	}
	var s string
	switch t := v.(type) {
	case bool:
		if t {
			s = "1"
		} else {
			s = "0"
		}
	case int64:
		s = strconv.FormatInt(t, 10)
	case float64:
		s = strconv.FormatFloat(t, 'g', -1, 64)
	case string:
		s = t
	case []byte:
		if desc.SQLType == types.SQLGUID && len(t) == 16 {
			var b [16]byte
			copy(b[:], t)
			s = types.GUIDString(b)
		} else if isBinarySQLType(desc.SQLType) {
			s = hex.EncodeToString(t)
		} else {
			s = string(t)
		}
	case time.Time:
		s = formatTemporal(t, desc.SQLType)
	case tds.Num:
		r := t.Rat()
		s = types.DecimalToString(&r, int(desc.DecimalDigits))
	case *big.Rat:
		s = types.DecimalToString(t, int(desc.DecimalDigits))
	case fmt.Stringer:
		s = t.String()
	default:
		s = fmt.Sprintf("%v", t)
	}
	return &s
}

func isBinarySQLType(t int16) bool {
	switch t {
	case types.SQLBinary, types.SQLVarbinary, types.SQLLongVarbinary, types.SQLGUID:
		return true
	default:
		return false
	}
}

// formatTemporal renders a time.Time in the "YYYY-MM-DD[ HH:MM:SS[.fff]]"
// canonical shape GetData parses back out of, choosing the date-only or
// time-only projection when the column's SQL type calls for it.
func formatTemporal(t time.Time, sqlType int16) string {
	switch sqlType {
	case types.SQLTypeDate:
		return t.Format("2006-01-02")
	case types.SQLTypeTime:
		return t.Format("15:04:05")
	default:
		if t.Nanosecond() == 0 {
			return t.Format("2006-01-02 15:04:05")
		}
		return t.Format("2006-01-02 15:04:05.000")
	}
}
