package types

import "testing"

func TestTDSToSQLKnownNames(t *testing.T) {
	cases := []struct {
		name string
		want int16
	}{
		{"int", SQLInteger},
		{"varchar", SQLVarchar},
		{"nvarchar", SQLWVarchar},
		{"uniqueidentifier", SQLGUID},
		{"bigint", SQLBigint},
	}
	for _, c := range cases {
		if got := TDSToSQL(c.name); got != c.want {
			t.Fatalf("TDSToSQL(%q): expected %d, got %d", c.name, c.want, got)
		}
	}
}

func TestTDSToSQLUnknownFallsBackToVarchar(t *testing.T) {
	if got := TDSToSQL("some_future_type"); got != SQLVarchar {
		t.Fatalf("expected unknown TDS type names to fall back to SQL_VARCHAR, got %d", got)
	}
}

func TestSQLToCTypeCoversEveryAllSQLType(t *testing.T) {
	// every type in AllSQLTypes must resolve to a non-zero C type code.
	for _, sqlType := range AllSQLTypes {
		cType := SQLToCType(sqlType)
		if cType == 0 {
			t.Fatalf("SQLToCType(%d) returned the zero value", sqlType)
		}
	}
}

func TestSQLToCTypeSpecificMappings(t *testing.T) {
	cases := []struct {
		sqlType int16
		want    int16
	}{
		{SQLBit, CBit},
		{SQLInteger, CLong},
		{SQLBigint, CSBigint},
		{SQLGUID, CGUID},
		{SQLTypeDate, CTypeDate},
		{SQLTypeTime, CTypeTime},
		{SQLTypeTimestamp, CTypeTstamp},
		{SQLVarbinary, CBinary},
		{SQLWVarchar, CWChar},
	}
	for _, c := range cases {
		if got := SQLToCType(c.sqlType); got != c.want {
			t.Fatalf("SQLToCType(%d): expected %d, got %d", c.sqlType, c.want, got)
		}
	}
}

func TestDefaultColumnSizeNonZeroForNumericTypes(t *testing.T) {
	for _, sqlType := range []int16{SQLBit, SQLTinyint, SQLSmallint, SQLInteger, SQLBigint, SQLGUID} {
		if DefaultColumnSize(sqlType) == 0 {
			t.Fatalf("expected a non-zero default column size for type %d", sqlType)
		}
	}
}

func TestTypeNameRoundTripsThroughAllSQLTypes(t *testing.T) {
	seen := map[string]bool{}
	for _, sqlType := range AllSQLTypes {
		name := TypeName(sqlType)
		if name == "" {
			t.Fatalf("TypeName(%d) returned empty", sqlType)
		}
		seen[name] = true
	}
	if !seen["int"] || !seen["varchar"] || !seen["uniqueidentifier"] {
		t.Fatalf("expected familiar type names among AllSQLTypes, got %v", seen)
	}
}
