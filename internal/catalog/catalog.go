// Package catalog implements the ODBC catalog functions: mechanical
// translation of metadata requests into SQL against sys.* system views,
// executed through the ordinary Statement path so the result is a
// standard fetchable result set. DATA_TYPE reports ODBC type codes (via
// dataTypeCase, a CASE expression over sys.types names) rather than the
// server's internal type id, and ForeignKeys derives
// UPDATE_RULE/DELETE_RULE from sys.foreign_keys metadata instead of
// hard-coding them.
package catalog

import (
	"context"
	"strconv"
	"strings"

	"github.com/furball-odbc/furball/internal/stmt"
	"github.com/furball-odbc/furball/internal/types"
)

// escape doubles embedded single quotes for safe inclusion inside an
// N'...' literal, the same escaping literalForm uses for string
// parameters (internal/stmt/substitute.go).
func escape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// likeClause renders one LIKE condition, or "1=1" when pattern is empty:
// an empty pattern argument matches all rows.
func likeClause(column, pattern string) string {
	if pattern == "" {
		return "1=1"
	}
	return column + " LIKE N'" + escape(pattern) + "'"
}

// dataTypeCase is the CASE expression every catalog query uses to
// report ODBC SQL type codes instead of sys.types' internal ids.
const dataTypeCase = `CASE tp.name ` +
	`WHEN 'int' THEN 4 WHEN 'smallint' THEN 5 WHEN 'tinyint' THEN -6 ` +
	`WHEN 'bigint' THEN -5 WHEN 'float' THEN 8 WHEN 'real' THEN 7 ` +
	`WHEN 'bit' THEN -7 WHEN 'datetime' THEN 93 WHEN 'datetime2' THEN 93 ` +
	`WHEN 'smalldatetime' THEN 93 WHEN 'date' THEN 91 WHEN 'time' THEN 92 ` +
	`WHEN 'varchar' THEN 12 WHEN 'nvarchar' THEN -9 ` +
	`WHEN 'char' THEN 1 WHEN 'nchar' THEN -8 ` +
	`WHEN 'text' THEN -1 WHEN 'ntext' THEN -10 ` +
	`WHEN 'binary' THEN -2 WHEN 'varbinary' THEN -3 WHEN 'image' THEN -4 ` +
	`WHEN 'decimal' THEN 3 WHEN 'numeric' THEN 2 ` +
	`WHEN 'money' THEN 3 WHEN 'smallmoney' THEN 3 ` +
	`WHEN 'uniqueidentifier' THEN -11 ` +
	`WHEN 'xml' THEN -10 ` +
	`ELSE 12 END`

// run executes sql through s's normal ExecDirect path, so catalog
// results are ordinary fetchable statements with no special-casing
// anywhere else in the driver.
func run(ctx context.Context, s *stmt.Statement, sql string) error {
	return s.ExecDirect(ctx, sql)
}

// Tables implements SQLTables: schema/table pattern filters and a
// table-type list against sys.objects joined to sys.schemas. There is
// no catalog filter; every row reports the current database.
func Tables(ctx context.Context, s *stmt.Statement, schema, table, tableType string) error {
	conditions := []string{likeClause("s.name", schema), likeClause("o.name", table)}
	conditions = append(conditions, "o.type IN ('U','V','S')")
	if tableType != "" {
		var kinds []string
		for _, t := range strings.Split(tableType, ",") {
			switch strings.ToUpper(strings.TrimSpace(t)) {
			case "TABLE":
				kinds = append(kinds, "'U'")
			case "VIEW":
				kinds = append(kinds, "'V'")
			case "SYSTEM TABLE":
				kinds = append(kinds, "'S'")
			}
		}
		if len(kinds) > 0 {
			conditions = append(conditions, "o.type IN ("+strings.Join(kinds, ",")+")")
		}
	}
	sql := "SELECT DB_NAME() AS TABLE_CAT, s.name AS TABLE_SCHEM, o.name AS TABLE_NAME, " +
		"CASE o.type WHEN 'U' THEN 'TABLE' WHEN 'V' THEN 'VIEW' WHEN 'S' THEN 'SYSTEM TABLE' ELSE 'TABLE' END AS TABLE_TYPE, " +
		"CAST(NULL AS NVARCHAR(1)) AS REMARKS " +
		"FROM sys.objects o JOIN sys.schemas s ON o.schema_id = s.schema_id " +
		"WHERE " + strings.Join(conditions, " AND ") + " " +
		"ORDER BY TABLE_TYPE, TABLE_SCHEM, TABLE_NAME"
	return run(ctx, s, sql)
}

// Columns implements SQLColumns: one row per column of every table
// matching the schema/table/column patterns.
func Columns(ctx context.Context, s *stmt.Statement, schema, table, column string) error {
	conditions := []string{
		likeClause("s.name", schema),
		likeClause("o.name", table),
		likeClause("c.name", column),
	}
	sql := "SELECT DB_NAME() AS TABLE_CAT, s.name AS TABLE_SCHEM, o.name AS TABLE_NAME, " +
		"c.name AS COLUMN_NAME, " +
		dataTypeCase + " AS DATA_TYPE, " +
		"tp.name AS TYPE_NAME, " +
		"COALESCE(c.max_length, 0) AS COLUMN_SIZE, " +
		"COALESCE(c.max_length, 0) AS BUFFER_LENGTH, " +
		"c.scale AS DECIMAL_DIGITS, " +
		"10 AS NUM_PREC_RADIX, " +
		"CASE c.is_nullable WHEN 1 THEN 1 ELSE 0 END AS NULLABLE, " +
		"CAST(NULL AS NVARCHAR(1)) AS REMARKS, " +
		"c.column_id AS ORDINAL_POSITION " +
		"FROM sys.all_columns c " +
		"JOIN sys.all_objects o ON c.object_id = o.object_id " +
		"JOIN sys.schemas s ON o.schema_id = s.schema_id " +
		"JOIN sys.types tp ON c.system_type_id = tp.system_type_id AND tp.system_type_id = tp.user_type_id " +
		"WHERE " + strings.Join(conditions, " AND ") + " " +
		"ORDER BY TABLE_SCHEM, TABLE_NAME, ORDINAL_POSITION"
	return run(ctx, s, sql)
}

// PrimaryKeys implements SQLPrimaryKeys.
func PrimaryKeys(ctx context.Context, s *stmt.Statement, schema, table string) error {
	conditions := []string{"i.is_primary_key = 1"}
	if table != "" {
		conditions = append(conditions, "t.name = N'"+escape(table)+"'")
	}
	if schema != "" {
		conditions = append(conditions, "sc.name = N'"+escape(schema)+"'")
	}
	sql := "SELECT DB_NAME() AS TABLE_CAT, sc.name AS TABLE_SCHEM, t.name AS TABLE_NAME, " +
		"c.name AS COLUMN_NAME, ic.key_ordinal AS KEY_SEQ, i.name AS PK_NAME " +
		"FROM sys.indexes i " +
		"JOIN sys.index_columns ic ON i.object_id = ic.object_id AND i.index_id = ic.index_id " +
		"JOIN sys.columns c ON ic.object_id = c.object_id AND ic.column_id = c.column_id " +
		"JOIN sys.tables t ON i.object_id = t.object_id " +
		"JOIN sys.schemas sc ON t.schema_id = sc.schema_id " +
		"WHERE " + strings.Join(conditions, " AND ") + " " +
		"ORDER BY TABLE_SCHEM, TABLE_NAME, KEY_SEQ"
	return run(ctx, s, sql)
}

// Statistics implements SQLStatistics. uniqueOnly is true for the
// SQL_INDEX_UNIQUE (0) form of the SQLUSMALLINT argument and false for
// SQL_INDEX_ALL (1).
func Statistics(ctx context.Context, s *stmt.Statement, schema, table string, uniqueOnly bool) error {
	conditions := []string{"i.type > 0"}
	if table != "" {
		conditions = append(conditions, "t.name = N'"+escape(table)+"'")
	}
	if schema != "" {
		conditions = append(conditions, "sc.name = N'"+escape(schema)+"'")
	}
	if uniqueOnly {
		conditions = append(conditions, "i.is_unique = 1")
	}
	sql := "SELECT DB_NAME() AS TABLE_CAT, sc.name AS TABLE_SCHEM, t.name AS TABLE_NAME, " +
		"CASE WHEN i.is_unique = 1 THEN 0 ELSE 1 END AS NON_UNIQUE, " +
		"DB_NAME() AS INDEX_QUALIFIER, i.name AS INDEX_NAME, " +
		"CASE WHEN i.type_desc = 'CLUSTERED' THEN 1 ELSE 3 END AS TYPE, " +
		"ic.key_ordinal AS ORDINAL_POSITION, " +
		"c.name AS COLUMN_NAME, " +
		"CASE WHEN ic.is_descending_key = 1 THEN 'D' ELSE 'A' END AS ASC_OR_DESC, " +
		"CAST(NULL AS INT) AS CARDINALITY, " +
		"CAST(NULL AS INT) AS PAGES, " +
		"CAST(NULL AS VARCHAR(1)) AS FILTER_CONDITION " +
		"FROM sys.indexes i " +
		"JOIN sys.index_columns ic ON i.object_id = ic.object_id AND i.index_id = ic.index_id " +
		"JOIN sys.columns c ON ic.object_id = c.object_id AND ic.column_id = c.column_id " +
		"JOIN sys.tables t ON i.object_id = t.object_id " +
		"JOIN sys.schemas sc ON t.schema_id = sc.schema_id " +
		"WHERE " + strings.Join(conditions, " AND ") + " " +
		"ORDER BY NON_UNIQUE, TYPE, INDEX_NAME, ORDINAL_POSITION"
	return run(ctx, s, sql)
}

// ForeignKeys implements SQLForeignKeys, deriving UPDATE_RULE and
// DELETE_RULE from
// sys.foreign_keys.update_referential_action/delete_referential_action
// rather than a hard-coded constant.
func ForeignKeys(ctx context.Context, s *stmt.Statement, pkSchema, pkTable, fkSchema, fkTable string) error {
	conditions := []string{"1=1"}
	if pkTable != "" {
		conditions = append(conditions, "pk_t.name = N'"+escape(pkTable)+"'")
	}
	if pkSchema != "" {
		conditions = append(conditions, "pk_s.name = N'"+escape(pkSchema)+"'")
	}
	if fkTable != "" {
		conditions = append(conditions, "fk_t.name = N'"+escape(fkTable)+"'")
	}
	if fkSchema != "" {
		conditions = append(conditions, "fk_s.name = N'"+escape(fkSchema)+"'")
	}
	sql := "SELECT DB_NAME() AS PKTABLE_CAT, pk_s.name AS PKTABLE_SCHEM, pk_t.name AS PKTABLE_NAME, " +
		"pk_c.name AS PKCOLUMN_NAME, " +
		"DB_NAME() AS FKTABLE_CAT, fk_s.name AS FKTABLE_SCHEM, fk_t.name AS FKTABLE_NAME, " +
		"fk_c.name AS FKCOLUMN_NAME, " +
		"fkc.constraint_column_id AS KEY_SEQ, " +
		"fk.update_referential_action AS UPDATE_RULE, " +
		"fk.delete_referential_action AS DELETE_RULE, " +
		"fk.name AS FK_NAME, " +
		"pk_i.name AS PK_NAME, " +
		"CAST(7 AS SMALLINT) AS DEFERRABILITY " +
		"FROM sys.foreign_keys fk " +
		"JOIN sys.foreign_key_columns fkc ON fk.object_id = fkc.constraint_object_id " +
		"JOIN sys.tables fk_t ON fk.parent_object_id = fk_t.object_id " +
		"JOIN sys.schemas fk_s ON fk_t.schema_id = fk_s.schema_id " +
		"JOIN sys.columns fk_c ON fkc.parent_object_id = fk_c.object_id AND fkc.parent_column_id = fk_c.column_id " +
		"JOIN sys.tables pk_t ON fk.referenced_object_id = pk_t.object_id " +
		"JOIN sys.schemas pk_s ON pk_t.schema_id = pk_s.schema_id " +
		"JOIN sys.columns pk_c ON fkc.referenced_object_id = pk_c.object_id AND fkc.referenced_column_id = pk_c.column_id " +
		"LEFT JOIN sys.indexes pk_i ON pk_t.object_id = pk_i.object_id AND pk_i.is_primary_key = 1 " +
		"WHERE " + strings.Join(conditions, " AND ") + " " +
		"ORDER BY FKTABLE_CAT, FKTABLE_SCHEM, FKTABLE_NAME, KEY_SEQ"
	return run(ctx, s, sql)
}

// SpecialColumns implements SQLSpecialColumns. idType mirrors
// SQL_BEST_ROWID (1, identity columns) / SQL_ROWVER (2, rowversion
// columns).
func SpecialColumns(ctx context.Context, s *stmt.Statement, idType int16, schema, table string) error {
	conditions := []string{"1=1"}
	if table != "" {
		conditions = append(conditions, "t.name = N'"+escape(table)+"'")
	}
	if schema != "" {
		conditions = append(conditions, "sc.name = N'"+escape(schema)+"'")
	}
	extra := "AND c.is_identity = 1"
	if idType == 2 {
		extra = "AND tp.name IN ('timestamp','rowversion')"
	}
	sql := "SELECT CAST(2 AS SMALLINT) AS SCOPE, c.name AS COLUMN_NAME, " +
		dataTypeCase + " AS DATA_TYPE, " +
		"tp.name AS TYPE_NAME, " +
		"COALESCE(c.max_length, 0) AS COLUMN_SIZE, " +
		"COALESCE(c.max_length, 0) AS BUFFER_LENGTH, " +
		"c.scale AS DECIMAL_DIGITS, " +
		"CAST(1 AS SMALLINT) AS PSEUDO_COLUMN " +
		"FROM sys.columns c " +
		"JOIN sys.tables t ON c.object_id = t.object_id " +
		"JOIN sys.schemas sc ON t.schema_id = sc.schema_id " +
		"JOIN sys.types tp ON c.system_type_id = tp.system_type_id AND tp.system_type_id = tp.user_type_id " +
		"WHERE " + strings.Join(conditions, " AND ") + " " + extra
	return run(ctx, s, sql)
}

// TypeInfo implements SQLGetTypeInfo over sys.types. sqlType ==
// SQLAllTypes returns every type; otherwise the rows are narrowed to
// those whose DATA_TYPE equals sqlType.
const SQLAllTypes = 0

func TypeInfo(ctx context.Context, s *stmt.Statement, sqlType int16) error {
	filter := ""
	if sqlType != SQLAllTypes {
		filter = "AND " + dataTypeCase + " = " + strconv.Itoa(int(sqlType))
	}
	sql := "SELECT " +
		"TYPE_NAME = tp.name, " +
		"DATA_TYPE = " + dataTypeCase + ", " +
		"COLUMN_SIZE = CASE " +
		"  WHEN tp.name = 'int' THEN 10 WHEN tp.name = 'smallint' THEN 5 " +
		"  WHEN tp.name = 'tinyint' THEN 3 WHEN tp.name = 'bigint' THEN 19 " +
		"  WHEN tp.name = 'float' THEN 53 WHEN tp.name = 'real' THEN 24 " +
		"  WHEN tp.name = 'bit' THEN 1 WHEN tp.name IN ('datetime','datetime2') THEN 23 " +
		"  WHEN tp.name = 'date' THEN 10 WHEN tp.name = 'time' THEN 16 " +
		"  WHEN tp.name = 'uniqueidentifier' THEN 36 ELSE tp.max_length END, " +
		"LITERAL_PREFIX = CASE WHEN tp.name IN ('varchar','nvarchar','char','nchar','text','ntext','datetime','date','time','uniqueidentifier') THEN '''' " +
		"  WHEN tp.name IN ('binary','varbinary','image') THEN '0x' ELSE NULL END, " +
		"LITERAL_SUFFIX = CASE WHEN tp.name IN ('varchar','nvarchar','char','nchar','text','ntext','datetime','date','time','uniqueidentifier') THEN '''' ELSE NULL END, " +
		"CREATE_PARAMS = CASE WHEN tp.name IN ('varchar','nvarchar','char','nchar','binary','varbinary') THEN 'max length' " +
		"  WHEN tp.name IN ('decimal','numeric') THEN 'precision,scale' ELSE NULL END, " +
		"NULLABLE = CAST(1 AS SMALLINT), " +
		"CASE_SENSITIVE = CAST(0 AS SMALLINT), " +
		"SEARCHABLE = CAST(3 AS SMALLINT), " +
		"UNSIGNED_ATTRIBUTE = CASE WHEN tp.name = 'tinyint' THEN CAST(1 AS SMALLINT) ELSE CAST(0 AS SMALLINT) END, " +
		"FIXED_PREC_SCALE = CASE WHEN tp.name IN ('money','smallmoney') THEN CAST(1 AS SMALLINT) ELSE CAST(0 AS SMALLINT) END, " +
		"AUTO_UNIQUE_VALUE = CAST(0 AS SMALLINT), " +
		"LOCAL_TYPE_NAME = tp.name, " +
		"MINIMUM_SCALE = CAST(0 AS SMALLINT), " +
		"MAXIMUM_SCALE = CASE WHEN tp.name IN ('decimal','numeric') THEN CAST(38 AS SMALLINT) " +
		"  WHEN tp.name IN ('datetime2','time') THEN CAST(7 AS SMALLINT) ELSE CAST(0 AS SMALLINT) END, " +
		"SQL_DATA_TYPE = CAST(0 AS SMALLINT), " +
		"SQL_DATETIME_SUB = CAST(NULL AS SMALLINT), " +
		"NUM_PREC_RADIX = CASE WHEN tp.name IN ('int','smallint','tinyint','bigint','decimal','numeric','money','smallmoney') THEN 10 " +
		"  WHEN tp.name IN ('float','real') THEN 2 ELSE NULL END, " +
		"INTERVAL_PRECISION = CAST(NULL AS SMALLINT) " +
		"FROM sys.types tp WHERE tp.system_type_id = tp.user_type_id " + filter +
		" ORDER BY DATA_TYPE"
	return run(ctx, s, sql)
}

// Procedures implements SQLProcedures: an empty result set with no
// columns at all. T-SQL's SELECT syntax always projects at least one
// (possibly unnamed, possibly NULL-typed) column, so no query text can
// produce a genuinely columnless result; the statement's result set is
// set directly instead of being queried for.
func Procedures(ctx context.Context, s *stmt.Statement) error {
	s.Diagnostics.Clear()
	s.SQL = ""
	s.Params = nil
	s.Store.Reset()
	s.Store.SetColumns([]types.ColumnDesc{})
	s.RowCount = -1
	s.State = stmt.Executed
	return nil
}
