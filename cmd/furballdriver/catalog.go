// catalog.go implements the metadata-query exports — SQLTables(W),
// SQLColumns(W), SQLPrimaryKeys, SQLStatistics, SQLForeignKeys,
// SQLSpecialColumns, SQLGetTypeInfo, SQLProcedures(W) — each just
// parses its narrow/wide string arguments and hands off to
// internal/catalog, which builds the sys.* query and runs it through
// the ordinary Statement path.
package main

/*
#include "odbc_abi.h"
*/
import "C"

import (
	"context"

	"github.com/furball-odbc/furball/internal/catalog"
)

//export SQLTables
func SQLTables(statementHandle C.SQLHSTMT,
	catalogName *C.SQLCHAR, nameLength1 C.SQLSMALLINT,
	schemaName *C.SQLCHAR, nameLength2 C.SQLSMALLINT,
	tableName *C.SQLCHAR, nameLength3 C.SQLSMALLINT,
	tableType *C.SQLCHAR, nameLength4 C.SQLSMALLINT) C.SQLRETURN {

	s, ok := registry.Stmt(uintptr(statementHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	schema := goString(schemaName, nameLength2)
	table := goString(tableName, nameLength3)
	typ := goString(tableType, nameLength4)
	if err := catalog.Tables(context.Background(), s.Statement, schema, table, typ); err != nil {
		return C.SQL_ERROR
	}
	return C.SQL_SUCCESS
}

//export SQLTablesW
func SQLTablesW(statementHandle C.SQLHSTMT,
	catalogName *C.SQLWCHAR, nameLength1 C.SQLSMALLINT,
	schemaName *C.SQLWCHAR, nameLength2 C.SQLSMALLINT,
	tableName *C.SQLWCHAR, nameLength3 C.SQLSMALLINT,
	tableType *C.SQLWCHAR, nameLength4 C.SQLSMALLINT) C.SQLRETURN {

	s, ok := registry.Stmt(uintptr(statementHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	schema := goStringW(schemaName, nameLength2)
	table := goStringW(tableName, nameLength3)
	typ := goStringW(tableType, nameLength4)
	if err := catalog.Tables(context.Background(), s.Statement, schema, table, typ); err != nil {
		return C.SQL_ERROR
	}
	return C.SQL_SUCCESS
}

//export SQLColumns
func SQLColumns(statementHandle C.SQLHSTMT,
	catalogName *C.SQLCHAR, nameLength1 C.SQLSMALLINT,
	schemaName *C.SQLCHAR, nameLength2 C.SQLSMALLINT,
	tableName *C.SQLCHAR, nameLength3 C.SQLSMALLINT,
	columnName *C.SQLCHAR, nameLength4 C.SQLSMALLINT) C.SQLRETURN {

	s, ok := registry.Stmt(uintptr(statementHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	schema := goString(schemaName, nameLength2)
	table := goString(tableName, nameLength3)
	column := goString(columnName, nameLength4)
	if err := catalog.Columns(context.Background(), s.Statement, schema, table, column); err != nil {
		return C.SQL_ERROR
	}
	return C.SQL_SUCCESS
}

//export SQLColumnsW
func SQLColumnsW(statementHandle C.SQLHSTMT,
	catalogName *C.SQLWCHAR, nameLength1 C.SQLSMALLINT,
	schemaName *C.SQLWCHAR, nameLength2 C.SQLSMALLINT,
	tableName *C.SQLWCHAR, nameLength3 C.SQLSMALLINT,
	columnName *C.SQLWCHAR, nameLength4 C.SQLSMALLINT) C.SQLRETURN {

	s, ok := registry.Stmt(uintptr(statementHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	schema := goStringW(schemaName, nameLength2)
	table := goStringW(tableName, nameLength3)
	column := goStringW(columnName, nameLength4)
	if err := catalog.Columns(context.Background(), s.Statement, schema, table, column); err != nil {
		return C.SQL_ERROR
	}
	return C.SQL_SUCCESS
}

//export SQLPrimaryKeys
func SQLPrimaryKeys(statementHandle C.SQLHSTMT,
	catalogName *C.SQLCHAR, nameLength1 C.SQLSMALLINT,
	schemaName *C.SQLCHAR, nameLength2 C.SQLSMALLINT,
	tableName *C.SQLCHAR, nameLength3 C.SQLSMALLINT) C.SQLRETURN {

	s, ok := registry.Stmt(uintptr(statementHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	schema := goString(schemaName, nameLength2)
	table := goString(tableName, nameLength3)
	if err := catalog.PrimaryKeys(context.Background(), s.Statement, schema, table); err != nil {
		return C.SQL_ERROR
	}
	return C.SQL_SUCCESS
}

//export SQLStatistics
func SQLStatistics(statementHandle C.SQLHSTMT,
	catalogName *C.SQLCHAR, nameLength1 C.SQLSMALLINT,
	schemaName *C.SQLCHAR, nameLength2 C.SQLSMALLINT,
	tableName *C.SQLCHAR, nameLength3 C.SQLSMALLINT,
	unique C.SQLUSMALLINT, reserved C.SQLUSMALLINT) C.SQLRETURN {

	s, ok := registry.Stmt(uintptr(statementHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	schema := goString(schemaName, nameLength2)
	table := goString(tableName, nameLength3)
	if err := catalog.Statistics(context.Background(), s.Statement, schema, table, unique == C.SQL_INDEX_UNIQUE); err != nil {
		return C.SQL_ERROR
	}
	return C.SQL_SUCCESS
}

//export SQLForeignKeys
func SQLForeignKeys(statementHandle C.SQLHSTMT,
	pkCatalogName *C.SQLCHAR, nameLength1 C.SQLSMALLINT,
	pkSchemaName *C.SQLCHAR, nameLength2 C.SQLSMALLINT,
	pkTableName *C.SQLCHAR, nameLength3 C.SQLSMALLINT,
	fkCatalogName *C.SQLCHAR, nameLength4 C.SQLSMALLINT,
	fkSchemaName *C.SQLCHAR, nameLength5 C.SQLSMALLINT,
	fkTableName *C.SQLCHAR, nameLength6 C.SQLSMALLINT) C.SQLRETURN {

	s, ok := registry.Stmt(uintptr(statementHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	pkSchema := goString(pkSchemaName, nameLength2)
	pkTable := goString(pkTableName, nameLength3)
	fkSchema := goString(fkSchemaName, nameLength5)
	fkTable := goString(fkTableName, nameLength6)
	if err := catalog.ForeignKeys(context.Background(), s.Statement, pkSchema, pkTable, fkSchema, fkTable); err != nil {
		return C.SQL_ERROR
	}
	return C.SQL_SUCCESS
}

//export SQLSpecialColumns
func SQLSpecialColumns(statementHandle C.SQLHSTMT, identifierType C.SQLUSMALLINT,
	catalogName *C.SQLCHAR, nameLength1 C.SQLSMALLINT,
	schemaName *C.SQLCHAR, nameLength2 C.SQLSMALLINT,
	tableName *C.SQLCHAR, nameLength3 C.SQLSMALLINT,
	scope C.SQLUSMALLINT, nullable C.SQLUSMALLINT) C.SQLRETURN {

	s, ok := registry.Stmt(uintptr(statementHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	schema := goString(schemaName, nameLength2)
	table := goString(tableName, nameLength3)
	if err := catalog.SpecialColumns(context.Background(), s.Statement, int16(identifierType), schema, table); err != nil {
		return C.SQL_ERROR
	}
	return C.SQL_SUCCESS
}

//export SQLGetTypeInfo
func SQLGetTypeInfo(statementHandle C.SQLHSTMT, dataType C.SQLSMALLINT) C.SQLRETURN {
	s, ok := registry.Stmt(uintptr(statementHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	if err := catalog.TypeInfo(context.Background(), s.Statement, int16(dataType)); err != nil {
		return C.SQL_ERROR
	}
	return C.SQL_SUCCESS
}

//export SQLProcedures
func SQLProcedures(statementHandle C.SQLHSTMT,
	catalogName *C.SQLCHAR, nameLength1 C.SQLSMALLINT,
	schemaName *C.SQLCHAR, nameLength2 C.SQLSMALLINT,
	procName *C.SQLCHAR, nameLength3 C.SQLSMALLINT) C.SQLRETURN {

	s, ok := registry.Stmt(uintptr(statementHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	if err := catalog.Procedures(context.Background(), s.Statement); err != nil {
		return C.SQL_ERROR
	}
	return C.SQL_SUCCESS
}

//export SQLProceduresW
func SQLProceduresW(statementHandle C.SQLHSTMT,
	catalogName *C.SQLWCHAR, nameLength1 C.SQLSMALLINT,
	schemaName *C.SQLWCHAR, nameLength2 C.SQLSMALLINT,
	procName *C.SQLWCHAR, nameLength3 C.SQLSMALLINT) C.SQLRETURN {

	s, ok := registry.Stmt(uintptr(statementHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	if err := catalog.Procedures(context.Background(), s.Statement); err != nil {
		return C.SQL_ERROR
	}
	return C.SQL_SUCCESS
}
