// columns.go implements the result-set metadata exports:
// SQLNumResultCols, SQLDescribeCol(W), SQLColAttribute, which read
// internal/rowstore's ColumnDesc slice rather than touching row data,
// plus SQLRowCount and SQLNumParams, which read the Statement's counts.
package main

/*
#include "odbc_abi.h"
*/
import "C"

import (
	"unsafe"

	"github.com/furball-odbc/furball/internal/diag"
)

//export SQLNumResultCols
func SQLNumResultCols(statementHandle C.SQLHSTMT, columnCountPtr *C.SQLSMALLINT) C.SQLRETURN {
	s, ok := registry.Stmt(uintptr(statementHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	if columnCountPtr != nil {
		*columnCountPtr = C.SQLSMALLINT(s.Store.NumCols())
	}
	return C.SQL_SUCCESS
}

//export SQLNumParams
func SQLNumParams(statementHandle C.SQLHSTMT, paramCountPtr *C.SQLSMALLINT) C.SQLRETURN {
	s, ok := registry.Stmt(uintptr(statementHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	if paramCountPtr != nil {
		*paramCountPtr = C.SQLSMALLINT(s.NumParams())
	}
	return C.SQL_SUCCESS
}

//export SQLRowCount
func SQLRowCount(statementHandle C.SQLHSTMT, rowCountPtr *C.SQLLEN) C.SQLRETURN {
	s, ok := registry.Stmt(uintptr(statementHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	if rowCountPtr != nil {
		*rowCountPtr = C.SQLLEN(s.RowCount)
	}
	return C.SQL_SUCCESS
}

//export SQLDescribeCol
func SQLDescribeCol(statementHandle C.SQLHSTMT, columnNumber C.SQLUSMALLINT,
	columnName *C.SQLCHAR, bufferLength C.SQLSMALLINT, nameLengthPtr *C.SQLSMALLINT,
	dataTypePtr *C.SQLSMALLINT, columnSizePtr *C.SQLULEN, decimalDigitsPtr *C.SQLSMALLINT, nullablePtr *C.SQLSMALLINT) C.SQLRETURN {

	s, ok := registry.Stmt(uintptr(statementHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	desc, ok := s.Store.ColumnAt(int(columnNumber))
	if !ok {
		s.Diagnostics.Pushf(diag.SQLStateInvalidDescIdx, 0, "invalid column number %d", columnNumber)
		return C.SQL_ERROR
	}
	putNarrow(desc.Name, columnName, bufferLength, nameLengthPtr)
	if dataTypePtr != nil {
		*dataTypePtr = C.SQLSMALLINT(desc.SQLType)
	}
	if columnSizePtr != nil {
		*columnSizePtr = C.SQLULEN(desc.ColumnSize)
	}
	if decimalDigitsPtr != nil {
		*decimalDigitsPtr = C.SQLSMALLINT(desc.DecimalDigits)
	}
	if nullablePtr != nil {
		*nullablePtr = C.SQLSMALLINT(desc.Nullable)
	}
	return C.SQL_SUCCESS
}

//export SQLDescribeColW
func SQLDescribeColW(statementHandle C.SQLHSTMT, columnNumber C.SQLUSMALLINT,
	columnName *C.SQLWCHAR, bufferLength C.SQLSMALLINT, nameLengthPtr *C.SQLSMALLINT,
	dataTypePtr *C.SQLSMALLINT, columnSizePtr *C.SQLULEN, decimalDigitsPtr *C.SQLSMALLINT, nullablePtr *C.SQLSMALLINT) C.SQLRETURN {

	s, ok := registry.Stmt(uintptr(statementHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	desc, ok := s.Store.ColumnAt(int(columnNumber))
	if !ok {
		s.Diagnostics.Pushf(diag.SQLStateInvalidDescIdx, 0, "invalid column number %d", columnNumber)
		return C.SQL_ERROR
	}
	putWide(desc.Name, columnName, bufferLength, nameLengthPtr)
	if dataTypePtr != nil {
		*dataTypePtr = C.SQLSMALLINT(desc.SQLType)
	}
	if columnSizePtr != nil {
		*columnSizePtr = C.SQLULEN(desc.ColumnSize)
	}
	if decimalDigitsPtr != nil {
		*decimalDigitsPtr = C.SQLSMALLINT(desc.DecimalDigits)
	}
	if nullablePtr != nil {
		*nullablePtr = C.SQLSMALLINT(desc.Nullable)
	}
	return C.SQL_SUCCESS
}

//export SQLColAttribute
func SQLColAttribute(statementHandle C.SQLHSTMT, columnNumber C.SQLUSMALLINT, fieldIdentifier C.SQLSMALLINT,
	characterAttributePtr C.SQLPOINTER, bufferLength C.SQLSMALLINT, stringLengthPtr *C.SQLSMALLINT,
	numericAttributePtr *C.SQLLEN) C.SQLRETURN {

	s, ok := registry.Stmt(uintptr(statementHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	desc, ok := s.Store.ColumnAt(int(columnNumber))
	if !ok {
		s.Diagnostics.Pushf(diag.SQLStateInvalidDescIdx, 0, "invalid column number %d", columnNumber)
		return C.SQL_ERROR
	}
	switch fieldIdentifier {
	case C.SQL_DESC_NAME:
		putNarrow(desc.Name, (*C.SQLCHAR)(unsafe.Pointer(characterAttributePtr)), bufferLength, stringLengthPtr)
	case C.SQL_DESC_TYPE:
		if numericAttributePtr != nil {
			*numericAttributePtr = C.SQLLEN(desc.SQLType)
		}
	case C.SQL_DESC_LENGTH:
		if numericAttributePtr != nil {
			*numericAttributePtr = C.SQLLEN(desc.ColumnSize)
		}
	case C.SQL_DESC_OCTET_LENGTH:
		if numericAttributePtr != nil {
			*numericAttributePtr = C.SQLLEN(desc.OctetLength)
		}
	case C.SQL_DESC_PRECISION:
		if numericAttributePtr != nil {
			*numericAttributePtr = C.SQLLEN(desc.ColumnSize)
		}
	case C.SQL_DESC_SCALE:
		if numericAttributePtr != nil {
			*numericAttributePtr = C.SQLLEN(desc.DecimalDigits)
		}
	case C.SQL_DESC_NULLABLE:
		if numericAttributePtr != nil {
			*numericAttributePtr = C.SQLLEN(desc.Nullable)
		}
	case C.SQL_DESC_UNSIGNED:
		v := C.SQLLEN(0)
		if desc.Unsigned {
			v = 1
		}
		if numericAttributePtr != nil {
			*numericAttributePtr = v
		}
	default:
		return C.SQL_ERROR
	}
	return C.SQL_SUCCESS
}
