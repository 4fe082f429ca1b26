// getdata.go implements SQLGetData, wiring internal/getdata's
// per-C-type conversion into the caller's buffer (the column-metadata
// exports live in columns.go).
// The truncation contract copies what fits, pushes 01004, and reports
// the untruncated length via StrLen_or_IndPtr.
package main

/*
#include "odbc_abi.h"
*/
import "C"

import (
	"unsafe"

	"github.com/furball-odbc/furball/internal/diag"
	"github.com/furball-odbc/furball/internal/getdata"
	"github.com/furball-odbc/furball/internal/types"
)

//export SQLGetData
func SQLGetData(statementHandle C.SQLHSTMT, colOrParamNum C.SQLUSMALLINT, targetType C.SQLSMALLINT,
	targetValuePtr C.SQLPOINTER, bufferLength C.SQLLEN, strLenOrIndPtr *C.SQLLEN) C.SQLRETURN {

	s, ok := registry.Stmt(uintptr(statementHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	if _, atRow := s.Store.CurrentRow(); !atRow {
		s.Diagnostics.Pushf(diag.SQLStateInvalidCursorSt, 0, "no current row")
		return C.SQL_ERROR
	}
	desc, ok := s.Store.ColumnAt(int(colOrParamNum))
	if !ok {
		s.Diagnostics.Pushf(diag.SQLStateInvalidDescIdx, 0, "invalid column number %d", colOrParamNum)
		return C.SQL_ERROR
	}
	cell, _ := s.Store.Cell(int(colOrParamNum))

	result, err := getdata.Convert(cell, desc, int16(targetType), int(bufferLength))
	if err != nil {
		s.Diagnostics.Pushf("22018", 0, "%v", err)
		return C.SQL_ERROR
	}
	if strLenOrIndPtr != nil {
		*strLenOrIndPtr = C.SQLLEN(result.Indicator)
	}
	if result.IsNull {
		return C.SQL_SUCCESS
	}
	if targetValuePtr != nil && len(result.Data) > 0 {
		n := len(result.Data)
		if n > int(bufferLength) && isFixedWidthCType(int16(targetType)) {
			// Fixed-width targets never truncate; the caller supplied a
			// buffer sized for the type.
			n = int(bufferLength)
		}
		putBytes(result.Data, unsafe.Pointer(targetValuePtr), n)
	}
	if result.Truncated {
		s.Diagnostics.Pushf(diag.SQLStateStringTruncated, 0, "string data, right truncated")
		return C.SQL_SUCCESS_WITH_INFO
	}
	return C.SQL_SUCCESS
}

func isFixedWidthCType(cType int16) bool {
	switch cType {
	case types.CLong, types.CShort, types.CSBigint, types.CUBigint,
		types.CFloat, types.CDouble, types.CBit, types.CGUID,
		types.CTypeDate, types.CTypeTime, types.CTypeTstamp, types.CTimestamp:
		return true
	}
	return false
}
