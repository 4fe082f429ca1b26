// statement.go implements the core state-machine exports: SQLPrepare(W),
// SQLExecDirect(W), SQLExecute, SQLBindParameter, SQLParamData,
// SQLPutData, SQLFetch, SQLFetchScroll. Parameter value extraction
// (readParamValue) reads directly from the caller's bound buffer at
// bind time rather than deferring to execute time: this driver
// substitutes parameters textually rather than using true server-side
// parameterized RPC, and a single-shot Execute never needs to re-read a
// rebound buffer, so eager extraction is the simpler and sufficient
// choice.
package main

/*
#include "odbc_abi.h"
*/
import "C"

import (
	"context"
	"math"
	"time"
	"unsafe"

	"github.com/furball-odbc/furball/internal/chartype"
	"github.com/furball-odbc/furball/internal/stmt"
	"github.com/furball-odbc/furball/internal/types"
)

//export SQLPrepare
func SQLPrepare(statementHandle C.SQLHSTMT, statementText *C.SQLCHAR, textLength C.SQLINTEGER) C.SQLRETURN {
	s, ok := registry.Stmt(uintptr(statementHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	sql := goString(statementText, C.SQLSMALLINT(textLength))
	if err := s.Prepare(sql); err != nil {
		return C.SQL_ERROR
	}
	return C.SQL_SUCCESS
}

//export SQLPrepareW
func SQLPrepareW(statementHandle C.SQLHSTMT, statementText *C.SQLWCHAR, textLength C.SQLINTEGER) C.SQLRETURN {
	s, ok := registry.Stmt(uintptr(statementHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	sql := goStringW(statementText, C.SQLSMALLINT(textLength))
	if err := s.Prepare(sql); err != nil {
		return C.SQL_ERROR
	}
	return C.SQL_SUCCESS
}

func execReturn(err error) C.SQLRETURN {
	if err == nil {
		return C.SQL_SUCCESS
	}
	if err == stmt.ErrNeedData {
		return C.SQL_NEED_DATA
	}
	return C.SQL_ERROR
}

//export SQLExecDirect
func SQLExecDirect(statementHandle C.SQLHSTMT, statementText *C.SQLCHAR, textLength C.SQLINTEGER) C.SQLRETURN {
	s, ok := registry.Stmt(uintptr(statementHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	sql := goString(statementText, C.SQLSMALLINT(textLength))
	return execReturn(s.ExecDirect(context.Background(), sql))
}

//export SQLExecDirectW
func SQLExecDirectW(statementHandle C.SQLHSTMT, statementText *C.SQLWCHAR, textLength C.SQLINTEGER) C.SQLRETURN {
	s, ok := registry.Stmt(uintptr(statementHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	sql := goStringW(statementText, C.SQLSMALLINT(textLength))
	return execReturn(s.ExecDirect(context.Background(), sql))
}

//export SQLExecute
func SQLExecute(statementHandle C.SQLHSTMT) C.SQLRETURN {
	s, ok := registry.Stmt(uintptr(statementHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	return execReturn(s.Execute(context.Background()))
}

//export SQLBindParameter
func SQLBindParameter(statementHandle C.SQLHSTMT, parameterNumber C.SQLUSMALLINT,
	inputOutputType C.SQLSMALLINT, valueType C.SQLSMALLINT, parameterType C.SQLSMALLINT,
	columnSize C.SQLULEN, decimalDigits C.SQLSMALLINT,
	parameterValuePtr C.SQLPOINTER, bufferLength C.SQLLEN, strLenOrIndPtr *C.SQLLEN) C.SQLRETURN {

	s, ok := registry.Stmt(uintptr(statementHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}

	var indicator int64
	if strLenOrIndPtr != nil {
		indicator = int64(*strLenOrIndPtr)
	} else {
		indicator = int64(types.NTS)
	}

	var value any
	if indicator == int64(types.NullData) {
		value = nil
	} else if indicator == int64(types.DataAtExec) {
		// The application's buffer pointer is reinterpreted as its own
		// opaque token, returned later by SQLParamData.
		value = uintptr(parameterValuePtr)
	} else {
		value = readParamValue(int16(valueType), unsafe.Pointer(parameterValuePtr), int64(bufferLength), indicator)
	}

	err := s.BindParameter(int(parameterNumber), int16(valueType), int16(parameterType),
		uint64(columnSize), int16(decimalDigits), value, indicator)
	if err != nil {
		return C.SQL_ERROR
	}
	return C.SQL_SUCCESS
}

// readParamValue converts the bound buffer's current contents into the
// Go-native value literalForm (internal/stmt/substitute.go) expects,
// dispatching on the bound C type.
func readParamValue(cType int16, ptr unsafe.Pointer, bufferLength, indicator int64) any {
	if ptr == nil {
		return nil
	}
	switch cType {
	case types.CWChar:
		n := wideLen(ptr, indicator)
		units := make([]uint16, n)
		for i := 0; i < n; i++ {
			units[i] = *(*uint16)(unsafe.Pointer(uintptr(ptr) + uintptr(i)*2))
		}
		return string(chartype.UTF16ToUTF8(units))
	case types.CChar:
		n := narrowLen(ptr, indicator)
		return string(unsafe.Slice((*byte)(ptr), n))
	case types.CLong:
		return int64(*(*int32)(ptr))
	case types.CShort:
		return int64(*(*int16)(ptr))
	case types.CSBigint:
		return int64(*(*int64)(ptr))
	case types.CUBigint:
		return int64(*(*uint64)(ptr))
	case types.CFloat:
		bits := *(*uint32)(ptr)
		return float64(math.Float32frombits(bits))
	case types.CDouble, types.CNumeric:
		bits := *(*uint64)(ptr)
		return math.Float64frombits(bits)
	case types.CBit:
		return *(*byte)(ptr) != 0
	case types.CBinary:
		n := int(bufferLength)
		if indicator >= 0 && int64(n) > indicator {
			n = int(indicator)
		}
		raw := unsafe.Slice((*byte)(ptr), n)
		out := make([]byte, n)
		copy(out, raw)
		return out
	case types.CTypeDate:
		y := int(*(*uint16)(ptr))
		m := int(*(*uint16)(unsafe.Pointer(uintptr(ptr) + 2)))
		d := int(*(*uint16)(unsafe.Pointer(uintptr(ptr) + 4)))
		return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	case types.CTypeTime:
		h := int(*(*uint16)(ptr))
		mi := int(*(*uint16)(unsafe.Pointer(uintptr(ptr) + 2)))
		se := int(*(*uint16)(unsafe.Pointer(uintptr(ptr) + 4)))
		return time.Date(1, 1, 1, h, mi, se, 0, time.UTC)
	case types.CTypeTstamp, types.CTimestamp:
		y := int(*(*uint16)(ptr))
		m := int(*(*uint16)(unsafe.Pointer(uintptr(ptr) + 2)))
		d := int(*(*uint16)(unsafe.Pointer(uintptr(ptr) + 4)))
		h := int(*(*uint16)(unsafe.Pointer(uintptr(ptr) + 6)))
		mi := int(*(*uint16)(unsafe.Pointer(uintptr(ptr) + 8)))
		se := int(*(*uint16)(unsafe.Pointer(uintptr(ptr) + 10)))
		ns := int(*(*uint32)(unsafe.Pointer(uintptr(ptr) + 12)))
		return time.Date(y, time.Month(m), d, h, mi, se, ns, time.UTC)
	case types.CGUID:
		var b [16]byte
		copy(b[:], unsafe.Slice((*byte)(ptr), 16))
		return types.GUIDString(b)
	default:
		// Anything unrecognized is treated as narrow text.
		n := narrowLen(ptr, indicator)
		return string(unsafe.Slice((*byte)(ptr), n))
	}
}

func narrowLen(ptr unsafe.Pointer, indicator int64) int {
	if indicator >= 0 {
		return int(indicator)
	}
	n := 0
	for *(*byte)(unsafe.Pointer(uintptr(ptr) + uintptr(n))) != 0 {
		n++
	}
	return n
}

func wideLen(ptr unsafe.Pointer, indicator int64) int {
	if indicator >= 0 {
		return int(indicator) / 2
	}
	n := 0
	for *(*uint16)(unsafe.Pointer(uintptr(ptr) + uintptr(n)*2)) != 0 {
		n++
	}
	return n
}

//export SQLParamData
func SQLParamData(statementHandle C.SQLHSTMT, valuePtrPtr *C.SQLPOINTER) C.SQLRETURN {
	s, ok := registry.Stmt(uintptr(statementHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	ordinal, needData, err := s.ParamData(context.Background())
	if err != nil {
		return C.SQL_ERROR
	}
	if !needData {
		return C.SQL_SUCCESS
	}
	// The token handed back is whatever opaque pointer the application
	// supplied at bind time, stored as a uintptr in the param's Value.
	p, _ := s.Params[ordinal-1].Value.(uintptr)
	if valuePtrPtr != nil {
		*valuePtrPtr = C.SQLPOINTER(unsafe.Pointer(p))
	}
	return C.SQL_NEED_DATA
}

//export SQLPutData
func SQLPutData(statementHandle C.SQLHSTMT, dataPtr C.SQLPOINTER, strLenOrInd C.SQLLEN) C.SQLRETURN {
	s, ok := registry.Stmt(uintptr(statementHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	n := int(strLenOrInd)
	var data []byte
	if n > 0 && dataPtr != nil {
		data = make([]byte, n)
		copy(data, unsafe.Slice((*byte)(unsafe.Pointer(dataPtr)), n))
	}
	if err := s.PutData(data); err != nil {
		return C.SQL_ERROR
	}
	return C.SQL_SUCCESS
}

//export SQLFetch
func SQLFetch(statementHandle C.SQLHSTMT) C.SQLRETURN {
	s, ok := registry.Stmt(uintptr(statementHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	ok2, err := s.Fetch()
	if err != nil {
		return C.SQL_ERROR
	}
	if !ok2 {
		return C.SQL_NO_DATA
	}
	return C.SQL_SUCCESS
}

//export SQLFetchScroll
func SQLFetchScroll(statementHandle C.SQLHSTMT, fetchOrientation C.SQLSMALLINT, fetchOffset C.SQLLEN) C.SQLRETURN {
	if fetchOrientation != C.SQL_FETCH_NEXT {
		// Only forward-only cursors are supported; any other orientation
		// is an error.
		return C.SQL_ERROR
	}
	return SQLFetch(statementHandle)
}
