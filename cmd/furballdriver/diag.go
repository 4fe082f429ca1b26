// diag.go implements SQLGetDiagRec(W) and SQLGetDiagField, reading
// records out of whichever handle's internal/diag.List the caller
// named, dispatching on handle type before indexing into that handle's
// diagnostic record slice.
package main

/*
#include "odbc_abi.h"
*/
import "C"

import (
	"github.com/furball-odbc/furball/internal/diag"
)

// diagLookupStatus distinguishes "no such handle" from "a real handle
// that just has no diagnostics of its own" (Environments).
type diagLookupStatus int

const (
	diagInvalidHandle diagLookupStatus = iota
	diagEnvHasNoRecords
	diagOK
)

// diagListFor resolves the diag.List belonging to the named handle.
// Environments carry no diagnostics of their own in this driver —
// allocation failures at the Env level are reported via the SQLRETURN
// code alone — but a live Env handle still has to be told apart from a
// bogus one, so it's validated against the registry like the other two.
func diagListFor(handleType C.SQLSMALLINT, h C.SQLHANDLE) (*diag.List, diagLookupStatus) {
	switch handleType {
	case C.SQL_HANDLE_ENV:
		if _, ok := registry.Env(uintptr(h)); !ok {
			return nil, diagInvalidHandle
		}
		return nil, diagEnvHasNoRecords
	case C.SQL_HANDLE_DBC:
		c, ok := registry.Conn(uintptr(h))
		if !ok {
			return nil, diagInvalidHandle
		}
		return &c.Diagnostics, diagOK
	case C.SQL_HANDLE_STMT:
		s, ok := registry.Stmt(uintptr(h))
		if !ok {
			return nil, diagInvalidHandle
		}
		return &s.Diagnostics, diagOK
	default:
		return nil, diagInvalidHandle
	}
}

//export SQLGetDiagRec
func SQLGetDiagRec(handleType C.SQLSMALLINT, h C.SQLHANDLE, recNumber C.SQLSMALLINT,
	sqlState *C.SQLCHAR, nativeErrorPtr *C.SQLINTEGER,
	messageText *C.SQLCHAR, bufferLength C.SQLSMALLINT, textLengthPtr *C.SQLSMALLINT) C.SQLRETURN {

	list, status := diagListFor(handleType, h)
	switch status {
	case diagInvalidHandle:
		return C.SQL_INVALID_HANDLE
	case diagEnvHasNoRecords:
		return C.SQL_NO_DATA
	}
	rec, ok := list.At(int(recNumber))
	if !ok {
		return C.SQL_NO_DATA
	}
	putNarrow(rec.SQLState, sqlState, 6, nil)
	if nativeErrorPtr != nil {
		*nativeErrorPtr = C.SQLINTEGER(rec.NativeError)
	}
	putNarrow(rec.Message, messageText, bufferLength, textLengthPtr)
	return C.SQL_SUCCESS
}

//export SQLGetDiagRecW
func SQLGetDiagRecW(handleType C.SQLSMALLINT, h C.SQLHANDLE, recNumber C.SQLSMALLINT,
	sqlState *C.SQLWCHAR, nativeErrorPtr *C.SQLINTEGER,
	messageText *C.SQLWCHAR, bufferLength C.SQLSMALLINT, textLengthPtr *C.SQLSMALLINT) C.SQLRETURN {

	list, status := diagListFor(handleType, h)
	switch status {
	case diagInvalidHandle:
		return C.SQL_INVALID_HANDLE
	case diagEnvHasNoRecords:
		return C.SQL_NO_DATA
	}
	rec, ok := list.At(int(recNumber))
	if !ok {
		return C.SQL_NO_DATA
	}
	putWide(rec.SQLState, sqlState, 6, nil)
	if nativeErrorPtr != nil {
		*nativeErrorPtr = C.SQLINTEGER(rec.NativeError)
	}
	putWide(rec.Message, messageText, bufferLength, textLengthPtr)
	return C.SQL_SUCCESS
}

//export SQLGetDiagField
func SQLGetDiagField(handleType C.SQLSMALLINT, h C.SQLHANDLE, recNumber C.SQLSMALLINT,
	diagIdentifier C.SQLSMALLINT, diagInfoPtr C.SQLPOINTER, bufferLength C.SQLSMALLINT, stringLengthPtr *C.SQLSMALLINT) C.SQLRETURN {

	list, status := diagListFor(handleType, h)
	switch status {
	case diagInvalidHandle:
		return C.SQL_INVALID_HANDLE
	case diagEnvHasNoRecords:
		return C.SQL_NO_DATA
	}
	if diagIdentifier == C.SQL_DIAG_NUMBER {
		if diagInfoPtr != nil {
			*(*C.SQLINTEGER)(diagInfoPtr) = C.SQLINTEGER(list.Len())
		}
		return C.SQL_SUCCESS
	}
	rec, ok := list.At(int(recNumber))
	if !ok {
		return C.SQL_NO_DATA
	}
	switch diagIdentifier {
	case C.SQL_DIAG_SQLSTATE:
		putNarrow(rec.SQLState, (*C.SQLCHAR)(diagInfoPtr), bufferLength, stringLengthPtr)
	case C.SQL_DIAG_NATIVE:
		if diagInfoPtr != nil {
			*(*C.SQLINTEGER)(diagInfoPtr) = C.SQLINTEGER(rec.NativeError)
		}
	case C.SQL_DIAG_MESSAGE_TEXT:
		putNarrow(rec.Message, (*C.SQLCHAR)(diagInfoPtr), bufferLength, stringLengthPtr)
	default:
		return C.SQL_ERROR
	}
	return C.SQL_SUCCESS
}
