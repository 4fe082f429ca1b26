// info.go implements SQLGetInfo(W) and SQLGetFunctions. SQLGetInfo
// delegates the info-type tables to internal/driverinfo, dispatching on
// whether the requested info type is string- or numeric-valued against
// a flat table of constants.
package main

/*
#include "odbc_abi.h"
*/
import "C"

import (
	"unsafe"

	"github.com/furball-odbc/furball/internal/driverinfo"
)

func connInfoFor(connHandle C.SQLHDBC) driverinfo.ConnInfo {
	c, ok := registry.Conn(uintptr(connHandle))
	if !ok {
		return driverinfo.ConnInfo{}
	}
	return driverinfo.ConnInfo{Server: c.Server, Database: c.Database}
}

//export SQLGetInfo
func SQLGetInfo(connectionHandle C.SQLHDBC, infoType C.SQLUSMALLINT,
	infoValuePtr C.SQLPOINTER, bufferLength C.SQLSMALLINT, stringLengthPtr *C.SQLSMALLINT) C.SQLRETURN {

	ci := connInfoFor(connectionHandle)
	if s, ok := driverinfo.StringInfo(int16(infoType), ci); ok {
		putNarrow(s, (*C.SQLCHAR)(unsafe.Pointer(infoValuePtr)), bufferLength, stringLengthPtr)
		return C.SQL_SUCCESS
	}
	if v, ok := driverinfo.IntInfo(int16(infoType)); ok {
		if infoValuePtr != nil {
			*(*C.SQLUINTEGER)(infoValuePtr) = C.SQLUINTEGER(v)
		}
		return C.SQL_SUCCESS
	}
	return C.SQL_ERROR
}

//export SQLGetInfoW
func SQLGetInfoW(connectionHandle C.SQLHDBC, infoType C.SQLUSMALLINT,
	infoValuePtr C.SQLPOINTER, bufferLength C.SQLSMALLINT, stringLengthPtr *C.SQLSMALLINT) C.SQLRETURN {

	ci := connInfoFor(connectionHandle)
	if s, ok := driverinfo.StringInfo(int16(infoType), ci); ok {
		putWide(s, (*C.SQLWCHAR)(unsafe.Pointer(infoValuePtr)), bufferLength, stringLengthPtr)
		return C.SQL_SUCCESS
	}
	if v, ok := driverinfo.IntInfo(int16(infoType)); ok {
		if infoValuePtr != nil {
			*(*C.SQLUINTEGER)(infoValuePtr) = C.SQLUINTEGER(v)
		}
		return C.SQL_SUCCESS
	}
	return C.SQL_ERROR
}

//export SQLGetFunctions
func SQLGetFunctions(connectionHandle C.SQLHDBC, functionID C.SQLUSMALLINT, supportedPtr *C.SQLUSMALLINT) C.SQLRETURN {
	// Every function id reports supported (1); the id is not checked
	// against driverinfo.FunctionNames and no per-function bitmap is
	// filled in.
	if supportedPtr != nil {
		*supportedPtr = 1
	}
	return C.SQL_SUCCESS
}
