// connect.go implements the connection-lifecycle exports: SQLConnect,
// SQLDriverConnect (+ wide variant), SQLDisconnect, SQLEndTran.
// SQLDriverConnect parses the connection string with internal/dsn's
// Key=Value;... grammar and, on success, copies the caller's input
// string back unchanged; no normalized form is built.
package main

/*
#include "odbc_abi.h"
*/
import "C"

import (
	"context"

	"github.com/furball-odbc/furball/internal/diag"
	"github.com/furball-odbc/furball/internal/dsn"
)

//export SQLConnect
func SQLConnect(connectionHandle C.SQLHDBC,
	serverName *C.SQLCHAR, nameLength1 C.SQLSMALLINT,
	userName *C.SQLCHAR, nameLength2 C.SQLSMALLINT,
	authentication *C.SQLCHAR, nameLength3 C.SQLSMALLINT) C.SQLRETURN {

	c, ok := registry.Conn(uintptr(connectionHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	p := dsn.Params{
		Server: goString(serverName, nameLength1),
		UID:    goString(userName, nameLength2),
		PWD:    goString(authentication, nameLength3),
	}
	if err := c.ConnectString(context.Background(), p); err != nil {
		return C.SQL_ERROR
	}
	return C.SQL_SUCCESS
}

// driverConnect is the shared implementation behind both the narrow and
// wide SQLDriverConnect exports: parse the connection string, connect,
// and return the input string as the form to copy back.
func driverConnect(connID uintptr, connStr string) (canonical string, ret C.SQLRETURN) {
	c, ok := registry.Conn(connID)
	if !ok {
		return "", C.SQL_INVALID_HANDLE
	}
	p, err := dsn.ParseConnectionString(connStr)
	if err != nil {
		c.Diagnostics.Push(diag.AsRecord(diag.Wrap(diag.SQLStateSyntaxError, 0, err)))
		return "", C.SQL_ERROR
	}
	if err := c.ConnectString(context.Background(), p); err != nil {
		return "", C.SQL_ERROR
	}
	return connStr, C.SQL_SUCCESS
}

//export SQLDriverConnect
func SQLDriverConnect(connectionHandle C.SQLHDBC, windowHandle C.SQLPOINTER,
	inConnectionString *C.SQLCHAR, stringLength1 C.SQLSMALLINT,
	outConnectionString *C.SQLCHAR, bufferLength C.SQLSMALLINT, stringLength2Ptr *C.SQLSMALLINT,
	driverCompletion C.SQLUSMALLINT) C.SQLRETURN {

	in := goString(inConnectionString, stringLength1)
	canonical, ret := driverConnect(uintptr(connectionHandle), in)
	if ret != C.SQL_SUCCESS {
		return ret
	}
	putNarrow(canonical, outConnectionString, bufferLength, stringLength2Ptr)
	return C.SQL_SUCCESS
}

//export SQLDriverConnectW
func SQLDriverConnectW(connectionHandle C.SQLHDBC, windowHandle C.SQLPOINTER,
	inConnectionString *C.SQLWCHAR, stringLength1 C.SQLSMALLINT,
	outConnectionString *C.SQLWCHAR, bufferLength C.SQLSMALLINT, stringLength2Ptr *C.SQLSMALLINT,
	driverCompletion C.SQLUSMALLINT) C.SQLRETURN {

	in := goStringW(inConnectionString, stringLength1)
	canonical, ret := driverConnect(uintptr(connectionHandle), in)
	if ret != C.SQL_SUCCESS {
		return ret
	}
	putWide(canonical, outConnectionString, bufferLength, stringLength2Ptr)
	return C.SQL_SUCCESS
}

//export SQLDisconnect
func SQLDisconnect(connectionHandle C.SQLHDBC) C.SQLRETURN {
	c, ok := registry.Conn(uintptr(connectionHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	if err := c.Disconnect(context.Background()); err != nil {
		return C.SQL_ERROR
	}
	return C.SQL_SUCCESS
}

//export SQLEndTran
func SQLEndTran(handleType C.SQLSMALLINT, h C.SQLHANDLE, completionType C.SQLSMALLINT) C.SQLRETURN {
	var connID uintptr
	switch handleType {
	case C.SQL_HANDLE_DBC:
		connID = uintptr(h)
	case C.SQL_HANDLE_ENV:
		// Environment-level SQLEndTran ends every owned Connection's
		// transaction, walking the registry's own parent/child tracking
		// rather than duplicating it here.
		env, ok := registry.Env(uintptr(h))
		if !ok {
			return C.SQL_INVALID_HANDLE
		}
		ret := C.SQLRETURN(C.SQL_SUCCESS)
		for _, cid := range env.ConnIDs() {
			if r := endTranOne(cid, completionType); r != C.SQL_SUCCESS {
				ret = r
			}
		}
		return ret
	default:
		return C.SQL_ERROR
	}
	return endTranOne(connID, completionType)
}

func endTranOne(connID uintptr, completionType C.SQLSMALLINT) C.SQLRETURN {
	c, ok := registry.Conn(connID)
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	commit := completionType == C.SQL_COMMIT
	if err := c.EndTransaction(context.Background(), commit); err != nil {
		return C.SQL_ERROR
	}
	return C.SQL_SUCCESS
}
