// alloc.go implements the handle layer's exported surface:
// SQLAllocHandle/SQLFreeHandle dispatch by handle type, plus the
// attribute getters/setters that route through it (autocommit, the
// accepted-and-ignored timeout attributes, statement query timeout).
package main

/*
#include "odbc_abi.h"
*/
import "C"

import (
	"context"
	"unsafe"

	"github.com/furball-odbc/furball/internal/handle"
)

//export SQLAllocHandle
func SQLAllocHandle(handleType C.SQLSMALLINT, inputHandle C.SQLHANDLE, outputHandlePtr *C.SQLHANDLE) C.SQLRETURN {
	switch handleType {
	case C.SQL_HANDLE_ENV:
		env := registry.AllocEnv()
		*outputHandlePtr = C.SQLHANDLE(unsafe.Pointer(env.ID))
		return C.SQL_SUCCESS

	case C.SQL_HANDLE_DBC:
		conn, err := registry.AllocConn(uintptr(inputHandle))
		if err != nil {
			return C.SQL_INVALID_HANDLE
		}
		*outputHandlePtr = C.SQLHANDLE(unsafe.Pointer(conn.ID))
		return C.SQL_SUCCESS

	case C.SQL_HANDLE_STMT:
		s, err := registry.AllocStmt(uintptr(inputHandle))
		if err != nil {
			return C.SQL_INVALID_HANDLE
		}
		*outputHandlePtr = C.SQLHANDLE(unsafe.Pointer(s.ID))
		return C.SQL_SUCCESS

	default:
		return C.SQL_ERROR
	}
}

//export SQLFreeHandle
func SQLFreeHandle(handleType C.SQLSMALLINT, h C.SQLHANDLE) C.SQLRETURN {
	id := uintptr(h)
	var err error
	switch handleType {
	case C.SQL_HANDLE_ENV:
		err = registry.FreeEnv(id)
	case C.SQL_HANDLE_DBC:
		err = registry.FreeConn(id)
	case C.SQL_HANDLE_STMT:
		err = registry.FreeStmt(id)
	default:
		return C.SQL_ERROR
	}
	if err != nil {
		return C.SQL_INVALID_HANDLE
	}
	return C.SQL_SUCCESS
}

//export SQLFreeStmt
func SQLFreeStmt(statementHandle C.SQLHSTMT, option C.SQLUSMALLINT) C.SQLRETURN {
	s, ok := registry.Stmt(uintptr(statementHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	switch option {
	case C.SQL_CLOSE, C.SQL_UNBIND:
		_ = s.Close()
	case C.SQL_RESET_PARAMS:
		s.ResetParams()
	case C.SQL_DROP:
		_ = s.Close()
		_ = registry.FreeStmt(s.ID)
	}
	return C.SQL_SUCCESS
}

//export SQLSetEnvAttr
func SQLSetEnvAttr(environmentHandle C.SQLHENV, attribute C.SQLINTEGER, valuePtr C.SQLPOINTER, stringLength C.SQLINTEGER) C.SQLRETURN {
	env, ok := registry.Env(uintptr(environmentHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	if attribute == C.SQL_ATTR_ODBC_VERSION {
		env.Version = int(uintptr(valuePtr))
	}
	return C.SQL_SUCCESS
}

//export SQLSetConnectAttr
func SQLSetConnectAttr(connectionHandle C.SQLHDBC, attribute C.SQLINTEGER, valuePtr C.SQLPOINTER, stringLength C.SQLINTEGER) C.SQLRETURN {
	c, ok := registry.Conn(uintptr(connectionHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	switch attribute {
	case C.SQL_ATTR_AUTOCOMMIT:
		on := uintptr(valuePtr) != C.SQL_AUTOCOMMIT_OFF
		if err := c.SetAutocommit(context.Background(), on); err != nil {
			return C.SQL_ERROR
		}
		return C.SQL_SUCCESS
	case C.SQL_ATTR_LOGIN_TIMEOUT, C.SQL_ATTR_CONNECTION_TIMEOUT:
		// Accepted and ignored, no diagnostic pushed — there is no
		// driver-level deadline.
		return C.SQL_SUCCESS
	default:
		// Unknown attributes are no-op successes too.
		return C.SQL_SUCCESS
	}
}

// SQLGetConnectAttr exposes autocommit identically for narrow and wide
// callers: there is only one implementation here and both ABI variants
// call it.
//
//export SQLGetConnectAttr
func SQLGetConnectAttr(connectionHandle C.SQLHDBC, attribute C.SQLINTEGER, valuePtr C.SQLPOINTER, bufferLength C.SQLINTEGER, stringLengthPtr *C.SQLINTEGER) C.SQLRETURN {
	c, ok := registry.Conn(uintptr(connectionHandle))
	if !ok {
		return C.SQL_INVALID_HANDLE
	}
	switch attribute {
	case C.SQL_ATTR_AUTOCOMMIT:
		v := C.SQL_AUTOCOMMIT_OFF
		if c.Autocommit() {
			v = C.SQL_AUTOCOMMIT_ON
		}
		if valuePtr != nil {
			*(*C.SQLUINTEGER)(valuePtr) = C.SQLUINTEGER(v)
		}
		return C.SQL_SUCCESS
	case C.SQL_ATTR_LOGIN_TIMEOUT, C.SQL_ATTR_CONNECTION_TIMEOUT:
		if valuePtr != nil {
			*(*C.SQLUINTEGER)(valuePtr) = 0
		}
		return C.SQL_SUCCESS
	default:
		return C.SQL_ERROR
	}
}

// SQLGetConnectAttrW is the wide entry point; every attribute answered
// here is numeric, so it shares SQLGetConnectAttr's body.
//
//export SQLGetConnectAttrW
func SQLGetConnectAttrW(connectionHandle C.SQLHDBC, attribute C.SQLINTEGER, valuePtr C.SQLPOINTER, bufferLength C.SQLINTEGER, stringLengthPtr *C.SQLINTEGER) C.SQLRETURN {
	return SQLGetConnectAttr(connectionHandle, attribute, valuePtr, bufferLength, stringLengthPtr)
}

//export SQLSetStmtAttr
func SQLSetStmtAttr(statementHandle C.SQLHSTMT, attribute C.SQLINTEGER, valuePtr C.SQLPOINTER, stringLength C.SQLINTEGER) C.SQLRETURN {
	if _, ok := registry.Stmt(uintptr(statementHandle)); !ok {
		return C.SQL_INVALID_HANDLE
	}
	// SQL_ATTR_QUERY_TIMEOUT and any other statement attribute: accepted
	// and ignored, since there are no driver-level deadlines.
	return C.SQL_SUCCESS
}

//export SQLCancel
func SQLCancel(h C.SQLHANDLE) C.SQLRETURN {
	// Cancel is accepted and succeeds without effect. No lookup is even
	// required beyond confirming the handle exists.
	id := uintptr(h)
	if _, ok := registry.Stmt(id); ok {
		return C.SQL_SUCCESS
	}
	if _, ok := registry.Conn(id); ok {
		return C.SQL_SUCCESS
	}
	return C.SQL_INVALID_HANDLE
}
