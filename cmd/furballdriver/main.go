// Command furballdriver is the loadable ODBC driver shared library:
// package main, built with `go build -buildmode=c-shared`, exporting
// the standard ODBC C entry points a driver manager (unixODBC / iODBC /
// Windows DM) dispatches into by name. Each exported function is a thin
// cgo shim over the handle/conn/stmt component stack in internal/,
// presenting a synchronous API façade over the asynchronous TDS client
// underneath.
//
// Build as a shared library:
//
//	go build -buildmode=c-shared -o libfurballodbc.so ./cmd/furballdriver
//
// Register with unixODBC:
//
//	[Furball]
//	Description = Furball ODBC Driver for SQL Server
//	Driver = /path/to/libfurballodbc.so
package main

/*
#include "odbc_abi.h"
*/
import "C"

import (
	"github.com/furball-odbc/furball/internal/handle"
)

// registry is the process-wide handle table: the async executor and the
// handle tables are process-global state for a loaded driver.
var registry = handle.NewRegistry()

func main() {}
