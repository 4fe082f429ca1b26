// Package furball re-exports the handle-layer types that back the cgo
// ODBC surface in cmd/furballdriver, the way tinysql.go re-exports
// internal/engine and internal/storage types for Go-side embedding and
// testing. Application code talking ODBC never imports this package
// directly — it goes through a driver manager and the C ABI in
// cmd/furballdriver — but Go tests and tooling that want to drive the
// handle hierarchy without cgo can import furball instead of reaching
// into internal/.
package furball

import (
	"github.com/furball-odbc/furball/internal/conn"
	"github.com/furball-odbc/furball/internal/handle"
	"github.com/furball-odbc/furball/internal/stmt"
)

// Registry owns every allocated Environment, Connection, and Statement
// handle for one loaded driver instance.
type Registry = handle.Registry

// Environment, Connection, and Statement mirror the ODBC handle
// hierarchy's three allocatable levels.
type Environment = handle.Environment
type Connection = handle.Connection
type Statement = handle.Statement

// NewRegistry allocates an empty handle registry.
func NewRegistry() *Registry {
	return handle.NewRegistry()
}

// ConnState is the connection component's logical session state:
// endpoint, credentials, autocommit, and transaction bookkeeping.
type ConnState = conn.Connection

// NewConnState constructs an unconnected connection state, autocommit
// on, per the stated default.
func NewConnState() *ConnState {
	return conn.New()
}

// Stmt is the statement state machine: prepare/bind/execute/fetch.
type Stmt = stmt.Statement

// NewStmt allocates a Statement state machine under the given
// connection state, starting Idle.
func NewStmt(c *ConnState) *Stmt {
	return stmt.New(c)
}
