// Package conn implements the Connection entity: endpoint/credentials,
// the TDS client, autocommit and transaction state, and the diagnostic
// record list a Connection owns.
package conn

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/furball-odbc/furball/internal/async"
	"github.com/furball-odbc/furball/internal/diag"
	"github.com/furball-odbc/furball/internal/dsn"
	"github.com/furball-odbc/furball/internal/tdsclient"
)

// Connection is one logical session to one server.
type Connection struct {
	Server                 string
	Port                   string
	Database               string
	UID                    string
	TrustServerCertificate bool

	connected     bool
	autocommit    bool
	inTransaction bool
	client        *tdsclient.Client

	Diagnostics diag.List
	StmtIDs     map[uintptr]struct{} // not populated; internal/handle tracks owned Statements for cascading free

	bridge *async.Bridge
}

// New constructs an unconnected Connection with autocommit ON.
func New() *Connection {
	return &Connection{
		autocommit: true,
		StmtIDs:    make(map[uintptr]struct{}),
		bridge:     async.Get(),
	}
}

// Connected reports whether a TDS session is currently open.
func (c *Connection) Connected() bool { return c.connected }

// Autocommit reports the current autocommit flag (SQLGetConnectAttr).
func (c *Connection) Autocommit() bool { return c.autocommit }

// InTransaction reports whether an implicit transaction is open.
func (c *Connection) InTransaction() bool { return c.inTransaction }

// ConnectString opens a session from a parsed connection string.
func (c *Connection) ConnectString(ctx context.Context, p dsn.Params) error {
	return c.connect(ctx, p)
}

// ConnectDSN resolves dsnName against .odbc.ini, merges in any explicit
// UID/PWD overrides (which win over the stored DSN values), then
// connects.
func (c *Connection) ConnectDSN(ctx context.Context, dsnName string, override dsn.Params) error {
	base, err := dsn.LookupDSN(dsnName)
	if err != nil {
		c.Diagnostics.Push(diag.Record{SQLState: diag.SQLStateConnFailure, Message: err.Error()})
		return err
	}
	return c.connect(ctx, dsn.Merge(base, override))
}

func (c *Connection) connect(ctx context.Context, p dsn.Params) error {
	c.Diagnostics.Clear()
	opts := tdsclient.Options{
		Host:                   p.Server,
		Port:                   dsn.PortNumber(p),
		Database:               p.Database,
		User:                   p.UID,
		Password:               p.PWD,
		TrustServerCertificate: p.TrustServerCertificate,
	}
	client, err := async.Run(c.bridge, ctx, func() (*tdsclient.Client, error) {
		return tdsclient.Connect(ctx, opts)
	})
	if err != nil {
		c.Diagnostics.Push(diag.Record{SQLState: diag.SQLStateConnFailure, Message: fmt.Sprintf("connection failed: %v", err)})
		return err
	}
	c.client = client
	c.Server, c.Port, c.Database, c.UID = p.Server, opts.Port, p.Database, p.UID
	c.TrustServerCertificate = p.TrustServerCertificate
	c.connected = true
	return nil
}

// Disconnect drops the TDS client and clears connected, preserving
// allocated Statements as usable-but-invalid.
func (c *Connection) Disconnect(ctx context.Context) error {
	if !c.connected {
		return nil
	}
	c.Diagnostics.Clear()
	var err error
	_, err = async.Run(c.bridge, ctx, func() (struct{}, error) {
		return struct{}{}, c.client.Close()
	})
	c.client = nil
	c.connected = false
	c.inTransaction = false
	return err
}

// requireConnected returns the SQLSTATE 08003 error for operations
// attempted on a disconnected Connection.
func (c *Connection) requireConnected() error {
	if c.connected {
		return nil
	}
	err := diag.New(diag.SQLStateConnNotOpen, 0, "connection is not open")
	c.Diagnostics.Push(diag.AsRecord(err))
	return err
}

// SetAutocommit implements the autocommit policy: ON→OFF is silent (no
// command sent, the next execution begins a transaction implicitly);
// OFF→ON while in a transaction commits first.
func (c *Connection) SetAutocommit(ctx context.Context, on bool) error {
	if err := c.requireConnected(); err != nil {
		return err
	}
	c.Diagnostics.Clear()
	if on && !c.autocommit && c.inTransaction {
		if err := c.EndTransaction(ctx, true); err != nil {
			return err
		}
	}
	c.autocommit = on
	return nil
}

// EnsureTransaction begins an implicit transaction if autocommit is OFF
// and none is open yet, called right before a Statement executes.
func (c *Connection) EnsureTransaction(ctx context.Context) error {
	if c.autocommit || c.inTransaction {
		return nil
	}
	if err := c.requireConnected(); err != nil {
		return err
	}
	_, err := async.Run(c.bridge, ctx, func() (struct{}, error) {
		return struct{}{}, c.client.Begin(ctx)
	})
	if err != nil {
		c.Diagnostics.Push(diag.AsRecord(diag.Wrap(diag.SQLStateConnLinkFailure, 0, err)))
		return err
	}
	c.inTransaction = true
	return nil
}

// EndTransaction commits or rolls back via the TDS client and clears
// in-transaction.
func (c *Connection) EndTransaction(ctx context.Context, commit bool) error {
	if err := c.requireConnected(); err != nil {
		return err
	}
	c.Diagnostics.Clear()
	_, err := async.Run(c.bridge, ctx, func() (struct{}, error) {
		if commit {
			return struct{}{}, c.client.Commit()
		}
		return struct{}{}, c.client.Rollback()
	})
	c.inTransaction = false
	if err != nil {
		c.Diagnostics.Push(diag.AsRecord(diag.Wrap(diag.SQLStateConnLinkFailure, 0, err)))
		return err
	}
	return nil
}

// Query runs sqltext through the async bridge and returns the rows.
func (c *Connection) Query(ctx context.Context, sqltext string) (*sql.Rows, error) {
	if err := c.requireConnected(); err != nil {
		return nil, err
	}
	if err := c.EnsureTransaction(ctx); err != nil {
		return nil, err
	}
	rows, err := async.Run(c.bridge, ctx, func() (*sql.Rows, error) {
		return c.client.QueryTx(ctx, sqltext)
	})
	if err != nil {
		c.Diagnostics.Push(diag.AsRecord(classifyServerError(err)))
		return nil, err
	}
	return rows, nil
}

// Exec runs sqltext through the async bridge and returns rows affected.
func (c *Connection) Exec(ctx context.Context, sqltext string) (int64, error) {
	if err := c.requireConnected(); err != nil {
		return 0, err
	}
	if err := c.EnsureTransaction(ctx); err != nil {
		return 0, err
	}
	n, err := async.Run(c.bridge, ctx, func() (int64, error) {
		return c.client.ExecTx(ctx, sqltext)
	})
	if err != nil {
		c.Diagnostics.Push(diag.AsRecord(classifyServerError(err)))
		return 0, err
	}
	return n, nil
}

// classifyServerError keeps the SQLSTATE of an error that already is a
// *diag.Err and reports every other error as the general driver error
// class (HY000); server error numbers are not mapped to more specific
// SQLSTATE families.
func classifyServerError(err error) *diag.Err {
	if e, ok := err.(*diag.Err); ok {
		return e
	}
	return diag.Wrap(diag.SQLStateGeneralError, 0, err)
}
