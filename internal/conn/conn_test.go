package conn

import (
	"context"
	"errors"
	"testing"

	"github.com/furball-odbc/furball/internal/diag"
)

func TestNewDefaultsAutocommitOnAndDisconnected(t *testing.T) {
	c := New()
	if c.Connected() {
		t.Fatalf("expected a fresh Connection to be disconnected")
	}
	if !c.Autocommit() {
		t.Fatalf("expected autocommit to default to on")
	}
	if c.InTransaction() {
		t.Fatalf("expected a fresh Connection to have no open transaction")
	}
}

func TestRequireConnectedFailsOnFreshConnection(t *testing.T) {
	c := New()
	if _, err := c.Query(context.Background(), "SELECT 1"); err == nil {
		t.Fatalf("expected Query on an unconnected Connection to fail")
	}
	if _, err := c.Exec(context.Background(), "SELECT 1"); err == nil {
		t.Fatalf("expected Exec on an unconnected Connection to fail")
	}
	rec, ok := c.Diagnostics.At(c.Diagnostics.Len())
	if !ok || rec.SQLState != diag.SQLStateConnNotOpen {
		t.Fatalf("expected the last diagnostic to be %s, got %+v (ok=%v)", diag.SQLStateConnNotOpen, rec, ok)
	}
}

func TestSetAutocommitOnFreshConnectionRequiresConnection(t *testing.T) {
	c := New()
	if err := c.SetAutocommit(context.Background(), false); err == nil {
		t.Fatalf("expected SetAutocommit to require a live connection")
	}
}

func TestEndTransactionRequiresConnection(t *testing.T) {
	c := New()
	if err := c.EndTransaction(context.Background(), true); err == nil {
		t.Fatalf("expected EndTransaction to require a live connection")
	}
}

func TestDisconnectOnAlreadyDisconnectedIsNoOp(t *testing.T) {
	c := New()
	if err := c.Disconnect(context.Background()); err != nil {
		t.Fatalf("expected Disconnect on a never-connected Connection to be a no-op, got %v", err)
	}
}

func TestClassifyServerErrorPreservesDiagErr(t *testing.T) {
	orig := diag.New(diag.SQLStateSyntaxError, 102, "bad syntax")
	got := classifyServerError(orig)
	if got.SQLState != diag.SQLStateSyntaxError {
		t.Fatalf("expected the original SQLSTATE to be preserved, got %s", got.SQLState)
	}
}

func TestClassifyServerErrorFallsBackToGeneralError(t *testing.T) {
	got := classifyServerError(errors.New("network reset"))
	if got.SQLState != diag.SQLStateGeneralError {
		t.Fatalf("expected unclassified errors to fall back to %s, got %s", diag.SQLStateGeneralError, got.SQLState)
	}
}
