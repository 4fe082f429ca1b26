package stmt

import (
	"context"
	"testing"

	"github.com/furball-odbc/furball/internal/conn"
	"github.com/furball-odbc/furball/internal/types"
)

func newUnconnected() *Statement {
	return New(conn.New())
}

func TestPrepareTransitionsToPreparedAndCountsParams(t *testing.T) {
	s := newUnconnected()
	if err := s.Prepare("SELECT * FROM t WHERE a = ? AND b = ?"); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if s.State != Prepared {
		t.Fatalf("expected Prepared state, got %v", s.State)
	}
	if s.NumParams() != 2 {
		t.Fatalf("expected 2 params, got %d", s.NumParams())
	}
}

func TestBindParameterOutOfRange(t *testing.T) {
	s := newUnconnected()
	if err := s.Prepare("SELECT ?"); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := s.BindParameter(2, types.CLong, types.SQLInteger, 0, 0, int64(1), 0); err == nil {
		t.Fatalf("expected binding ordinal 2 against a 1-parameter statement to fail")
	}
}

func TestBindParameterReplacesExisting(t *testing.T) {
	s := newUnconnected()
	if err := s.Prepare("SELECT ?"); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := s.BindParameter(1, types.CLong, types.SQLInteger, 0, 0, int64(1), 0); err != nil {
		t.Fatalf("BindParameter: %v", err)
	}
	if err := s.BindParameter(1, types.CChar, types.SQLVarchar, 0, 0, "x", 0); err != nil {
		t.Fatalf("BindParameter (rebind): %v", err)
	}
	if s.Params[0].Value != "x" {
		t.Fatalf("expected rebinding to replace the prior value, got %v", s.Params[0].Value)
	}
}

func TestResetParamsClearsAllBindings(t *testing.T) {
	s := newUnconnected()
	if err := s.Prepare("SELECT ?, ?"); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	s.BindParameter(1, types.CLong, types.SQLInteger, 0, 0, int64(1), 0)
	s.BindParameter(2, types.CLong, types.SQLInteger, 0, 0, int64(2), 0)
	s.ResetParams()
	for i, p := range s.Params {
		if p.Value != nil {
			t.Fatalf("expected param %d to be cleared, got %v", i, p.Value)
		}
	}
}

func TestExecuteOutsidePreparedStateFails(t *testing.T) {
	s := newUnconnected()
	if err := s.Execute(context.Background()); err == nil {
		t.Fatalf("expected Execute to fail from the Idle state")
	}
}

func TestExecuteWithoutDAERunsImmediatelyAndFailsOnDisconnected(t *testing.T) {
	s := newUnconnected()
	if err := s.Prepare("SELECT 1"); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	err := s.Execute(context.Background())
	if err == nil {
		t.Fatalf("expected Execute against an unconnected connection to fail")
	}
	if err == ErrNeedData {
		t.Fatalf("expected a connection error, not ErrNeedData, with no DAE params bound")
	}
}

func TestExecuteWithDataAtExecReturnsErrNeedData(t *testing.T) {
	s := newUnconnected()
	if err := s.Prepare("SELECT ?"); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := s.BindParameter(1, types.CChar, types.SQLVarchar, 0, 0, uintptr(0x1234), types.DataAtExec); err != nil {
		t.Fatalf("BindParameter: %v", err)
	}
	err := s.Execute(context.Background())
	if err != ErrNeedData {
		t.Fatalf("expected ErrNeedData, got %v", err)
	}
	if s.State != NeedData {
		t.Fatalf("expected NeedData state, got %v", s.State)
	}
}

func TestParamDataPutDataSequence(t *testing.T) {
	s := newUnconnected()
	if err := s.Prepare("SELECT ?"); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := s.BindParameter(1, types.CChar, types.SQLVarchar, 0, 0, uintptr(0x1), types.DataAtExec); err != nil {
		t.Fatalf("BindParameter: %v", err)
	}
	if err := s.Execute(context.Background()); err != ErrNeedData {
		t.Fatalf("expected ErrNeedData, got %v", err)
	}

	ordinal, needData, err := s.ParamData(context.Background())
	if err != nil {
		t.Fatalf("ParamData: %v", err)
	}
	if !needData || ordinal != 1 {
		t.Fatalf("expected to be asked for ordinal 1, got ordinal=%d needData=%v", ordinal, needData)
	}
	if err := s.PutData([]byte("hello")); err != nil {
		t.Fatalf("PutData: %v", err)
	}

	// Second ParamData call finalizes the only DAE param and tries to run
	// the statement, which fails because the connection is unconnected.
	_, needData, err = s.ParamData(context.Background())
	if err == nil {
		t.Fatalf("expected the final ParamData call to surface the unconnected-connection error")
	}
	if needData {
		t.Fatalf("expected needData=false on the final call")
	}
	if s.Params[0].Value != "hello" {
		t.Fatalf("expected the DAE buffer to finalize to the accumulated string, got %v", s.Params[0].Value)
	}
}

func TestPutDataOutsideActiveDAEFails(t *testing.T) {
	s := newUnconnected()
	if err := s.PutData([]byte("x")); err == nil {
		t.Fatalf("expected PutData with no active DAE parameter to fail")
	}
}

func TestFetchBeforeExecuteFails(t *testing.T) {
	s := newUnconnected()
	if _, err := s.Fetch(); err == nil {
		t.Fatalf("expected Fetch before Execute to fail")
	}
}

func TestCloseResetsToIdle(t *testing.T) {
	s := newUnconnected()
	s.Prepare("SELECT ?")
	s.Close()
	if s.State != Idle {
		t.Fatalf("expected Idle state after Close, got %v", s.State)
	}
	if s.Store.HasColumns() {
		t.Fatalf("expected Close to reset the row store")
	}
}
