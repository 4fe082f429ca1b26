package furball

import "testing"

func TestNewRegistryAllocatesHandleHierarchy(t *testing.T) {
	r := NewRegistry()
	env := r.AllocEnv()
	c, err := r.AllocConn(env.ID)
	if err != nil {
		t.Fatalf("AllocConn: %v", err)
	}
	if _, err := r.AllocStmt(c.ID); err != nil {
		t.Fatalf("AllocStmt: %v", err)
	}
	envs, conns, stmts := r.Stats()
	if envs != 1 || conns != 1 || stmts != 1 {
		t.Fatalf("expected 1/1/1, got %d/%d/%d", envs, conns, stmts)
	}
}

func TestNewStmtStartsIdle(t *testing.T) {
	s := NewStmt(NewConnState())
	if s.State != 0 {
		t.Fatalf("expected a fresh Statement to start in the Idle state, got %v", s.State)
	}
}
