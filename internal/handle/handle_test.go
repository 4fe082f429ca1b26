package handle

import "testing"

func TestAllocCascade(t *testing.T) {
	r := NewRegistry()
	env := r.AllocEnv()
	conn, err := r.AllocConn(env.ID)
	if err != nil {
		t.Fatalf("AllocConn: %v", err)
	}
	stmt1, err := r.AllocStmt(conn.ID)
	if err != nil {
		t.Fatalf("AllocStmt: %v", err)
	}
	stmt2, err := r.AllocStmt(conn.ID)
	if err != nil {
		t.Fatalf("AllocStmt: %v", err)
	}

	envs, conns, stmts := r.Stats()
	if envs != 1 || conns != 1 || stmts != 2 {
		t.Fatalf("expected 1/1/2, got %d/%d/%d", envs, conns, stmts)
	}

	if err := r.FreeEnv(env.ID); err != nil {
		t.Fatalf("FreeEnv: %v", err)
	}
	envs, conns, stmts = r.Stats()
	if envs != 0 || conns != 0 || stmts != 0 {
		t.Fatalf("expected free of Env to cascade to 0/0/0, got %d/%d/%d", envs, conns, stmts)
	}
	if _, ok := r.Stmt(stmt1.ID); ok {
		t.Fatalf("stmt1 should no longer be findable after cascading free")
	}
	if _, ok := r.Stmt(stmt2.ID); ok {
		t.Fatalf("stmt2 should no longer be findable after cascading free")
	}
}

func TestFreeConnCascadesToStatements(t *testing.T) {
	r := NewRegistry()
	env := r.AllocEnv()
	conn, _ := r.AllocConn(env.ID)
	stmt, _ := r.AllocStmt(conn.ID)

	if err := r.FreeConn(conn.ID); err != nil {
		t.Fatalf("FreeConn: %v", err)
	}
	if _, ok := r.Stmt(stmt.ID); ok {
		t.Fatalf("statement should be gone after its connection is freed")
	}
	if ids := env.ConnIDs(); len(ids) != 0 {
		t.Fatalf("expected the environment to have detached the freed connection, got %v", ids)
	}
	// the environment itself survives a connection-level free
	if _, ok := r.Env(env.ID); !ok {
		t.Fatalf("environment should survive FreeConn")
	}
}

func TestDoubleFreeIsInvalidHandle(t *testing.T) {
	r := NewRegistry()
	env := r.AllocEnv()
	if err := r.FreeEnv(env.ID); err != nil {
		t.Fatalf("first FreeEnv: %v", err)
	}
	if err := r.FreeEnv(env.ID); err != ErrInvalidHandle {
		t.Fatalf("expected ErrInvalidHandle on double free, got %v", err)
	}
}

func TestAllocConnRequiresLiveEnv(t *testing.T) {
	r := NewRegistry()
	if _, err := r.AllocConn(999); err != ErrInvalidHandle {
		t.Fatalf("expected ErrInvalidHandle for an unknown env id, got %v", err)
	}
}

func TestAllocStmtRequiresLiveConn(t *testing.T) {
	r := NewRegistry()
	if _, err := r.AllocStmt(999); err != ErrInvalidHandle {
		t.Fatalf("expected ErrInvalidHandle for an unknown conn id, got %v", err)
	}
}

func TestHandleIDsAreUniqueAndNonZero(t *testing.T) {
	r := NewRegistry()
	e1 := r.AllocEnv()
	e2 := r.AllocEnv()
	if e1.ID == 0 || e2.ID == 0 {
		t.Fatalf("handle ids must never be 0 (reserved for SQL_NULL_HANDLE)")
	}
	if e1.ID == e2.ID {
		t.Fatalf("expected distinct handle ids, got %d and %d", e1.ID, e2.ID)
	}
}
