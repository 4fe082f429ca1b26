package diag

import (
	"errors"
	"testing"
)

func TestListOrderingAndOneBasedRetrieval(t *testing.T) {
	var l List
	l.Pushf(SQLStateSyntaxError, 102, "near %q", "FROM")
	l.Pushf(SQLStateDataException, 0, "bad value")

	if l.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", l.Len())
	}
	first, ok := l.At(1)
	if !ok || first.SQLState != SQLStateSyntaxError {
		t.Fatalf("expected record 1 to be %s, got %+v (ok=%v)", SQLStateSyntaxError, first, ok)
	}
	second, ok := l.At(2)
	if !ok || second.SQLState != SQLStateDataException {
		t.Fatalf("expected record 2 to be %s, got %+v (ok=%v)", SQLStateDataException, second, ok)
	}
	if _, ok := l.At(3); ok {
		t.Fatalf("expected no record past the end of the list")
	}
	if _, ok := l.At(0); ok {
		t.Fatalf("expected no record at index 0 (1-based retrieval)")
	}
}

func TestListClear(t *testing.T) {
	var l List
	l.Push(Record{SQLState: "42000"})
	l.Clear()
	if l.Len() != 0 {
		t.Fatalf("expected 0 records after Clear, got %d", l.Len())
	}
}

func TestErrUnwrap(t *testing.T) {
	cause := errors.New("boom")
	e := Wrap(SQLStateConnFailure, 0, cause)
	if !errors.Is(e, cause) {
		t.Fatalf("expected errors.Is to find the wrapped cause")
	}
	if e.SQLState != SQLStateConnFailure {
		t.Fatalf("expected SQLState to be preserved, got %q", e.SQLState)
	}
}

func TestAsRecordPreservesClassifiedError(t *testing.T) {
	e := New(SQLStateInvalidCursorSt, 7, "no current row")
	rec := AsRecord(e)
	if rec.SQLState != SQLStateInvalidCursorSt {
		t.Fatalf("expected %s, got %s", SQLStateInvalidCursorSt, rec.SQLState)
	}
	if rec.NativeError != 7 {
		t.Fatalf("expected native error 7, got %d", rec.NativeError)
	}
}

func TestAsRecordFallsBackToGeneralError(t *testing.T) {
	rec := AsRecord(errors.New("unclassified failure"))
	if rec.SQLState != SQLStateGeneralError {
		t.Fatalf("expected generic errors to classify as %s, got %s", SQLStateGeneralError, rec.SQLState)
	}
}
