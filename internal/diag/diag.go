// Package diag implements the ordered diagnostic record lists ODBC
// handles carry, and the SQLSTATE taxonomy Furball reports through them.
package diag

import "fmt"

// Record is one diagnostic entry, ordered 1-based within a handle's list
// the way SQLGetDiagRec/SQLGetDiagField expect.
type Record struct {
	SQLState    string
	NativeError int32
	Message     string
}

// List is the ordered diagnostic record list attached to a Connection or
// Statement handle. Environment handles never hold one: SQLGetDiagRec
// and SQLGetDiagField against an Environment handle return SQL_NO_DATA
// unconditionally, once the handle itself checks out.
type List struct {
	recs []Record
}

// Push appends a diagnostic record, preserving arrival order.
func (l *List) Push(r Record) {
	l.recs = append(l.recs, r)
}

// Pushf is a convenience wrapper building the message with fmt.Sprintf.
func (l *List) Pushf(state string, native int32, format string, args ...any) {
	l.Push(Record{SQLState: state, NativeError: native, Message: fmt.Sprintf(format, args...)})
}

// Clear drops all records. Called at the start of any fallible operation,
// so a handle's diagnostics always reflect only the most recently
// completed operation.
func (l *List) Clear() {
	l.recs = l.recs[:0]
}

// At returns the 1-based diagnostic record. ok is false past the end of
// the list, matching SQLGetDiagRec's SQL_NO_DATA contract.
func (l *List) At(recNumber int) (Record, bool) {
	idx := recNumber - 1
	if idx < 0 || idx >= len(l.recs) {
		return Record{}, false
	}
	return l.recs[idx], true
}

// Len reports how many records are currently queued.
func (l *List) Len() int {
	return len(l.recs)
}

// Err is a Go error that carries a SQLSTATE and native error code, so
// callers across the component boundary don't have to re-derive the
// SQLSTATE class from string matching.
type Err struct {
	SQLState    string
	NativeError int32
	Msg         string
	Cause       error
}

func (e *Err) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

func (e *Err) Unwrap() error { return e.Cause }

// New builds an *Err carrying the given SQLSTATE without an underlying cause.
func New(sqlstate string, native int32, format string, args ...any) *Err {
	return &Err{SQLState: sqlstate, NativeError: native, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Err around an existing error, tagging it with a SQLSTATE.
func Wrap(sqlstate string, native int32, err error) *Err {
	return &Err{SQLState: sqlstate, NativeError: native, Msg: err.Error(), Cause: err}
}

// AsRecord converts any error into a diagnostic Record. Errors already
// carrying a SQLSTATE (via *Err) keep their classification; anything else
// is reported under the generic "general error" class HY000.
func AsRecord(err error) Record {
	var e *Err
	if asErr, ok := err.(*Err); ok {
		e = asErr
	}
	if e != nil {
		return Record{SQLState: e.SQLState, NativeError: e.NativeError, Message: e.Error()}
	}
	return Record{SQLState: SQLStateGeneralError, NativeError: 0, Message: err.Error()}
}

// SQLSTATE codes reported across the driver's diagnostic records.
const (
	SQLStateSuccessWithInfo  = "01000"
	SQLStateStringTruncated  = "01004"
	SQLStateInvalidHandle    = "HY009"
	SQLStateInvalidHandleRef = "HY000"
	SQLStateGeneralError     = "HY000"
	SQLStateMemoryAlloc      = "HY001"
	SQLStateInvalidDescIdx   = "07009"
	SQLStateProgramTypeOOR   = "HY003"
	SQLStateFunctionSeqErr   = "HY010"
	SQLStateOperationCancel  = "HY008"
	SQLStateInvalidAttrValue = "HY024"
	SQLStateNotSupported     = "HYC00"
	SQLStateConnNotOpen      = "08003"
	SQLStateConnFailure      = "08001" // unable to establish connection
	SQLStateConnLinkFailure  = "08S01" // communication link failure
	SQLStateInvalidTxState   = "25000"
	SQLStateSyntaxError      = "42000"
	SQLStateDataException    = "22000"
	SQLStateNumericOutOfRng  = "22003"
	SQLStateInvalidDatetime  = "22007"
	SQLStateNoData           = "02000"
	SQLStateRestrictViolated = "23000"
	SQLStateInvalidCursorSt  = "24000"
)
