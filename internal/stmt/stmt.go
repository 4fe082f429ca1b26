// Package stmt implements the Statement state machine: prepare/
// exec-direct, parameter binding (including data-at-execution),
// execute, fetch, and typed column retrieval.
package stmt

import (
	"context"

	"github.com/furball-odbc/furball/internal/chartype"
	"github.com/furball-odbc/furball/internal/conn"
	"github.com/furball-odbc/furball/internal/diag"
	"github.com/furball-odbc/furball/internal/rowio"
	"github.com/furball-odbc/furball/internal/rowstore"
	"github.com/furball-odbc/furball/internal/types"
)

// State is one node of the Statement lifecycle.
type State int

const (
	Idle State = iota
	Prepared
	NeedData
	Executed
	Fetching
)

// ParamRecord is one bound parameter: its C/SQL type, size, value, and
// indicator (length or NULL/DATA_AT_EXEC marker).
type ParamRecord struct {
	Ordinal       int
	CType         int16
	SQLType       int16
	ColumnSize    uint64
	DecimalDigits int16
	Value         any
	Indicator     int64

	daeBuf []byte // accumulated bytes across PutData calls
}

// Statement is one executable context, owned by a Connection.
type Statement struct {
	Conn *conn.Connection

	State State
	SQL   string
	Params []*ParamRecord

	Store       *rowstore.Store
	RowCount    int64
	Diagnostics diag.List

	daeOrder []int // ordinals (0-based) of DAE params, bind order
	daeIdx   int   // index into daeOrder; -1 when not doing DAE

	writer *rowio.Writer
}

// New allocates a Statement under c, starting in the Idle state.
func New(c *conn.Connection) *Statement {
	return &Statement{
		Conn:   c,
		State:  Idle,
		Store:  rowstore.NewStore(),
		daeIdx: -1,
		writer: rowio.NewWriter(),
	}
}

func (s *Statement) fail(sqlstate string, native int32, format string, args ...any) error {
	err := diag.New(sqlstate, native, format, args...)
	s.Diagnostics.Push(diag.AsRecord(err))
	return err
}

// Prepare stores sql and counts its placeholders, transitioning
// Idle → Prepared.
func (s *Statement) Prepare(sqltext string) error {
	s.Diagnostics.Clear()
	n := CountParams(sqltext)
	s.SQL = sqltext
	s.Params = make([]*ParamRecord, n)
	for i := range s.Params {
		s.Params[i] = &ParamRecord{Ordinal: i + 1}
	}
	s.State = Prepared
	return nil
}

// NumParams reports the prepared statement's placeholder count, for
// SQLNumParams.
func (s *Statement) NumParams() int {
	return len(s.Params)
}

// BindParameter installs or replaces the 1-based parameter's binding.
// Rebinding the same ordinal replaces it.
func (s *Statement) BindParameter(ordinal int, cType, sqlType int16, columnSize uint64, decimalDigits int16, value any, indicator int64) error {
	idx := ordinal - 1
	if idx < 0 || idx >= len(s.Params) {
		return s.fail(diag.SQLStateInvalidDescIdx, 0, "parameter ordinal %d out of range [1,%d]", ordinal, len(s.Params))
	}
	s.Params[idx] = &ParamRecord{
		Ordinal:       ordinal,
		CType:         cType,
		SQLType:       sqlType,
		ColumnSize:    columnSize,
		DecimalDigits: decimalDigits,
		Value:         value,
		Indicator:     indicator,
	}
	return nil
}

// ResetParams clears all bound parameters without touching the prepared
// SQL text.
func (s *Statement) ResetParams() {
	for i := range s.Params {
		s.Params[i] = &ParamRecord{Ordinal: i + 1}
	}
	s.daeOrder = nil
	s.daeIdx = -1
}

// ErrNeedData is returned by Execute when a bound parameter requires
// data-at-execution; the caller must drive ParamData/PutData next.
var ErrNeedData = diag.New("HY000", 0, "function sequence: statement needs data")

// Execute runs the prepared statement. If any bound parameter has
// indicator == DATA_AT_EXEC, it transitions to NeedData and returns
// ErrNeedData instead of running anything yet.
func (s *Statement) Execute(ctx context.Context) error {
	if s.State != Prepared {
		return s.fail(diag.SQLStateFunctionSeqErr, 0, "execute called outside Prepared state")
	}
	s.Diagnostics.Clear()

	s.daeOrder = nil
	for i, p := range s.Params {
		if p.Indicator == types.DataAtExec {
			s.daeOrder = append(s.daeOrder, i)
		}
	}
	if len(s.daeOrder) > 0 {
		s.daeIdx = 0
		s.State = NeedData
		return ErrNeedData
	}
	return s.runSubstitutedSQL(ctx, s.SQL)
}

// ExecDirect runs sqltext immediately without a separate Prepare step,
// transitioning Idle → Executed.
func (s *Statement) ExecDirect(ctx context.Context, sqltext string) error {
	s.Diagnostics.Clear()
	s.SQL = sqltext
	s.Params = nil
	return s.runSubstitutedSQL(ctx, sqltext)
}

func (s *Statement) runSubstitutedSQL(ctx context.Context, sqltext string) error {
	final, err := Substitute(sqltext, func(ordinal int) (string, error) {
		if ordinal >= len(s.Params) {
			return "", s.fail(diag.SQLStateInvalidDescIdx, 0, "no binding for parameter %d", ordinal+1)
		}
		return literalForm(s.Params[ordinal])
	})
	if err != nil {
		return err
	}
	return s.run(ctx, final)
}

// run submits final SQL text, clears any prior result set, and
// populates a fresh one: transitioning into Executed always discards
// whatever result set was there before.
func (s *Statement) run(ctx context.Context, final string) error {
	s.Store.Reset()

	if !isRowReturning(final) {
		n, eerr := s.Conn.Exec(ctx, final)
		if eerr != nil {
			s.Diagnostics.Push(diag.AsRecord(classify(eerr)))
			return eerr
		}
		s.RowCount = n
		s.State = Executed
		return nil
	}

	rows, qerr := s.Conn.Query(ctx, final)
	if qerr != nil {
		s.Diagnostics.Push(diag.AsRecord(classify(qerr)))
		return qerr
	}
	defer rows.Close()
	if err := s.writer.Consume(rows, s.Store); err != nil {
		s.Diagnostics.Push(diag.AsRecord(err))
		return err
	}
	s.RowCount = -1
	s.State = Executed
	return nil
}

func classify(err error) *diag.Err {
	if e, ok := err.(*diag.Err); ok {
		return e
	}
	return diag.Wrap(diag.SQLStateGeneralError, 0, err)
}

// ParamData advances the data-at-execution protocol: it returns the
// ordinal of the next parameter requiring data, or runs the statement
// once every DAE parameter has been supplied.
func (s *Statement) ParamData(ctx context.Context) (nextOrdinal int, needData bool, err error) {
	if s.State != NeedData {
		return 0, false, s.fail(diag.SQLStateFunctionSeqErr, 0, "param-data called outside NeedData state")
	}
	if s.daeIdx > 0 {
		// finalize the previous DAE parameter's accumulated buffer
		prev := s.Params[s.daeOrder[s.daeIdx-1]]
		prev.Value = daeValue(prev)
		prev.Indicator = int64(len(prev.daeBuf))
	}
	if s.daeIdx >= len(s.daeOrder) {
		s.daeIdx = -1
		s.State = Prepared
		if err := s.runSubstitutedSQL(ctx, s.SQL); err != nil {
			return 0, false, err
		}
		return 0, false, nil
	}
	ordinal := s.Params[s.daeOrder[s.daeIdx]].Ordinal
	s.daeIdx++
	return ordinal, true, nil
}

// PutData appends bytes to the current DAE parameter's buffer. A
// zero-length call is valid and preserved as the empty value.
func (s *Statement) PutData(data []byte) error {
	if s.State != NeedData || s.daeIdx <= 0 || s.daeIdx > len(s.daeOrder) {
		return s.fail(diag.SQLStateFunctionSeqErr, 0, "put-data called outside an active DAE parameter")
	}
	p := s.Params[s.daeOrder[s.daeIdx-1]]
	p.daeBuf = append(p.daeBuf, data...)
	return nil
}

// daeValue converts an accumulated DAE byte buffer into the value
// literalForm expects, decoding UTF-16 first when the parameter was
// bound as a wide C type.
func daeValue(p *ParamRecord) any {
	if p.CType == types.CWChar {
		return decodeWideBuf(p.daeBuf)
	}
	return string(p.daeBuf)
}

// decodeWideBuf converts an accumulated UTF-16LE byte buffer into a
// UTF-8 string, falling back to the raw bytes if the buffer is not
// valid UTF-16LE.
func decodeWideBuf(b []byte) string {
	s, err := chartype.DecodeWide(b)
	if err != nil {
		return string(b)
	}
	return s
}

// Fetch advances the row cursor forward-only: NO_DATA (ok=false) is
// returned at and past the end.
func (s *Statement) Fetch() (ok bool, err error) {
	if s.State != Executed && s.State != Fetching {
		return false, s.fail(diag.SQLStateInvalidCursorSt, 0, "fetch called before execute")
	}
	if !s.Store.HasColumns() {
		return false, s.fail(diag.SQLStateInvalidCursorSt, 0, "fetch called on a statement with no result set")
	}
	s.State = Fetching
	return s.Store.Next(), nil
}

// Close resets the statement's result set and cursor, transitioning any
// state back to Idle.
func (s *Statement) Close() error {
	s.Store.Reset()
	s.State = Idle
	s.daeOrder = nil
	s.daeIdx = -1
	return nil
}
