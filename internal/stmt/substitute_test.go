package stmt

import (
	"testing"

	"github.com/furball-odbc/furball/internal/types"
)

func TestCountParamsBasic(t *testing.T) {
	cases := []struct {
		sql  string
		want int
	}{
		{"SELECT 1", 0},
		{"SELECT * FROM t WHERE a = ? AND b = ?", 2},
		{"SELECT '?' FROM t WHERE a = ?", 1},
		{"SELECT N'literal ?' FROM t WHERE a = ?", 1},
		{"SELECT [weird?col] FROM t WHERE a = ?", 1},
		{"-- a comment with a ? in it\nSELECT a FROM t WHERE b = ?", 1},
		{"/* a block ? comment */ SELECT a FROM t WHERE b = ?", 1},
	}
	for _, c := range cases {
		if got := CountParams(c.sql); got != c.want {
			t.Fatalf("CountParams(%q): expected %d, got %d", c.sql, c.want, got)
		}
	}
}

func TestCountParamsQuoteEscapedLiteral(t *testing.T) {
	sql := "SELECT 'it''s a ? test' FROM t WHERE a = ?"
	if got := CountParams(sql); got != 1 {
		t.Fatalf("expected the escaped quote to keep the string literal intact, got %d", got)
	}
}

func TestSubstituteReplacesInOrder(t *testing.T) {
	sql := "SELECT * FROM t WHERE a = ? AND b = ?"
	out, err := Substitute(sql, func(ordinal int) (string, error) {
		if ordinal == 0 {
			return "1", nil
		}
		return "'x'", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "SELECT * FROM t WHERE a = 1 AND b = 'x'"
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestSubstitutePropagatesFirstError(t *testing.T) {
	sql := "SELECT ? , ?"
	wantErr := errBoom
	_, err := Substitute(sql, func(ordinal int) (string, error) {
		return "", wantErr
	})
	if err != wantErr {
		t.Fatalf("expected the literal error to propagate, got %v", err)
	}
}

var errBoom = &boomError{}

type boomError struct{}

func (*boomError) Error() string { return "boom" }

func TestLiteralFormTypes(t *testing.T) {
	cases := []struct {
		name string
		p    *ParamRecord
		want string
	}{
		{"null indicator", &ParamRecord{Indicator: types.NullData}, "NULL"},
		{"nil value", &ParamRecord{Value: nil}, "NULL"},
		{"bool true", &ParamRecord{Value: true}, "1"},
		{"bool false", &ParamRecord{Value: false}, "0"},
		{"int64", &ParamRecord{Value: int64(42)}, "42"},
		{"int", &ParamRecord{Value: 7}, "7"},
		{"float64", &ParamRecord{Value: 1.5}, "1.5"},
		{"narrow string", &ParamRecord{Value: "it's", CType: types.CChar}, "'it''s'"},
		{"wide string", &ParamRecord{Value: "hi", CType: types.CWChar}, "N'hi'"},
		{"binary", &ParamRecord{Value: []byte{0xde, 0xad}}, "0xdead"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := literalForm(c.p)
			if err != nil {
				t.Fatalf("literalForm: %v", err)
			}
			if got != c.want {
				t.Fatalf("expected %q, got %q", c.want, got)
			}
		})
	}
}

func TestLiteralFormUnsupportedType(t *testing.T) {
	if _, err := literalForm(&ParamRecord{Value: struct{}{}}); err == nil {
		t.Fatalf("expected an error for an unsupported parameter value type")
	}
}

func TestIsRowReturning(t *testing.T) {
	cases := []struct {
		sql  string
		want bool
	}{
		{"SELECT 1", true},
		{"  select * from t", true},
		{"WITH cte AS (SELECT 1) SELECT * FROM cte", true},
		{"-- a comment\nSELECT 1", true},
		{"/* block */ SELECT 1", true},
		{"INSERT INTO T VALUES (1),(2),(3)", false},
		{"UPDATE T SET a = 1", false},
		{"DELETE FROM T", false},
		{"CREATE TABLE T (a INT)", false},
		{"-- a comment\nDELETE FROM T", false},
	}
	for _, c := range cases {
		if got := isRowReturning(c.sql); got != c.want {
			t.Fatalf("isRowReturning(%q): expected %v, got %v", c.sql, c.want, got)
		}
	}
}
