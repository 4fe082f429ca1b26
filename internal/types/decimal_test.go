package types

import (
	"math/big"
	"testing"
)

func TestDecimalFromAnyVariants(t *testing.T) {
	cases := []struct {
		name string
		v    any
		want string
	}{
		{"string", "3.50", "3.5"},
		{"int", 7, "7"},
		{"int64", int64(-42), "-42"},
		{"float64", 1.5, "1.5"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, ok := DecimalFromAny(c.v)
			if !ok {
				t.Fatalf("expected DecimalFromAny to succeed for %v", c.v)
			}
			if r.RatString() != c.want && r.FloatString(2) != c.want {
				// float64-backed values don't always produce an exact
				// RatString match; compare numerically instead.
				f, _ := r.Float64()
				wf := new(big.Rat)
				wf.SetString(c.want)
				wantF, _ := wf.Float64()
				if f != wantF {
					t.Fatalf("expected %v, got %v", c.want, r)
				}
			}
		})
	}
}

func TestDecimalFromAnyUnsupportedType(t *testing.T) {
	if _, ok := DecimalFromAny(struct{}{}); ok {
		t.Fatalf("expected an unsupported type to fail")
	}
}

func TestDecimalToString(t *testing.T) {
	r := big.NewRat(355, 100)
	if got := DecimalToString(r, 2); got != "3.55" {
		t.Fatalf("expected 3.55, got %q", got)
	}
}

func TestDecimalToStringNilReturnsEmpty(t *testing.T) {
	if got := DecimalToString(nil, 2); got != "" {
		t.Fatalf("expected empty string for a nil *big.Rat, got %q", got)
	}
}

func TestDecimalFromUnscaled(t *testing.T) {
	r := DecimalFromUnscaled(big.NewInt(12345), 2)
	if got := DecimalToString(r, 2); got != "123.45" {
		t.Fatalf("expected 123.45, got %q", got)
	}
}
