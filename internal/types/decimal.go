package types

import (
	"fmt"
	"math/big"
)

// DecimalFromAny converts a value pulled off the wire (the thda/tds
// client hands back its own Num type, or a plain Go numeric/string) into
// a *big.Rat, preserving exact decimal representation rather than
// round-tripping through float64.
func DecimalFromAny(v any) (*big.Rat, bool) {
	switch t := v.(type) {
	case *big.Rat:
		return t, true
	case big.Rat:
		return &t, true
	case string:
		r := new(big.Rat)
		if _, ok := r.SetString(t); ok {
			return r, true
		}
		return nil, false
	case int:
		return new(big.Rat).SetInt64(int64(t)), true
	case int64:
		return new(big.Rat).SetInt64(t), true
	case float64:
		return new(big.Rat).SetFloat64(t), true
	case fmt.Stringer:
		r := new(big.Rat)
		if _, ok := r.SetString(t.String()); ok {
			return r, true
		}
		return nil, false
	default:
		return nil, false
	}
}

// DecimalToString renders a *big.Rat to its canonical fixed-point string
// at the given scale, the form SQLGetData(SQL_C_CHAR) on a DECIMAL/
// NUMERIC column must produce.
func DecimalToString(r *big.Rat, scale int) string {
	if r == nil {
		return ""
	}
	return r.FloatString(scale)
}

// DecimalFromUnscaled builds the canonical *big.Rat for a TDS DECIMALN/
// NUMERICN wire value expressed as an unscaled big.Int plus a scale,
// i.e. value == unscaled * 10^-scale.
func DecimalFromUnscaled(unscaled *big.Int, scale int) *big.Rat {
	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(scale)), nil)
	return new(big.Rat).SetFrac(unscaled, denom)
}
