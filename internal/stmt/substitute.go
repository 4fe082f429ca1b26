package stmt

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/furball-odbc/furball/internal/types"
)

// transform walks sqltext once, copying it verbatim except that every
// '?' found outside a single-quoted string literal, an N'...' wide
// literal, a bracketed [identifier], a "--" line comment, or a /* */
// block comment is offered to onPlaceholder. This is the
// string-literal-aware scan placeholder substitution needs to avoid
// mistaking a literal question mark inside quoted text or a comment for
// a real parameter marker.
func transform(sqltext string, onPlaceholder func(ordinal int) (replacement string, replace bool)) (string, int) {
	var b strings.Builder
	n := len(sqltext)
	i := 0
	ordinal := 0
	for i < n {
		c := sqltext[i]
		switch {
		case c == '-' && i+1 < n && sqltext[i+1] == '-':
			end := n
			if j := strings.IndexByte(sqltext[i:], '\n'); j >= 0 {
				end = i + j + 1
			}
			b.WriteString(sqltext[i:end])
			i = end
		case c == '/' && i+1 < n && sqltext[i+1] == '*':
			end := n
			if j := strings.Index(sqltext[i+2:], "*/"); j >= 0 {
				end = i + j + 4
			}
			b.WriteString(sqltext[i:end])
			i = end
		case c == '\'':
			start := i
			i++
			for i < n {
				if sqltext[i] == '\'' {
					if i+1 < n && sqltext[i+1] == '\'' {
						i += 2
						continue
					}
					i++
					break
				}
				i++
			}
			b.WriteString(sqltext[start:i])
		case c == '[':
			start := i
			end := n
			if j := strings.IndexByte(sqltext[i:], ']'); j >= 0 {
				end = i + j + 1
			}
			b.WriteString(sqltext[start:end])
			i = end
		case c == '?':
			if onPlaceholder != nil {
				if repl, ok := onPlaceholder(ordinal); ok {
					b.WriteString(repl)
				} else {
					b.WriteByte('?')
				}
			}
			ordinal++
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), ordinal
}

// CountParams reports the number of '?' placeholders lying outside
// string literals.
func CountParams(sqltext string) int {
	_, n := transform(sqltext, nil)
	return n
}

// Substitute replaces every placeholder with literalFor's text,
// building the final SQL text actually sent to the server.
func Substitute(sqltext string, literalFor func(ordinal int) (string, error)) (string, error) {
	var firstErr error
	out, _ := transform(sqltext, func(ordinal int) (string, bool) {
		lit, err := literalFor(ordinal)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return "", false
		}
		return lit, true
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// literalForm renders one bound parameter's value as T-SQL literal
// text: integers as decimal, floats shortest round-trip, booleans 0/1,
// NULL as the keyword, dates/times/timestamps quoted in canonical form,
// GUIDs quoted, binary as 0x-prefixed hex, strings quote-doubled and
// N-prefixed when the bound C type is wide.
func literalForm(p *ParamRecord) (string, error) {
	if p.Indicator == types.NullData || p.Value == nil {
		return "NULL", nil
	}
	switch v := p.Value.(type) {
	case bool:
		if v {
			return "1", nil
		}
		return "0", nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case int:
		return strconv.Itoa(v), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), nil
	case string:
		return stringLiteral(v, p.CType), nil
	case []byte:
		return "0x" + hex.EncodeToString(v), nil
	case time.Time:
		return "'" + formatTemporalLiteral(v, p.SQLType) + "'", nil
	default:
		return "", fmt.Errorf("stmt: unsupported parameter value type %T", v)
	}
}

func stringLiteral(s string, cType int16) string {
	escaped := strings.ReplaceAll(s, "'", "''")
	if cType == types.CWChar {
		return "N'" + escaped + "'"
	}
	return "'" + escaped + "'"
}

func formatTemporalLiteral(t time.Time, sqlType int16) string {
	switch sqlType {
	case types.SQLTypeDate:
		return t.Format("2006-01-02")
	case types.SQLTypeTime:
		return t.Format("15:04:05")
	default:
		if t.Nanosecond() == 0 {
			return t.Format("2006-01-02 15:04:05")
		}
		return t.Format("2006-01-02 15:04:05.000")
	}
}

// isRowReturning reports whether sqltext's leading keyword, after
// skipping whitespace and comments, is SELECT or WITH. The underlying
// TDS client's database/sql driver hands back a valid zero-column,
// zero-row *sql.Rows for INSERT/UPDATE/DELETE rather than erroring, so a
// successful Query call alone can't tell a row-returning statement
// apart from DML; the statement text itself has to be classified before
// choosing between Query (to materialize rows) and Exec (to get an
// affected-row count).
func isRowReturning(sqltext string) bool {
	i, n := 0, len(sqltext)
	for i < n {
		switch {
		case sqltext[i] == ' ' || sqltext[i] == '\t' || sqltext[i] == '\n' || sqltext[i] == '\r':
			i++
			continue
		case sqltext[i] == '-' && i+1 < n && sqltext[i+1] == '-':
			if j := strings.IndexByte(sqltext[i:], '\n'); j >= 0 {
				i += j + 1
			} else {
				i = n
			}
			continue
		case sqltext[i] == '/' && i+1 < n && sqltext[i+1] == '*':
			if j := strings.Index(sqltext[i+2:], "*/"); j >= 0 {
				i += j + 4
			} else {
				i = n
			}
			continue
		}
		break
	}
	rest := sqltext[i:]
	end := len(rest)
	for k, r := range rest {
		if !unicode.IsLetter(r) {
			end = k
			break
		}
	}
	switch strings.ToUpper(rest[:end]) {
	case "SELECT", "WITH":
		return true
	default:
		return false
	}
}
