// Package chartype converts between the narrow (SQL_C_CHAR) and wide
// (SQL_C_WCHAR) byte encodings the ABI surface copies into caller
// buffers, and the UTF-8 strings the row store and the TDS client use
// internally.
package chartype

import (
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

const replacementChar = '�'

// surrogate range boundaries, named as in the Go standard library's own
// unicode/utf16 package.
const (
	surr1 = 0xd800
	surr2 = 0xdc00
	surr3 = 0xe000
)

// UTF16ToUTF8 decodes a NUL-terminated (or full-length, if no NUL is
// present) UTF-16LE code unit sequence into UTF-8, handling surrogate
// pairs explicitly rather than delegating to unicode/utf16.Decode, which
// silently drops invalid surrogate halves instead of substituting U+FFFD.
func UTF16ToUTF8(s []uint16) []byte {
	for i, v := range s {
		if v == 0 {
			s = s[:i]
			break
		}
	}
	buf := make([]byte, 0, len(s)*2)
	b := make([]byte, 4)
	for i := 0; i < len(s); i++ {
		var rr rune
		switch r := s[i]; {
		case surr1 <= r && r < surr2 && i+1 < len(s) &&
			surr2 <= s[i+1] && s[i+1] < surr3:
			rr = utf16.DecodeRune(rune(r), rune(s[i+1]))
			i++
		case surr1 <= r && r < surr3:
			rr = replacementChar
		default:
			rr = rune(r)
		}
		n := utf8.EncodeRune(b, rr)
		buf = append(buf, b[:n]...)
	}
	return buf
}

// UTF8ToUTF16 encodes a Go string into UTF-16LE code units without a
// trailing NUL; callers that need a NUL terminator append one themselves
// (the ABI layer knows the exact buffer semantics SQLGetData requires).
func UTF8ToUTF16(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// wide is the shared encoder/decoder used for whole-string transforms
// pulled from the row store, as opposed to the surrogate-pair-aware
// codec above used directly at the cgo buffer boundary.
var wide = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// EncodeWide converts a UTF-8 string to its UTF-16LE byte representation
// using golang.org/x/text/encoding/unicode, the same transform
// github.com/thda/tds uses internally for wide character columns.
func EncodeWide(s string) ([]byte, error) {
	return wide.NewEncoder().Bytes([]byte(s))
}

// DecodeWide converts UTF-16LE bytes back to a UTF-8 string.
func DecodeWide(b []byte) (string, error) {
	out, err := wide.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
