// Package getdata implements typed column retrieval: it converts one
// cell's canonical textual form into the bytes a C type buffer expects,
// independent of the cgo boundary that ultimately copies those bytes
// into the caller's pointer. Struct layouts (SQL_DATE_STRUCT etc.)
// follow the standard ODBC field order; the result is plain []byte
// rather than a driver.Value so the cgo layer decides how to copy.
package getdata

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/furball-odbc/furball/internal/chartype"
	"github.com/furball-odbc/furball/internal/types"
)

// Result is what SQLGetData must do with the caller's buffer:
// copy Data (already truncated to fit, if Truncated) and write Indicator
// into the indicator slot.
type Result struct {
	Data      []byte
	Indicator int64
	Truncated bool // true => SUCCESS_WITH_INFO, SQLSTATE 01004
	IsNull    bool
}

// nullResult is what every NULL cell converts to regardless of target
// type: it writes NULL_DATA into the indicator and succeeds without
// touching the caller's buffer.
func nullResult() Result {
	return Result{Indicator: int64(types.NullData), IsNull: true}
}

// Convert reads cell (nil means SQL NULL) and renders it as cType,
// honoring bufLen (the caller's buffer capacity in bytes, 0 meaning
// "report length only, as when probing"). desc carries the column's SQL
// type, used only by the Default dispatch case.
func Convert(cell *string, desc types.ColumnDesc, cType int16, bufLen int) (Result, error) {
	if cell == nil {
		return nullResult(), nil
	}
	s := *cell

	switch cType {
	case types.CChar:
		return narrowChar(s, bufLen), nil
	case types.CWChar:
		return wideChar(s, bufLen), nil
	case types.CLong:
		return fixedWidth(parseIntOrZero(s, 32), 4), nil
	case types.CShort:
		return fixedWidth(parseIntOrZero(s, 16), 2), nil
	case types.CSBigint:
		return fixedWidth(parseIntOrZero(s, 64), 8), nil
	case types.CUBigint:
		v, _ := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
		return rawUint64(v), nil
	case types.CFloat:
		f := parseFloatOrZero(s, 32)
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(f)))
		return Result{Data: buf, Indicator: 4}, nil
	case types.CDouble, types.CNumeric:
		f := parseFloatOrZero(s, 64)
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, math.Float64bits(f))
		return Result{Data: buf, Indicator: 8}, nil
	case types.CBit:
		var b byte
		if strings.TrimSpace(s) == "1" {
			b = 1
		}
		return Result{Data: []byte{b}, Indicator: 1}, nil
	case types.CTypeDate:
		return dateStruct(s)
	case types.CTypeTime:
		return timeStruct(s)
	case types.CTypeTstamp, types.CTimestamp:
		return timestampStruct(s)
	case types.CGUID:
		return guidBytes(s)
	case types.CBinary:
		return binaryBytes(s, bufLen), nil
	default:
		return Convert(cell, desc, types.SQLToCType(desc.SQLType), bufLen)
	}
}

// narrowChar emits s as NUL-terminated UTF-8, truncating to fit bufLen
// (leaving room for the terminator) and reporting the untruncated
// length in the indicator.
func narrowChar(s string, bufLen int) Result {
	raw := []byte(s)
	return terminatedChars(raw, len(raw), bufLen, 1)
}

// wideChar emits s as NUL-terminated UTF-16LE code units.
func wideChar(s string, bufLen int) Result {
	units := chartype.UTF8ToUTF16(s)
	raw := make([]byte, len(units)*2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(raw[i*2:], u)
	}
	return terminatedChars(raw, len(raw), bufLen, 2)
}

// terminatedChars truncates raw to fit within bufLen bytes while leaving
// room for a terminator of termLen bytes (1 for narrow, 2 for a wide
// code unit; truncation keeps whole termLen-sized units), and reports
// fullLen (the untruncated byte count, excluding terminator) as the
// indicator.
func terminatedChars(raw []byte, fullLen, bufLen, termLen int) Result {
	if bufLen <= 0 {
		return Result{Indicator: int64(fullLen)}
	}
	if len(raw)+termLen <= bufLen {
		out := make([]byte, len(raw)+termLen)
		copy(out, raw)
		return Result{Data: out, Indicator: int64(fullLen)}
	}
	n := bufLen - termLen
	n -= n % termLen
	if n < 0 {
		n = 0
	}
	out := make([]byte, n+termLen)
	copy(out, raw[:n])
	return Result{Data: out, Indicator: int64(fullLen), Truncated: true}
}

func parseIntOrZero(s string, bits int) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, bits)
	if err != nil {
		// Parse failures on numeric targets yield zero silently, a
		// documented compatibility quirk rather than an error.
		return 0
	}
	return v
}

func parseFloatOrZero(s string, bits int) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), bits)
	if err != nil {
		return 0
	}
	return v
}

func fixedWidth(v int64, size int) Result {
	buf := make([]byte, size)
	switch size {
	case 2:
		binary.LittleEndian.PutUint16(buf, uint16(int16(v)))
	case 4:
		binary.LittleEndian.PutUint32(buf, uint32(int32(v)))
	case 8:
		binary.LittleEndian.PutUint64(buf, uint64(v))
	}
	return Result{Data: buf, Indicator: int64(size)}
}

func rawUint64(v uint64) Result {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, v)
	return Result{Data: buf, Indicator: 8}
}

// layout: YYYY-MM-DD[ HH:MM:SS[.fff]]
func parseTemporal(s string) (year, month, day, hour, min, sec int, nsec uint32, err error) {
	s = strings.TrimSpace(s)
	datePart := s
	timePart := ""
	if i := strings.IndexByte(s, ' '); i >= 0 {
		datePart, timePart = s[:i], s[i+1:]
	} else if i := strings.IndexByte(s, 'T'); i >= 0 {
		datePart, timePart = s[:i], s[i+1:]
	}
	dateFields := strings.Split(datePart, "-")
	if len(dateFields) == 3 {
		year, _ = strconv.Atoi(dateFields[0])
		month, _ = strconv.Atoi(dateFields[1])
		day, _ = strconv.Atoi(dateFields[2])
	} else if datePart != "" {
		// time-only canonical form, e.g. "15:04:05"
		timePart = datePart
	}
	if timePart != "" {
		frac := ""
		if i := strings.IndexByte(timePart, '.'); i >= 0 {
			frac = timePart[i+1:]
			timePart = timePart[:i]
		}
		clock := strings.Split(timePart, ":")
		if len(clock) >= 1 {
			hour, _ = strconv.Atoi(clock[0])
		}
		if len(clock) >= 2 {
			min, _ = strconv.Atoi(clock[1])
		}
		if len(clock) >= 3 {
			sec, _ = strconv.Atoi(clock[2])
		}
		if frac != "" {
			for len(frac) < 9 {
				frac += "0"
			}
			n, _ := strconv.ParseUint(frac[:9], 10, 32)
			nsec = uint32(n)
		}
	}
	return year, month, day, hour, min, sec, nsec, nil
}

// SQL_DATE_STRUCT: SQLSMALLINT year; SQLUSMALLINT month, day. 6 bytes,
// no padding (all fields are 2 bytes wide).
func dateStruct(s string) (Result, error) {
	y, m, d, _, _, _, _, _ := parseTemporal(s)
	buf := make([]byte, 6)
	binary.LittleEndian.PutUint16(buf[0:], uint16(int16(y)))
	binary.LittleEndian.PutUint16(buf[2:], uint16(m))
	binary.LittleEndian.PutUint16(buf[4:], uint16(d))
	return Result{Data: buf, Indicator: 6}, nil
}

// SQL_TIME_STRUCT: SQLUSMALLINT hour, minute, second. 6 bytes.
func timeStruct(s string) (Result, error) {
	_, _, _, h, mi, se, _, _ := parseTemporal(s)
	buf := make([]byte, 6)
	binary.LittleEndian.PutUint16(buf[0:], uint16(h))
	binary.LittleEndian.PutUint16(buf[2:], uint16(mi))
	binary.LittleEndian.PutUint16(buf[4:], uint16(se))
	return Result{Data: buf, Indicator: 6}, nil
}

// SQL_TIMESTAMP_STRUCT: SQLSMALLINT year; SQLUSMALLINT month, day, hour,
// minute, second; SQLUINTEGER fraction (nanoseconds). 16 bytes.
func timestampStruct(s string) (Result, error) {
	y, m, d, h, mi, se, ns, _ := parseTemporal(s)
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint16(buf[0:], uint16(int16(y)))
	binary.LittleEndian.PutUint16(buf[2:], uint16(m))
	binary.LittleEndian.PutUint16(buf[4:], uint16(d))
	binary.LittleEndian.PutUint16(buf[6:], uint16(h))
	binary.LittleEndian.PutUint16(buf[8:], uint16(mi))
	binary.LittleEndian.PutUint16(buf[10:], uint16(se))
	binary.LittleEndian.PutUint32(buf[12:], ns)
	return Result{Data: buf, Indicator: 16}, nil
}

func guidBytes(s string) (Result, error) {
	b, err := types.GUIDBytes(s)
	if err != nil {
		return Result{Data: make([]byte, 16), Indicator: 16}, nil
	}
	return Result{Data: b[:], Indicator: 16}, nil
}

// binaryBytes decodes s as hex when every character is a hex digit
// (the canonical form the row writer emits for binary columns);
// otherwise it is already raw text and is copied byte-for-byte.
func binaryBytes(s string, bufLen int) Result {
	var raw []byte
	if isAllHex(s) {
		if b, err := hex.DecodeString(s); err == nil {
			raw = b
		}
	}
	if raw == nil {
		raw = []byte(s)
	}
	if bufLen <= 0 || len(raw) <= bufLen {
		return Result{Data: raw, Indicator: int64(len(raw))}
	}
	return Result{Data: raw[:bufLen], Indicator: int64(len(raw)), Truncated: true}
}

func isAllHex(s string) bool {
	if s == "" || len(s)%2 != 0 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// TimeValue parses the canonical form into a time.Time, for tests that
// want a structured comparison rather than raw struct bytes.
func TimeValue(s string) (time.Time, error) {
	for _, layout := range []string{
		"2006-01-02 15:04:05.000",
		"2006-01-02 15:04:05",
		"2006-01-02",
		"15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("getdata: cannot parse temporal value %q", s)
}
