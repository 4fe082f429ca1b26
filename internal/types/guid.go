package types

import (
	"github.com/google/uuid"
)

// GUIDBytes converts a canonical "8-4-4-4-12" GUID string into the
// 16-byte layout an ODBC SQLGUID buffer expects: the first three groups
// (Data1/Data2/Data3) are little-endian, the last two groups (Data4) keep
// their original big-endian byte order. uuid.UUID stores bytes in RFC
// 4122 (big-endian) order throughout, so the first three groups must be
// byte-reversed here.
func GUIDBytes(s string) ([16]byte, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return [16]byte{}, err
	}
	var out [16]byte
	// Data1: 4 bytes, big-endian in uuid.UUID -> little-endian in SQLGUID
	out[0], out[1], out[2], out[3] = u[3], u[2], u[1], u[0]
	// Data2: 2 bytes
	out[4], out[5] = u[5], u[4]
	// Data3: 2 bytes
	out[6], out[7] = u[7], u[6]
	// Data4: 8 bytes, unchanged
	copy(out[8:], u[8:16])
	return out, nil
}

// GUIDString is the inverse of GUIDBytes: given the 16-byte SQLGUID wire
// layout, it produces the canonical hyphenated GUID string.
func GUIDString(b [16]byte) string {
	var u uuid.UUID
	u[0], u[1], u[2], u[3] = b[3], b[2], b[1], b[0]
	u[4], u[5] = b[5], b[4]
	u[6], u[7] = b[7], b[6]
	copy(u[8:16], b[8:])
	return u.String()
}
