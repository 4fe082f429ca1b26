package types

import "testing"

func TestGUIDBytesRoundTrip(t *testing.T) {
	const s = "01234567-89ab-cdef-0123-456789abcdef"
	b, err := GUIDBytes(s)
	if err != nil {
		t.Fatalf("GUIDBytes: %v", err)
	}
	if got := GUIDString(b); got != s {
		t.Fatalf("expected round trip to %q, got %q", s, got)
	}
}

func TestGUIDBytesByteOrder(t *testing.T) {
	// Data1/Data2/Data3 reverse byte order relative to the canonical
	// string; Data4 (last 8 bytes) keeps its original order.
	b, err := GUIDBytes("00112233-4455-6677-8899-aabbccddeeff")
	if err != nil {
		t.Fatalf("GUIDBytes: %v", err)
	}
	want := [16]byte{
		0x33, 0x22, 0x11, 0x00,
		0x55, 0x44,
		0x77, 0x66,
		0x88, 0x99, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff,
	}
	if b != want {
		t.Fatalf("expected %x, got %x", want, b)
	}
}

func TestGUIDBytesInvalidString(t *testing.T) {
	if _, err := GUIDBytes("not-a-guid"); err == nil {
		t.Fatalf("expected an error for a malformed GUID string")
	}
}
