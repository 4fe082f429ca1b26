package chartype

import (
	"testing"
	"unicode/utf16"
)

func TestUTF16ToUTF8BasicASCII(t *testing.T) {
	units := utf16.Encode([]rune("hello"))
	got := string(UTF16ToUTF8(units))
	if got != "hello" {
		t.Fatalf("expected %q, got %q", "hello", got)
	}
}

func TestUTF16ToUTF8StopsAtNUL(t *testing.T) {
	units := append(utf16.Encode([]rune("ab")), 0, 'c', 'd')
	got := string(UTF16ToUTF8(units))
	if got != "ab" {
		t.Fatalf("expected decoding to stop at the NUL, got %q", got)
	}
}

func TestUTF16ToUTF8SurrogatePair(t *testing.T) {
	// U+1F600 (grinning face emoji) encodes as a surrogate pair.
	units := utf16.Encode([]rune("😀"))
	if len(units) != 2 {
		t.Fatalf("expected emoji to encode as a surrogate pair, got %d units", len(units))
	}
	got := string(UTF16ToUTF8(units))
	if got != "😀" {
		t.Fatalf("expected round-trip of the emoji, got %q", got)
	}
}

func TestUTF16ToUTF8LoneSurrogateBecomesReplacementChar(t *testing.T) {
	units := []uint16{'a', 0xd800, 'b'} // unpaired high surrogate
	got := string(UTF16ToUTF8(units))
	want := "a�b"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestUTF8ToUTF16RoundTrip(t *testing.T) {
	s := "hello, 世界"
	units := UTF8ToUTF16(s)
	back := string(UTF16ToUTF8(units))
	if back != s {
		t.Fatalf("expected round trip to preserve %q, got %q", s, back)
	}
}

func TestEncodeDecodeWideRoundTrip(t *testing.T) {
	s := "round trip"
	b, err := EncodeWide(s)
	if err != nil {
		t.Fatalf("EncodeWide: %v", err)
	}
	got, err := DecodeWide(b)
	if err != nil {
		t.Fatalf("DecodeWide: %v", err)
	}
	if got != s {
		t.Fatalf("expected %q, got %q", s, got)
	}
}
