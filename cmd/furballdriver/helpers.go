// helpers.go centralizes the cgo string/buffer marshaling every
// exported function needs: narrow and wide variants of "read a C
// string of length L or NTS" (where SQL_NTS instructs the driver to
// compute the length itself), and "copy a Go string/byte slice into
// the caller's buffer, returning the untruncated length." Pulling it
// out once avoids repeating the same unsafe.Pointer arithmetic in
// every exported function below.
package main

/*
#include "odbc_abi.h"
*/
import "C"

import (
	"unsafe"

	"github.com/furball-odbc/furball/internal/chartype"
)

// goString reads a narrow C string of the given length, or up to the
// first NUL byte if length is SQL_NTS.
func goString(p *C.SQLCHAR, length C.SQLSMALLINT) string {
	if p == nil {
		return ""
	}
	if length == C.SQL_NTS {
		return C.GoString((*C.char)(unsafe.Pointer(p)))
	}
	if length < 0 {
		return ""
	}
	return C.GoStringN((*C.char)(unsafe.Pointer(p)), C.int(length))
}

// goStringW reads a wide (UTF-16LE) C string of the given length in
// characters, or up to the first NUL code unit if length is SQL_NTS.
func goStringW(p *C.SQLWCHAR, length C.SQLSMALLINT) string {
	if p == nil {
		return ""
	}
	var units []uint16
	if length == C.SQL_NTS {
		for i := 0; ; i++ {
			u := *(*uint16)(unsafe.Pointer(uintptr(unsafe.Pointer(p)) + uintptr(i)*2))
			if u == 0 {
				break
			}
			units = append(units, u)
		}
	} else {
		if length < 0 {
			return ""
		}
		units = make([]uint16, length)
		for i := 0; i < int(length); i++ {
			units[i] = *(*uint16)(unsafe.Pointer(uintptr(unsafe.Pointer(p)) + uintptr(i)*2))
		}
	}
	return string(chartype.UTF16ToUTF8(units))
}

// putNarrow copies s into buf (capacity bufLen bytes, NUL-terminated)
// and reports the untruncated byte length via outLen, matching the
// SQLGetData/SQLDescribeCol/SQLGetInfo buffer contract: truncate
// leaving room for the terminator, but always report the full length.
func putNarrow(s string, buf *C.SQLCHAR, bufLen C.SQLSMALLINT, outLen *C.SQLSMALLINT) {
	raw := []byte(s)
	if outLen != nil {
		*outLen = C.SQLSMALLINT(len(raw))
	}
	if buf == nil || bufLen <= 0 {
		return
	}
	n := len(raw)
	if n > int(bufLen)-1 {
		n = int(bufLen) - 1
	}
	if n < 0 {
		n = 0
	}
	dst := unsafe.Slice((*byte)(unsafe.Pointer(buf)), int(bufLen))
	copy(dst, raw[:n])
	dst[n] = 0
}

// putWide copies s (UTF-16LE encoded, NUL-terminated) into buf, whose
// capacity bufLenChars is in 16-bit code units, reporting the
// untruncated code-unit count via outLen.
func putWide(s string, buf *C.SQLWCHAR, bufLenChars C.SQLSMALLINT, outLen *C.SQLSMALLINT) {
	units := chartype.UTF8ToUTF16(s)
	if outLen != nil {
		*outLen = C.SQLSMALLINT(len(units))
	}
	if buf == nil || bufLenChars <= 0 {
		return
	}
	n := len(units)
	if n > int(bufLenChars)-1 {
		n = int(bufLenChars) - 1
	}
	if n < 0 {
		n = 0
	}
	dst := unsafe.Slice((*uint16)(unsafe.Pointer(buf)), int(bufLenChars))
	copy(dst, units[:n])
	dst[n] = 0
}

// putBytes copies raw into a SQLPOINTER target buffer of capacity
// bufLen bytes without NUL-termination, the shape SQLGetData(SQL_C_*)
// needs for fixed-width and binary targets.
func putBytes(raw []byte, buf unsafe.Pointer, bufLen int) int {
	if buf == nil || bufLen <= 0 {
		return 0
	}
	n := len(raw)
	if n > bufLen {
		n = bufLen
	}
	dst := unsafe.Slice((*byte)(buf), bufLen)
	copy(dst, raw[:n])
	return n
}
