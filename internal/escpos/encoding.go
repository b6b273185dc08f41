package escpos

import "fmt"

// LowHigh encodes v into count bytes, least significant byte first. This is
// the multi-byte number format ESC/POS uses for raster dimensions. Values
// that do not fit are truncated to the low bytes; callers clamp ranges
// before encoding.
func LowHigh(v, count int) []byte {
	out := make([]byte, count)
	for i := 0; i < count; i++ {
		out[i] = byte(v % 256)
		v /= 256
	}
	return out
}

// HexDump renders data as uppercase two-digit hex values separated by
// single spaces, e.g. "1B 40 0A". Diagnostic output only, never part of
// the wire format.
func HexDump(data []byte) string {
	return fmt.Sprintf("% X", data)
}
