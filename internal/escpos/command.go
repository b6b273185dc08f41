// Package escpos holds the raw ESC/POS command vocabulary shared by the
// raster, barcode and receipt encoders. Byte values here are part of the
// printer wire protocol and must not change.
package escpos

// Control bytes.
const (
	ESC byte = 0x1B // escape
	GS  byte = 0x1D // group separator
	LF  byte = 0x0A // line feed
	NUL byte = 0x00 // null terminator
)

// Fixed command sequences.
var (
	Initialize = []byte{ESC, '@'} // 1B 40 - reset printer state

	AlignLeft   = []byte{ESC, 'a', 0} // 1B 61 00
	AlignCenter = []byte{ESC, 'a', 1} // 1B 61 01
	AlignRight  = []byte{ESC, 'a', 2} // 1B 61 02

	BoldOn  = []byte{ESC, 'E', 1} // 1B 45 01
	BoldOff = []byte{ESC, 'E', 0} // 1B 45 00

	CutFull = []byte{GS, 'V', 0} // 1D 56 00 - full paper cut

	// RasterImage introduces a raster bit image in normal density.
	// Followed by width (bytes) and height (dots), each low-high,
	// then the packed rows.
	RasterImage = []byte{GS, 'v', '0', 0} // 1D 76 30 00

	SetBarcodeHeight = []byte{GS, 'h'} // 1D 68 n - height in dots
	SetBarcodeWidth  = []byte{GS, 'w'} // 1D 77 n - module width
	SetHRIPosition   = []byte{GS, 'H'} // 1D 48 n - HRI text position
	SetHRIFont       = []byte{GS, 'f'} // 1D 66 n - HRI font
	PrintBarcode     = []byte{GS, 'k'} // 1D 6B m - print barcode
)

// Feed returns the command advancing the paper n lines. The count is
// clamped to the single-byte range the printer accepts.
func Feed(n int) []byte {
	if n < 0 {
		n = 0
	}
	if n > 255 {
		n = 255
	}
	return []byte{ESC, 'd', byte(n)}
}
