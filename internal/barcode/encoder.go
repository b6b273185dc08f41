package barcode

import (
	"bytes"

	"github.com/vjloable/fredelicacies-pos-sub004/internal/escpos"
)

// Encoder emits the printer command framing for a validated payload.
type Encoder struct {
	opts Options
}

// NewEncoder returns an encoder rendering with the given options.
func NewEncoder(opts Options) *Encoder {
	return &Encoder{opts: opts}
}

// Encode validates payload for sym and produces the complete command
// sequence: initialize, height, module width, HRI position, HRI font,
// then the symbol itself followed by the configured line feeds. Returns
// a *ValidationError before emitting anything if the payload is invalid.
func (e *Encoder) Encode(payload string, sym Symbology) ([]byte, error) {
	if err := Validate(payload, sym); err != nil {
		return nil, err
	}

	code, lengthPrefixed := typeCode(sym)
	if lengthPrefixed && len(payload) > 255 {
		return nil, &ValidationError{Symbology: sym, Rule: "payload exceeds the 255-byte length prefix"}
	}

	var buf bytes.Buffer
	buf.Write(escpos.Initialize)
	buf.Write(escpos.SetBarcodeHeight)
	buf.WriteByte(byte(clamp(e.opts.HeightDots, 1, 255)))
	buf.Write(escpos.SetBarcodeWidth)
	buf.WriteByte(byte(clamp(e.opts.ModuleWidth, 2, 6)))
	buf.Write(escpos.SetHRIPosition)
	buf.WriteByte(byte(e.opts.HRIPosition))
	buf.Write(escpos.SetHRIFont)
	buf.WriteByte(byte(e.opts.HRIFont))

	buf.Write(escpos.PrintBarcode)
	buf.WriteByte(code)
	if lengthPrefixed {
		buf.WriteByte(byte(len(payload)))
		buf.WriteString(payload)
	} else {
		buf.WriteString(payload)
		buf.WriteByte(escpos.NUL)
	}

	for i := 0; i < e.opts.FeedLines; i++ {
		buf.WriteByte(escpos.LF)
	}

	return buf.Bytes(), nil
}

// typeCode returns the symbol-select code for sym and whether the payload
// carries a length prefix. EAN/UPC use the legacy null-terminated codes;
// the rest use length-prefixed codes. Unrecognized symbologies fall back
// to CODE128. For CODE128 the payload is passed through as-is, so code
// set selectors ({A, {B) are the caller's to embed when their printer
// needs them.
func typeCode(sym Symbology) (byte, bool) {
	switch sym {
	case UPCA:
		return 0x00, false
	case EAN13:
		return 0x02, false
	case EAN8:
		return 0x03, false
	case CODE39:
		return 0x45, true
	case ITF:
		return 0x46, true
	case CODE128:
		return 0x49, true
	default:
		return 0x49, true
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
