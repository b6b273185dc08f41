// Package raster converts decoded images into the printer's 1-bit raster
// image command. Classification and dithering run on normalized NRGBA
// pixels so any decoder can feed the encoder.
package raster

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"

	"github.com/vjloable/fredelicacies-pos-sub004/internal/escpos"
)

// Mode selects the quantization strategy.
type Mode int

const (
	// ModeThreshold cuts mid-range pixels at a fixed luma level.
	ModeThreshold Mode = iota
	// ModeDither diffuses quantization error across mid-range pixels.
	ModeDither
	// ModeFast trades quality for throughput on slow printer links:
	// nearest-neighbor width downscale, row skipping, no dithering.
	ModeFast
)

// Options configures a conversion. The zero value is not useful; start
// from DefaultOptions and override fields as needed.
type Options struct {
	MaxWidthDots int // printable width cap, 384 dots on 58mm paper
	Mode         Mode
	Threshold    int // mid-range cut level for threshold and fast modes
	LineSkip     int // fast mode keeps every LineSkip-th row
}

// DefaultOptions returns the receipt logo defaults: full 384-dot width,
// dithered, threshold 128, fast-mode row skip of 2.
func DefaultOptions() Options {
	return Options{
		MaxWidthDots: 384,
		Mode:         ModeDither,
		Threshold:    128,
		LineSkip:     2,
	}
}

// Bitmap is a packed monochrome bitmap: one bit per dot, most significant
// bit first, row-major. Rows are padded to ByteWidth bytes and padding
// bits never print.
type Bitmap struct {
	ByteWidth int
	DotHeight int
	Rows      []byte
}

// Encoder converts images into raster commands.
type Encoder struct {
	opts Options
}

// NewEncoder returns an encoder with normalized options: zero or negative
// fields fall back to their defaults.
func NewEncoder(opts Options) *Encoder {
	if opts.MaxWidthDots <= 0 {
		opts.MaxWidthDots = 384
	}
	if opts.Threshold <= 0 {
		opts.Threshold = 128
	}
	if opts.Threshold > 255 {
		opts.Threshold = 255
	}
	if opts.LineSkip < 1 {
		opts.LineSkip = 2
	}
	return &Encoder{opts: opts}
}

// Encode converts img into a complete raster command: the raster opcode,
// byte width and dot height each low-high, then the packed rows.
func (e *Encoder) Encode(img image.Image) ([]byte, error) {
	bm, err := e.Bitmap(img)
	if err != nil {
		return nil, err
	}
	return Frame(bm), nil
}

// Bitmap quantizes img without the command framing.
func (e *Encoder) Bitmap(img image.Image) (*Bitmap, error) {
	if img == nil {
		return nil, fmt.Errorf("nil image")
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("image has no pixels: %dx%d", b.Dx(), b.Dy())
	}

	if e.opts.Mode == ModeFast {
		return e.quantize(e.fastGeometry(img), false), nil
	}
	return e.quantize(imaging.Clone(e.fitWidth(img)), e.opts.Mode == ModeDither), nil
}

// fitWidth scales img down to the printable width, preserving aspect
// ratio. Images already narrow enough pass through untouched; nothing is
// ever upscaled.
func (e *Encoder) fitWidth(img image.Image) image.Image {
	if img.Bounds().Dx() <= e.opts.MaxWidthDots {
		return img
	}
	return imaging.Resize(img, e.opts.MaxWidthDots, 0, imaging.Lanczos)
}

// fastGeometry applies the fast-mode geometry: nearest-neighbor column
// sampling down to the printable width, then dropping all but every
// LineSkip-th row. Height is reduced only by the row skip, which halves
// the line count at the default skip of 2.
func (e *Encoder) fastGeometry(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() > e.opts.MaxWidthDots {
		img = resize.Resize(uint(e.opts.MaxWidthDots), uint(b.Dy()), img, resize.NearestNeighbor)
	}
	return skipRows(imaging.Clone(img), e.opts.LineSkip)
}

// Frame wraps a packed bitmap in the raster image command.
func Frame(bm *Bitmap) []byte {
	out := make([]byte, 0, 8+len(bm.Rows))
	out = append(out, escpos.RasterImage...)
	out = append(out, escpos.LowHigh(bm.ByteWidth, 2)...)
	out = append(out, escpos.LowHigh(bm.DotHeight, 2)...)
	out = append(out, bm.Rows...)
	return out
}
