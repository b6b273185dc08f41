package raster

import "image"

type pixelClass uint8

const (
	classBlank pixelClass = iota // forced no-print
	classInk                     // forced print
	classMid                     // subject to thresholding or dithering
)

// quantize classifies every pixel of a zero-origin NRGBA image and packs
// the result MSB first.
//
// Classification: transparent pixels (alpha < 128) never print. Very dark
// pixels (luma < 32) also never print: logo assets drawn on a
// transparent/black canvas export their background as near-black, and
// printing it would cover the paper in solid blocks. Very light pixels
// (luma > 223) always print as ink. Everything in between is cut at the
// threshold, or error-diffused when dither is set.
func (e *Encoder) quantize(img *image.NRGBA, dither bool) *Bitmap {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()

	classes := make([]pixelClass, w*h)
	luma := make([]float64, w*h)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			i := y*w + x
			p := row[x*4 : x*4+4]
			if p[3] < 128 {
				classes[i] = classBlank
				continue
			}
			v := 0.299*float64(p[0]) + 0.587*float64(p[1]) + 0.114*float64(p[2])
			luma[i] = v
			switch {
			case v < 32:
				classes[i] = classBlank
			case v > 223:
				classes[i] = classInk
			default:
				classes[i] = classMid
			}
		}
	}

	byteWidth := (w + 7) / 8
	rows := make([]byte, byteWidth*h)
	set := func(x, y int) {
		rows[y*byteWidth+x/8] |= 0x80 >> uint(x%8)
	}

	threshold := float64(e.opts.Threshold)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			switch classes[i] {
			case classInk:
				set(x, y)
			case classMid:
				if dither {
					// Running threshold is fixed at 128 for error
					// diffusion; the configured level only applies to
					// threshold and fast modes.
					v := luma[i]
					if v < 128 {
						set(x, y)
						diffuse(classes, luma, w, h, x, y, v)
					} else {
						diffuse(classes, luma, w, h, x, y, v-255)
					}
				} else if luma[i] < threshold {
					set(x, y)
				}
			}
		}
	}

	return &Bitmap{ByteWidth: byteWidth, DotHeight: h, Rows: rows}
}

// diffuse spreads the quantization error of (x, y) into its unvisited
// neighbors with the Floyd-Steinberg weights: 7/16 right, 3/16 below
// left, 5/16 below, 1/16 below right. Only mid-range neighbors receive
// error so pixels with a forced classification keep it.
func diffuse(classes []pixelClass, luma []float64, w, h, x, y int, err float64) {
	spread := func(dx, dy int, weight float64) {
		nx, ny := x+dx, y+dy
		if nx < 0 || nx >= w || ny >= h {
			return
		}
		j := ny*w + nx
		if classes[j] == classMid {
			luma[j] += err * weight
		}
	}
	spread(1, 0, 7.0/16.0)
	spread(-1, 1, 3.0/16.0)
	spread(0, 1, 5.0/16.0)
	spread(1, 1, 1.0/16.0)
}

// skipRows keeps every skip-th row of a zero-origin NRGBA image.
func skipRows(src *image.NRGBA, skip int) *image.NRGBA {
	if skip <= 1 {
		return src
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, (h+skip-1)/skip))
	for oy, sy := 0, 0; sy < h; oy, sy = oy+1, sy+skip {
		copy(out.Pix[oy*out.Stride:oy*out.Stride+w*4], src.Pix[sy*src.Stride:sy*src.Stride+w*4])
	}
	return out
}
