// Package preview renders receipt documents to PNG images approximating
// the printed paper. It is a diagnostic surface; the composer's byte
// stream is the product.
package preview

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/fogleman/gg"

	"github.com/vjloable/fredelicacies-pos-sub004/internal/compose"
	"github.com/vjloable/fredelicacies-pos-sub004/internal/logo"
	"github.com/vjloable/fredelicacies-pos-sub004/internal/raster"
	"github.com/vjloable/fredelicacies-pos-sub004/pkg/receiptdoc"
)

const (
	paperWidth = 384 // 58mm paper at 203 dpi
	margin     = 5.0
	lineHeight = 20.0
	fontSize   = 15.0
)

// Renderer draws receipt documents onto a paper-shaped canvas.
type Renderer struct {
	logos logo.Source
	enc   *raster.Encoder
}

// New returns a renderer sharing the service's logo source and raster
// encoder, so the preview logo matches the printed one dot for dot.
func New(source logo.Source, enc *raster.Encoder) *Renderer {
	return &Renderer{logos: source, enc: enc}
}

// Render draws doc and returns the image cropped to its content.
func (r *Renderer) Render(ctx context.Context, doc *receiptdoc.Document) (image.Image, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil document")
	}

	cv := newCanvas(paperWidth)

	if doc.LogoURL != "" {
		r.drawLogo(ctx, cv, doc.LogoURL)
	}

	for _, line := range compose.Lines(doc) {
		cv.drawLine(line)
	}

	if doc.OrderID != "" {
		cv.space(10)
		if err := cv.drawBarcode(doc.OrderID); err != nil {
			return nil, err
		}
		if err := cv.drawQRCode(doc.OrderID); err != nil {
			return nil, err
		}
	}

	return cv.crop(), nil
}

// RenderPNG renders doc and encodes the result as PNG.
func (r *Renderer) RenderPNG(ctx context.Context, doc *receiptdoc.Document) ([]byte, error) {
	img, err := r.Render(ctx, doc)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}
	return buf.Bytes(), nil
}

// drawLogo runs the logo through the real raster encoder and draws its
// bitmap, so the preview shows exactly the dots the printer would burn.
// Failures skip the logo, like the composer does.
func (r *Renderer) drawLogo(ctx context.Context, cv *canvas, url string) {
	img, err := r.logos.Load(ctx, url)
	if err != nil {
		return
	}
	bm, err := r.enc.Bitmap(img)
	if err != nil {
		return
	}
	cv.drawBitmap(bm)
}

// canvas is the mutable drawing state for one render pass.
type canvas struct {
	width  int
	height int
	ctx    *gg.Context
	y      float64
}

func newCanvas(width int) *canvas {
	// Start with a reasonable height and grow as needed.
	initialHeight := 1000

	ctx := gg.NewContext(width, initialHeight)
	ctx.SetColor(color.White)
	ctx.Clear()
	ctx.SetColor(color.Black)

	return &canvas{width: width, height: initialHeight, ctx: ctx}
}

func (cv *canvas) drawLine(line compose.Line) {
	cv.ensureHeight(int(lineHeight) + 5)

	if line.Text != "" {
		cv.loadFont(line.Bold)
		textWidth, textHeight := cv.ctx.MeasureString(line.Text)

		x := margin
		if line.Center {
			x = float64(cv.width)/2 - textWidth/2
		}
		cv.ctx.DrawString(line.Text, x, cv.y+textHeight)
	}

	cv.y += lineHeight
}

func (cv *canvas) drawBitmap(bm *raster.Bitmap) {
	img := bitmapImage(bm)
	h := img.Bounds().Dy()

	cv.ensureHeight(h + 10)
	x := (cv.width - img.Bounds().Dx()) / 2
	cv.ctx.DrawImage(img, x, int(cv.y))
	cv.y += float64(h) + 10
}

func (cv *canvas) space(px float64) {
	cv.ensureHeight(int(px))
	cv.y += px
}

func (cv *canvas) ensureHeight(needed int) {
	if int(cv.y)+needed <= cv.height {
		return
	}

	newHeight := cv.height * 2
	if newHeight < int(cv.y)+needed {
		newHeight = int(cv.y) + needed + 1000
	}

	newCtx := gg.NewContext(cv.width, newHeight)
	newCtx.SetColor(color.White)
	newCtx.Clear()
	newCtx.DrawImage(cv.ctx.Image(), 0, 0)
	newCtx.SetColor(color.Black)

	cv.ctx = newCtx
	cv.height = newHeight
}

func (cv *canvas) crop() image.Image {
	finalHeight := int(cv.y) + 30 // small bottom margin
	if finalHeight > cv.height {
		finalHeight = cv.height
	}

	img := cv.ctx.Image()
	return img.(interface {
		SubImage(r image.Rectangle) image.Image
	}).SubImage(image.Rect(0, 0, cv.width, finalHeight))
}

// loadFont switches to a monospace face so the fixed-width layout lines
// up like it does on paper. Falls back to the gg default face when no
// candidate is installed.
func (cv *canvas) loadFont(bold bool) {
	candidates := monoFonts
	if bold {
		candidates = monoBoldFonts
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			if err := cv.ctx.LoadFontFace(path, fontSize); err == nil {
				return
			}
		}
	}
}

var monoFonts = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSansMono.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationMono-Regular.ttf",
	"/System/Library/Fonts/Menlo.ttc",
	"C:\\Windows\\Fonts\\consola.ttf",
}

var monoBoldFonts = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSansMono-Bold.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationMono-Bold.ttf",
	"/System/Library/Fonts/Menlo.ttc",
	"C:\\Windows\\Fonts\\consolab.ttf",
}

// bitmapImage expands a packed raster bitmap into a grayscale image,
// one pixel per dot, padding bits included as blank.
func bitmapImage(bm *raster.Bitmap) *image.Gray {
	w := bm.ByteWidth * 8
	img := image.NewGray(image.Rect(0, 0, w, bm.DotHeight))

	for y := 0; y < bm.DotHeight; y++ {
		for x := 0; x < w; x++ {
			v := uint8(255)
			if bm.Rows[y*bm.ByteWidth+x/8]&(0x80>>uint(x%8)) != 0 {
				v = 0
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}
