package preview

import (
	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/skip2/go-qrcode"
)

// drawBarcode draws a CODE128 of the order id, the payload the POS app
// scans for order lookup.
func (cv *canvas) drawBarcode(value string) error {
	bc, err := code128.Encode(value)
	if err != nil {
		return err
	}

	targetWidth := cv.width - 40 // leave margins
	scaled, err := barcode.Scale(bc, targetWidth, 80)
	if err != nil {
		return err
	}

	h := scaled.Bounds().Dy()
	cv.ensureHeight(h + 20)
	x := (cv.width - scaled.Bounds().Dx()) / 2
	cv.ctx.DrawImage(scaled, x, int(cv.y))
	cv.y += float64(h) + 10

	return nil
}

// drawQRCode draws a QR of the order id.
func (cv *canvas) drawQRCode(value string) error {
	qr, err := qrcode.New(value, qrcode.Medium)
	if err != nil {
		return err
	}

	img := qr.Image(160)

	h := img.Bounds().Dy()
	cv.ensureHeight(h + 20)
	x := (cv.width - img.Bounds().Dx()) / 2
	cv.ctx.DrawImage(img, x, int(cv.y))
	cv.y += float64(h) + 10

	return nil
}
