package compose

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vjloable/fredelicacies-pos-sub004/internal/raster"
	"github.com/vjloable/fredelicacies-pos-sub004/pkg/receiptdoc"
)

type stubSource struct {
	img image.Image
	err error
}

func (s *stubSource) Load(ctx context.Context, url string) (image.Image, error) {
	return s.img, s.err
}

func whiteLogo(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
		}
	}
	return img
}

func testComposer(src *stubSource) *Composer {
	return New(src, raster.NewEncoder(raster.DefaultOptions()), nil)
}

func testDoc() *receiptdoc.Document {
	return &receiptdoc.Document{
		OrderID:     "ORD-2051",
		Timestamp:   time.Date(2025, 6, 14, 18, 32, 0, 0, time.UTC),
		CashierName: "Mara",
		Items: []receiptdoc.LineItem{
			{Name: "Ube Cheese Pandesal", Quantity: 2, UnitPrice: decimal.NewFromInt(25), LineTotal: decimal.NewFromInt(50)},
			{Name: "Kapeng Barako", Quantity: 1, UnitPrice: decimal.NewFromInt(85), LineTotal: decimal.NewFromInt(85)},
		},
		Subtotal:   decimal.NewFromInt(135),
		Total:      decimal.NewFromInt(135),
		AmountPaid: decimal.NewFromInt(150),
		Change:     decimal.NewFromInt(15),
	}
}

func TestPadLeft(t *testing.T) {
	if got := padLeft("Subtotal:", 22); len(got) != 22 {
		t.Errorf("padLeft short input: length %d, want 22", len(got))
	}
	if got := padLeft("Subtotal:", 22); got != "             Subtotal:" {
		t.Errorf("padLeft = %q", got)
	}
	if got := padLeft("this is much longer than five", 5); got != "this " {
		t.Errorf("padLeft truncation = %q", got)
	}
	if got := padLeft("x", 0); got != "" {
		t.Errorf("padLeft to zero width = %q", got)
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("Item", 18); len(got) != 18 {
		t.Errorf("padRight short input: length %d, want 18", len(got))
	}
	if got := padRight("Item", 18); got != "Item              " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("a very long item name indeed", 18); got != "a very long item n" {
		t.Errorf("padRight truncation = %q", got)
	}
}

// Every composed buffer must be exactly the sum of its segments,
// whatever combination of logo, cashier and discount the document
// carries.
func TestBufferLengthEqualsSegmentSum(t *testing.T) {
	withLogo := testDoc()
	withLogo.LogoURL = "http://pos.local/logo.png"

	withDiscount := testDoc()
	withDiscount.Discount = &receiptdoc.Discount{Amount: decimal.NewFromInt(5), Code: "SAVE5"}

	noCashier := testDoc()
	noCashier.CashierName = ""

	noItems := testDoc()
	noItems.Items = nil

	cases := []struct {
		name string
		src  *stubSource
		doc  *receiptdoc.Document
	}{
		{"plain", &stubSource{}, testDoc()},
		{"logo ok", &stubSource{img: whiteLogo(64, 16)}, withLogo},
		{"logo fails", &stubSource{err: errors.New("fetch failed")}, withLogo},
		{"discount", &stubSource{}, withDiscount},
		{"no cashier", &stubSource{}, noCashier},
		{"no items", &stubSource{}, noItems},
	}

	for _, tc := range cases {
		c := testComposer(tc.src)
		segs := c.segments(context.Background(), tc.doc)
		sum := 0
		for _, seg := range segs {
			sum += len(seg)
		}

		buf, err := c.Compose(context.Background(), tc.doc)
		if err != nil {
			t.Errorf("%s: Compose failed: %v", tc.name, err)
			continue
		}
		if len(buf) != sum {
			t.Errorf("%s: buffer %d bytes, segments sum to %d", tc.name, len(buf), sum)
		}
	}
}

func TestComposeLayoutOrder(t *testing.T) {
	buf, err := testComposer(&stubSource{}).Compose(context.Background(), testDoc())
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if !bytes.HasPrefix(buf, []byte{0x1B, 0x40}) {
		t.Error("buffer must start with the initialize command")
	}
	if !bytes.HasSuffix(buf, []byte("Please come again\n\n\n\n\x1dV\x00")) {
		t.Errorf("buffer must end with the footer, three blank lines and the cut, got tail % X", buf[len(buf)-24:])
	}

	markers := []string{
		"Order #ORD-2051\n",
		"2025-06-14 18:32\n",
		"Cashier: Mara\n",
		"QTY  ITEM                AMOUNT\n",
		"--------------------------------\n",
		" 2Ube Cheese Pandesa   50.00\n",
		" 1Kapeng Barako        85.00\n",
		"             Subtotal:    135.00\n",
		"                TOTAL:    135.00\n",
		"                 Paid:    150.00\n",
		"               Change:     15.00\n",
		"Thank you for your purchase!\n",
	}
	last := -1
	for _, m := range markers {
		idx := bytes.Index(buf, []byte(m))
		if idx < 0 {
			t.Errorf("missing segment %q", m)
			continue
		}
		if idx < last {
			t.Errorf("segment %q out of order", m)
		}
		last = idx
	}
}

// A five-peso discount with code SAVE5 prints a negative discount line
// and the code immediately above the bolded total.
func TestComposeDiscountBlock(t *testing.T) {
	doc := testDoc()
	doc.Items = []receiptdoc.LineItem{
		{Name: "Family Bilao", Quantity: 1, UnitPrice: decimal.NewFromInt(50), LineTotal: decimal.NewFromInt(50)},
	}
	doc.Subtotal = decimal.NewFromInt(50)
	doc.Discount = &receiptdoc.Discount{Amount: decimal.NewFromInt(5), Code: "SAVE5"}
	doc.Total = decimal.NewFromInt(45)
	doc.AmountPaid = decimal.NewFromInt(50)
	doc.Change = decimal.NewFromInt(5)

	buf, err := testComposer(&stubSource{}).Compose(context.Background(), doc)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	discountLine := bytes.Index(buf, []byte("             Discount:     -5.00\n"))
	codeLine := bytes.Index(buf, []byte("                 Code:     SAVE5\n"))
	boldOn := bytes.Index(buf, []byte{0x1B, 0x45, 0x01})
	totalLine := bytes.Index(buf, []byte("                TOTAL:     45.00\n"))
	boldOff := bytes.Index(buf, []byte{0x1B, 0x45, 0x00})

	for name, idx := range map[string]int{
		"discount line": discountLine,
		"code line":     codeLine,
		"bold on":       boldOn,
		"total line":    totalLine,
		"bold off":      boldOff,
	} {
		if idx < 0 {
			t.Fatalf("missing %s", name)
		}
	}

	if !(discountLine < codeLine && codeLine < boldOn && boldOn < totalLine && totalLine < boldOff) {
		t.Errorf("discount block out of order: discount=%d code=%d boldOn=%d total=%d boldOff=%d",
			discountLine, codeLine, boldOn, totalLine, boldOff)
	}
}

// A failed logo fetch produces byte-for-byte the receipt of a document
// with no logo at all.
func TestComposeLogoFailureOmitsSegment(t *testing.T) {
	plain := testDoc()

	withLogo := testDoc()
	withLogo.LogoURL = "http://pos.local/logo.png"

	wantBuf, err := testComposer(&stubSource{}).Compose(context.Background(), plain)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	gotBuf, err := testComposer(&stubSource{err: errors.New("dns failure")}).Compose(context.Background(), withLogo)
	if err != nil {
		t.Fatalf("Compose with failing logo should not error: %v", err)
	}

	if !bytes.Equal(gotBuf, wantBuf) {
		t.Error("failed logo fetch should leave the rest of the receipt untouched")
	}
}

func TestComposeWithLogo(t *testing.T) {
	doc := testDoc()
	doc.LogoURL = "http://pos.local/logo.png"

	buf, err := testComposer(&stubSource{img: whiteLogo(16, 8)}).Compose(context.Background(), doc)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	logoSeg := []byte{
		0x1B, 0x61, 0x01, // center
		0x1D, 0x76, 0x30, 0x00, // raster command
		0x02, 0x00, // 2 bytes wide
		0x08, 0x00, // 8 dots tall
	}
	logoSeg = append(logoSeg, bytes.Repeat([]byte{0xFF}, 16)...)
	logoSeg = append(logoSeg, 0x0A)

	if !bytes.Contains(buf, logoSeg) {
		t.Error("centered raster segment missing or malformed")
	}

	logoAt := bytes.Index(buf, logoSeg)
	leftAt := bytes.Index(buf, []byte{0x1B, 0x61, 0x00})
	if leftAt >= 0 && logoAt > leftAt {
		t.Error("logo must print before the left-aligned order block")
	}
}

func TestComposeTruncatesLongNames(t *testing.T) {
	doc := testDoc()
	doc.Items = []receiptdoc.LineItem{
		{Name: "Special Halo-Halo Supreme with Extra Leche Flan", Quantity: 1,
			UnitPrice: decimal.NewFromInt(185), LineTotal: decimal.NewFromInt(185)},
	}

	buf, err := testComposer(&stubSource{}).Compose(context.Background(), doc)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if !bytes.Contains(buf, []byte(" 1Special Halo-Halo   185.00\n")) {
		t.Error("long names must truncate to the 18-character column")
	}
	if bytes.Contains(buf, []byte("Supreme")) {
		t.Error("truncated tail leaked into the output")
	}
}

func TestComposeNilDocument(t *testing.T) {
	if _, err := testComposer(&stubSource{}).Compose(context.Background(), nil); err == nil {
		t.Fatal("nil document should fail")
	}
}

func TestLinesStyleFlags(t *testing.T) {
	doc := testDoc()
	doc.Discount = &receiptdoc.Discount{Amount: decimal.NewFromInt(5), Code: "SAVE5"}
	lines := Lines(doc)

	boldCount, centerCount := 0, 0
	for _, line := range lines {
		if line.Bold {
			boldCount++
			if !strings.Contains(line.Text, "TOTAL:") {
				t.Errorf("unexpected bold line %q", line.Text)
			}
		}
		if line.Center {
			centerCount++
		}
	}
	if boldCount != 1 {
		t.Errorf("bold lines = %d, want exactly the total", boldCount)
	}
	if centerCount != 2 {
		t.Errorf("centered lines = %d, want the two footer lines", centerCount)
	}

	last := lines[len(lines)-1]
	if !last.Center || last.Text != "Please come again" {
		t.Errorf("last line = %+v", last)
	}
}

func TestFlattenMismatchSurfacesInvariant(t *testing.T) {
	_, err := flatten([][]byte{{1, 2, 3}})
	if err != nil {
		t.Fatalf("flatten on well-formed segments failed: %v", err)
	}

	var ierr *InvariantError
	if !errors.As(&InvariantError{Want: 10, Got: 7}, &ierr) {
		t.Fatal("InvariantError should satisfy errors.As")
	}
	if ierr.Error() == "" {
		t.Error("InvariantError must describe the mismatch")
	}
}
