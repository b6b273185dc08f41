// Package compose lays out receipt documents as printer command streams.
// The composer owns ordering and layout; the raster and barcode encoders
// own their command framing.
package compose

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vjloable/fredelicacies-pos-sub004/internal/escpos"
	"github.com/vjloable/fredelicacies-pos-sub004/internal/logo"
	"github.com/vjloable/fredelicacies-pos-sub004/internal/raster"
	"github.com/vjloable/fredelicacies-pos-sub004/pkg/receiptdoc"
)

// InvariantError reports a mismatch between the summed segment lengths
// and the bytes actually copied into the output buffer. It indicates a
// composer defect, never bad input, and no buffer is returned with it.
type InvariantError struct {
	Want, Got int
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("segment length mismatch: summed %d bytes, copied %d", e.Want, e.Got)
}

// Composer renders receipt documents into a single command buffer.
type Composer struct {
	logos  logo.Source
	raster *raster.Encoder
	logger *zap.Logger
}

// New returns a composer using source for logo fetches and enc for the
// raster conversion. A nil logger disables logging.
func New(source logo.Source, enc *raster.Encoder, logger *zap.Logger) *Composer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Composer{logos: source, raster: enc, logger: logger}
}

// Compose renders doc into one contiguous buffer. The only blocking step
// is the optional logo fetch, bounded by ctx; everything after it is
// pure formatting. Composition either succeeds fully (with or without
// the logo) or returns an error and no buffer.
func (c *Composer) Compose(ctx context.Context, doc *receiptdoc.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil document")
	}

	segs := c.segments(ctx, doc)
	buf, err := flatten(segs)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("receipt composed",
		zap.String("order_id", doc.OrderID),
		zap.Int("segments", len(segs)),
		zap.Int("bytes", len(buf)))
	return buf, nil
}

// segments builds the ordered command stream for doc: initialize, logo,
// then every body line with its alignment and weight switches, then the
// trailing feed and cut.
func (c *Composer) segments(ctx context.Context, doc *receiptdoc.Document) [][]byte {
	var segs [][]byte
	add := func(seg []byte) { segs = append(segs, seg) }

	add(escpos.Initialize)

	if doc.LogoURL != "" {
		if seg, ok := c.logoSegment(ctx, doc.LogoURL); ok {
			add(escpos.AlignCenter)
			add(seg)
			add([]byte{escpos.LF})
		}
	}

	// The logo leaves the printer centered, so the first line always
	// emits an alignment command.
	alignSet := false
	centered := false
	for _, line := range Lines(doc) {
		if !alignSet || line.Center != centered {
			if line.Center {
				add(escpos.AlignCenter)
			} else {
				add(escpos.AlignLeft)
			}
			alignSet = true
			centered = line.Center
		}
		if line.Bold {
			add(escpos.BoldOn)
		}
		add([]byte(line.Text + "\n"))
		if line.Bold {
			add(escpos.BoldOff)
		}
	}

	add([]byte("\n\n\n"))
	add(escpos.CutFull)

	return segs
}

// logoSegment fetches and encodes the logo. The bool reports whether a
// segment was produced; failures only log, because a missing logo must
// never block the sale.
func (c *Composer) logoSegment(ctx context.Context, url string) ([]byte, bool) {
	img, err := c.logos.Load(ctx, url)
	if err != nil {
		c.logger.Warn("skipping receipt logo", zap.String("url", url), zap.Error(err))
		return nil, false
	}

	seg, err := c.raster.Encode(img)
	if err != nil {
		c.logger.Warn("skipping receipt logo", zap.String("url", url), zap.Error(err))
		return nil, false
	}
	return seg, true
}

// flatten joins the segments with a two-pass assembly: sum every length,
// allocate exactly once, copy each segment at its offset. The passes
// disagreeing means a segment was dropped or double counted, which
// surfaces as *InvariantError instead of a short or padded buffer.
func flatten(segs [][]byte) ([]byte, error) {
	total := 0
	for _, seg := range segs {
		total += len(seg)
	}

	out := make([]byte, total)
	offset := 0
	for _, seg := range segs {
		offset += copy(out[offset:], seg)
	}

	if offset != total {
		return nil, &InvariantError{Want: total, Got: offset}
	}
	return out, nil
}
