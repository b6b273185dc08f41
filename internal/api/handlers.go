package api

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vjloable/fredelicacies-pos-sub004/internal/barcode"
	"github.com/vjloable/fredelicacies-pos-sub004/internal/escpos"
	"github.com/vjloable/fredelicacies-pos-sub004/pkg/receiptdoc"
)

// bindDocument decodes and validates the posted receipt document.
func (s *Server) bindDocument(c *gin.Context) (*receiptdoc.Document, bool) {
	var doc receiptdoc.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(400, gin.H{"error": fmt.Sprintf("invalid document: %v", err)})
		return nil, false
	}
	if err := doc.Validate(); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return nil, false
	}
	return &doc, true
}

// writePayload returns encoder output in the representation the caller
// asked for: raw bytes by default, hex or base64 via ?format=.
func (s *Server) writePayload(c *gin.Context, data []byte) {
	switch strings.ToLower(c.Query("format")) {
	case "hex":
		c.String(200, escpos.HexDump(data))
	case "base64":
		c.JSON(200, gin.H{
			"data":  base64.StdEncoding.EncodeToString(data),
			"bytes": len(data),
		})
	default:
		c.Data(200, "application/octet-stream", data)
	}
}

// handleRenderReceipt composes a receipt and returns the printer bytes
// without touching any transport.
func (s *Server) handleRenderReceipt(c *gin.Context) {
	doc, ok := s.bindDocument(c)
	if !ok {
		return
	}

	buf, err := s.composer.Compose(c.Request.Context(), doc)
	if err != nil {
		c.JSON(500, gin.H{"error": fmt.Sprintf("failed to compose receipt: %v", err)})
		return
	}

	s.writePayload(c, buf)
}

// handlePrintReceipt composes a receipt and writes it to the configured
// printer, broadcasting the job lifecycle over the WebSocket hub.
func (s *Server) handlePrintReceipt(c *gin.Context) {
	if s.printer == nil {
		c.JSON(503, gin.H{"error": "no printer transport configured"})
		return
	}

	doc, ok := s.bindDocument(c)
	if !ok {
		return
	}

	jobID := uuid.NewString()
	s.hub.Broadcast(EventPrintAccepted, gin.H{"job_id": jobID, "order_id": doc.OrderID})

	buf, err := s.composer.Compose(c.Request.Context(), doc)
	if err != nil {
		s.hub.Broadcast(EventPrintFailed, gin.H{"job_id": jobID, "error": err.Error()})
		c.JSON(500, gin.H{"error": fmt.Sprintf("failed to compose receipt: %v", err), "job_id": jobID})
		return
	}

	n, err := s.printer.Write(buf)
	if err != nil {
		s.hub.Broadcast(EventPrintFailed, gin.H{"job_id": jobID, "error": err.Error()})
		s.logger.Error("print failed",
			zap.String("job_id", jobID),
			zap.String("order_id", doc.OrderID),
			zap.Error(err))
		c.JSON(502, gin.H{"error": fmt.Sprintf("failed to write to printer: %v", err), "job_id": jobID})
		return
	}

	s.hub.Broadcast(EventPrintCompleted, gin.H{"job_id": jobID, "bytes": n})
	c.JSON(200, gin.H{"success": true, "job_id": jobID, "bytes": n})
}

// handlePreviewReceipt renders the receipt as a PNG approximation.
func (s *Server) handlePreviewReceipt(c *gin.Context) {
	doc, ok := s.bindDocument(c)
	if !ok {
		return
	}

	png, err := s.previews.RenderPNG(c.Request.Context(), doc)
	if err != nil {
		c.JSON(500, gin.H{"error": fmt.Sprintf("failed to render preview: %v", err)})
		return
	}

	c.Data(200, "image/png", png)
}

// handleRenderBarcode encodes a standalone barcode. Fields left out of
// the request keep the server's configured defaults.
func (s *Server) handleRenderBarcode(c *gin.Context) {
	var req struct {
		Payload     string `json:"payload" binding:"required"`
		Symbology   string `json:"symbology" binding:"required"`
		HeightDots  int    `json:"height_dots"`
		ModuleWidth int    `json:"module_width"`
		HRIPosition string `json:"hri_position"`
		HRIFont     string `json:"hri_font"`
		FeedLines   *int   `json:"feed_lines"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "payload and symbology are required"})
		return
	}

	sym, err := barcode.ParseSymbology(req.Symbology)
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	opts := s.barcodes
	if req.HeightDots > 0 {
		opts.HeightDots = req.HeightDots
	}
	if req.ModuleWidth > 0 {
		opts.ModuleWidth = req.ModuleWidth
	}
	if req.HRIPosition != "" {
		opts.HRIPosition = barcode.ParseHRIPosition(req.HRIPosition)
	}
	if req.HRIFont != "" {
		opts.HRIFont = barcode.ParseHRIFont(req.HRIFont)
	}
	if req.FeedLines != nil {
		opts.FeedLines = *req.FeedLines
	}

	data, err := barcode.NewEncoder(opts).Encode(req.Payload, sym)
	if err != nil {
		var verr *barcode.ValidationError
		if errors.As(err, &verr) {
			c.JSON(400, gin.H{"error": verr.Error()})
			return
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	s.writePayload(c, data)
}
