// Package api handles HTTP and WebSocket API endpoints.
package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vjloable/fredelicacies-pos-sub004/internal/barcode"
	"github.com/vjloable/fredelicacies-pos-sub004/internal/compose"
	"github.com/vjloable/fredelicacies-pos-sub004/internal/preview"
	"github.com/vjloable/fredelicacies-pos-sub004/internal/transport"
)

const requestIDKey = "request_id"

// Deps carries the wired components the server exposes.
type Deps struct {
	Composer *compose.Composer
	Barcodes barcode.Options
	Previews *preview.Renderer
	Printer  transport.Transport // nil runs the service render-only
	Origins  []string
	Logger   *zap.Logger
}

// Server is the API server.
type Server struct {
	router   *gin.Engine
	composer *compose.Composer
	barcodes barcode.Options
	previews *preview.Renderer
	printer  transport.Transport
	hub      *Hub
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewServer wires routes, middleware and the WebSocket hub.
func NewServer(deps Deps) *Server {
	gin.SetMode(gin.ReleaseMode)

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(logger))
	router.Use(corsMiddleware(deps.Origins))

	server := &Server{
		router:   router,
		composer: deps.Composer,
		barcodes: deps.Barcodes,
		previews: deps.Previews,
		printer:  deps.Printer,
		hub:      NewHub(logger),
		logger:   logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // origin policy lives in the CORS middleware
			},
		},
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	receipts := s.router.Group("/api/receipts")
	receipts.POST("/render", s.handleRenderReceipt)
	receipts.POST("/print", s.handlePrintReceipt)
	receipts.POST("/preview", s.handlePreviewReceipt)

	s.router.POST("/api/barcodes/render", s.handleRenderBarcode)

	s.router.GET("/ws", s.handleWebSocket)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "ok",
		"printer": s.printer != nil,
	})
}

// Handler exposes the router so callers can run it inside an
// http.Server with their own timeouts.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the API server on addr.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("status_code", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", c.GetString(requestIDKey)),
		}

		switch {
		case c.Writer.Status() >= 500:
			logger.Error("API request", fields...)
		case c.Writer.Status() >= 400:
			logger.Warn("API request", fields...)
		default:
			logger.Info("API request", fields...)
		}
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", "X-Request-ID")
	return cors.New(cfg)
}
