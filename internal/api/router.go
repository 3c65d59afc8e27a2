package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rickgao/pricing-board/internal/logging"
	"github.com/rickgao/pricing-board/internal/metrics"
	"github.com/rickgao/pricing-board/internal/wire"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"

// RouterConfig holds routing settings.
type RouterConfig struct {
	BasePath    string // Prefix for pricing routes (default: /marketplace/board)
	MetricsPath string // Empty disables the metrics route
}

// Deps are the collaborators mounted on the router. Stream, Health and
// Metrics are optional.
type Deps struct {
	Handler *Handler
	Stream  http.Handler
	Health  func() gin.H
	Metrics *metrics.Metrics
}

// NewRouter builds the gin engine.
func NewRouter(cfg RouterConfig, deps Deps, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BasePath == "" {
		cfg.BasePath = "/marketplace/board"
	}

	r := gin.New()
	r.Use(RequestLogger(logger, deps.Metrics), Recovery(logger))

	board := r.Group(cfg.BasePath)
	deps.Handler.RegisterRoutes(board)
	if deps.Stream != nil {
		board.GET("/stream", gin.WrapH(deps.Stream))
	}

	r.GET("/health", func(c *gin.Context) {
		body := gin.H{"status": "ok"}
		if deps.Health != nil {
			for k, v := range deps.Health() {
				body[k] = v
			}
		}
		c.JSON(http.StatusOK, body)
	})

	if deps.Metrics != nil && cfg.MetricsPath != "" {
		r.GET(cfg.MetricsPath, gin.WrapH(deps.Metrics.Handler()))
	}

	return r
}

// RequestLogger assigns a request id, logs each request and records HTTP
// metrics when m is non-nil.
func RequestLogger(logger *slog.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(HeaderRequestID, requestID)
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), requestID))

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		logger.InfoContext(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", duration,
			"client_ip", c.ClientIP(),
		)

		if m != nil {
			m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
			m.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(duration.Seconds())
		}
	}
}

// Recovery turns panics into a generic 500 body and logs the detail.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logger.ErrorContext(c.Request.Context(), "panic serving request",
			"panic", recovered,
			"path", c.Request.URL.Path,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, wire.ErrorResult{Message: MsgInternal})
	})
}
