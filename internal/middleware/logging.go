package middleware

import (
	"time"

	"github.com/sussybocca/FolderExplorer/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID back to the client
const RequestIDHeader = "X-Request-ID"

// ContextRequestID is the context key the request ID is stored under
const ContextRequestID = "request_id"

// LoggingMiddleware handles request logging
type LoggingMiddleware struct {
	logger    *pkg.Logger
	skipPaths map[string]bool
}

// NewLoggingMiddleware creates a new logging middleware
func NewLoggingMiddleware(logger *pkg.Logger, skipPaths ...string) *LoggingMiddleware {
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}
	return &LoggingMiddleware{
		logger:    logger,
		skipPaths: skip,
	}
}

// RequestID assigns every request an ID, honoring one the client sent
func (m *LoggingMiddleware) RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(ContextRequestID, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// LogRequests logs each request with timing and status
func (m *LoggingMiddleware) LogRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.skipPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := map[string]interface{}{
			"request_id": c.GetString(ContextRequestID),
			"method":     c.Request.Method,
			"path":       path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
			"ip":         c.ClientIP(),
		}
		if userID, ok := CurrentUserID(c); ok {
			fields["user_id"] = userID.Hex()
		}

		switch {
		case c.Writer.Status() >= 500:
			m.logger.Error("Request failed", fields)
		case c.Writer.Status() >= 400:
			m.logger.Warn("Request rejected", fields)
		default:
			m.logger.Info("Request completed", fields)
		}
	}
}
