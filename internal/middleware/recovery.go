package middleware

import (
	"runtime/debug"

	"github.com/sussybocca/FolderExplorer/internal/pkg"

	"github.com/gin-gonic/gin"
)

// Recovery converts panics into a 500 JSON response and logs the
// stack with the request ID.
func Recovery(logger *pkg.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Panic recovered", map[string]interface{}{
					"request_id": c.GetString(ContextRequestID),
					"method":     c.Request.Method,
					"path":       c.Request.URL.Path,
					"panic":      r,
					"stack":      string(debug.Stack()),
				})
				pkg.InternalServerErrorResponse(c, "Internal server error")
				c.Abort()
			}
		}()
		c.Next()
	}
}
