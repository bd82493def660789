package middleware

import (
	"github.com/sussybocca/FolderExplorer/internal/pkg"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionCookieName is the cookie the session token travels in
const SessionCookieName = "session"

// Context keys set by the auth middleware
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
)

// AuthMiddleware handles session authentication for protected routes
type AuthMiddleware struct {
	sessions *pkg.SessionManager
	logger   *pkg.Logger
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(sessions *pkg.SessionManager, logger *pkg.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		sessions: sessions,
		logger:   logger,
	}
}

// RequireAuth validates the session token and sets user context. The
// token is read from the session cookie first, then from a Bearer
// header.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.extractToken(c)
		if token == "" {
			m.logger.Debug("Auth middleware: no session token provided")
			pkg.UnauthorizedResponse(c, "Authentication required")
			c.Abort()
			return
		}

		claims := m.sessions.Verify(token)
		if claims == nil {
			m.logger.Debug("Auth middleware: session verification failed")
			pkg.UnauthorizedResponse(c, "Invalid or expired session")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user's ID from context
func CurrentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	value, exists := c.Get(ContextUserID)
	if !exists {
		return primitive.NilObjectID, false
	}
	id, ok := value.(primitive.ObjectID)
	return id, ok
}

func (m *AuthMiddleware) extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie
	}
	return pkg.ExtractTokenFromHeader(c.GetHeader("Authorization"))
}
