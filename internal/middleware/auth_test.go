package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sussybocca/FolderExplorer/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newAuthTestRouter(t *testing.T) (*gin.Engine, *pkg.SessionManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := pkg.NewSessionManager("test-secret", time.Hour, "test")
	authMW := NewAuthMiddleware(sessions, pkg.NewLogger(pkg.LevelError))

	engine := gin.New()
	engine.GET("/protected", authMW.RequireAuth(), func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		require.True(t, ok)
		c.String(http.StatusOK, userID.Hex())
	})
	return engine, sessions
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	engine, _ := newAuthTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthAcceptsCookie(t *testing.T) {
	engine, sessions := newAuthTestRouter(t)

	userID := primitive.NewObjectID()
	token, err := sessions.Mint(userID, "alice")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID.Hex(), w.Body.String())
}

func TestRequireAuthAcceptsBearerHeader(t *testing.T) {
	engine, sessions := newAuthTestRouter(t)

	token, err := sessions.Mint(primitive.NewObjectID(), "alice")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuthRejectsTamperedToken(t *testing.T) {
	engine, sessions := newAuthTestRouter(t)

	token, err := sessions.Mint(primitive.NewObjectID(), "alice")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token+"x")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(CORS(nil))
	engine.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://example.com")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
