package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sussybocca/FolderExplorer/internal/middleware"
	"github.com/sussybocca/FolderExplorer/internal/pkg"
	"github.com/sussybocca/FolderExplorer/internal/services"

	"github.com/gin-gonic/gin"
)

// PublicCacheTTL matches the Cache-Control max-age on public serving
const PublicCacheTTL = 5 * time.Minute

// PublicHandler serves folder content as public static sites
type PublicHandler struct {
	contentService *services.ContentService
	cache          middleware.Cache
	logger         *pkg.Logger
}

// NewPublicHandler creates a new public serving handler
func NewPublicHandler(contentService *services.ContentService, cache middleware.Cache, logger *pkg.Logger) *PublicHandler {
	return &PublicHandler{
		contentService: contentService,
		cache:          cache,
		logger:         logger,
	}
}

// cachedFile is the cache representation of a served file
type cachedFile struct {
	Content     []byte `json:"content"`
	ContentType string `json:"contentType"`
}

// Serve answers GET /u/:username/:slug/*path without authentication
func (h *PublicHandler) Serve(c *gin.Context) {
	username := c.Param("username")
	slug := c.Param("slug")
	path := c.Param("path")

	key := fmt.Sprintf("public:%s:%s:%s", username, slug, path)
	if h.cache != nil {
		if raw, err := h.cache.Get(c.Request.Context(), key); err == nil {
			var cached cachedFile
			if err := json.Unmarshal(raw, &cached); err == nil {
				h.write(c, cached.Content, cached.ContentType)
				return
			}
		}
	}

	file, err := h.contentService.ServePublic(c.Request.Context(), username, slug, path)
	if err != nil {
		if appErr, ok := pkg.IsAppError(err); ok && appErr.StatusCode == http.StatusNotFound {
			c.String(http.StatusNotFound, "Not found")
			return
		}
		h.logger.Error("Public serve failed", map[string]interface{}{
			"username": username,
			"slug":     slug,
			"path":     path,
			"error":    err.Error(),
		})
		c.String(http.StatusBadGateway, "Upstream error")
		return
	}

	if h.cache != nil {
		raw, err := json.Marshal(cachedFile{Content: file.Content, ContentType: file.ContentType})
		if err == nil {
			if err := h.cache.Set(c.Request.Context(), key, raw, PublicCacheTTL); err != nil {
				h.logger.Warn("Public cache write failed", map[string]interface{}{
					"key":   key,
					"error": err.Error(),
				})
			}
		}
	}

	h.write(c, file.Content, file.ContentType)
}

func (h *PublicHandler) write(c *gin.Context, content []byte, contentType string) {
	c.Header("Cache-Control", "public, max-age=300")
	c.Data(http.StatusOK, contentType, content)
}
