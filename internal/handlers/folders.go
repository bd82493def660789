package handlers

import (
	"net/http"

	"github.com/sussybocca/FolderExplorer/internal/middleware"
	"github.com/sussybocca/FolderExplorer/internal/models"
	"github.com/sussybocca/FolderExplorer/internal/pkg"
	"github.com/sussybocca/FolderExplorer/internal/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FolderHandler handles folder listing and config operations
type FolderHandler struct {
	folderService *services.FolderService
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folderService *services.FolderService) *FolderHandler {
	return &FolderHandler{
		folderService: folderService,
	}
}

// UpdateConfigRequest represents a folder config update request
type UpdateConfigRequest struct {
	Config models.FolderConfig `json:"config" binding:"required"`
}

// ListMine lists the folders the user owns or collaborates on
func (h *FolderHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		pkg.UnauthorizedResponse(c, "Authentication required")
		return
	}

	folders, err := h.folderService.ListMine(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to list folders")
		return
	}

	pkg.SuccessResponse(c, http.StatusOK, "Folders retrieved", gin.H{
		"folders": folders,
	})
}

// ListAll lists the newest folders across all users
func (h *FolderHandler) ListAll(c *gin.Context) {
	folders, err := h.folderService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list folders")
		return
	}

	pkg.SuccessResponse(c, http.StatusOK, "Folders retrieved", gin.H{
		"folders": folders,
	})
}

// GetConfig returns a folder's config
func (h *FolderHandler) GetConfig(c *gin.Context) {
	userID, folderID, ok := requireUserAndFolder(c)
	if !ok {
		return
	}

	config, err := h.folderService.GetConfig(c.Request.Context(), userID, folderID)
	if err != nil {
		respondError(c, err, "Failed to get folder config")
		return
	}

	pkg.SuccessResponse(c, http.StatusOK, "Config retrieved", gin.H{
		"config": config,
	})
}

// UpdateConfig merges options into a folder's config
func (h *FolderHandler) UpdateConfig(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		pkg.UnauthorizedResponse(c, "Authentication required")
		return
	}

	var req UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.BadRequestResponse(c, "Invalid request data: "+err.Error())
		return
	}

	merged, err := h.folderService.UpdateConfig(c.Request.Context(), userID, &services.UpdateConfigRequest{
		FolderID: c.Param("id"),
		Config:   req.Config,
	})
	if err != nil {
		respondError(c, err, "Failed to update folder config")
		return
	}

	pkg.SuccessResponse(c, http.StatusOK, "Config updated", gin.H{
		"config": merged,
	})
}

// ListFiles returns a folder's file listing
func (h *FolderHandler) ListFiles(c *gin.Context) {
	userID, folderID, ok := requireUserAndFolder(c)
	if !ok {
		return
	}

	files, err := h.folderService.ListFiles(c.Request.Context(), userID, folderID)
	if err != nil {
		respondError(c, err, "Failed to list files")
		return
	}

	pkg.SuccessResponse(c, http.StatusOK, "Files retrieved", gin.H{
		"files": files,
	})
}

// MintFolderPin returns a fresh pin for manual sharing
func (h *FolderHandler) MintFolderPin(c *gin.Context) {
	userID, folderID, ok := requireUserAndFolder(c)
	if !ok {
		return
	}

	pin, err := h.folderService.MintFolderPin(c.Request.Context(), userID, folderID)
	if err != nil {
		respondError(c, err, "Failed to mint pin")
		return
	}

	pkg.SuccessResponse(c, http.StatusOK, "Pin minted", gin.H{
		"pin": pin,
	})
}

// requireUser extracts the authenticated user, answering the request
// itself when none is set.
func requireUser(c *gin.Context) (primitive.ObjectID, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		pkg.UnauthorizedResponse(c, "Authentication required")
		return primitive.NilObjectID, false
	}
	return userID, true
}

// requireUserAndFolder extracts the authenticated user and the folder
// ID path parameter, answering the request itself on failure.
func requireUserAndFolder(c *gin.Context) (primitive.ObjectID, primitive.ObjectID, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		pkg.UnauthorizedResponse(c, "Authentication required")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}

	folderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		pkg.BadRequestResponse(c, "Invalid folder ID")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}

	return userID, folderID, true
}

// respondError maps service errors onto API responses
func respondError(c *gin.Context, err error, fallback string) {
	if appErr, ok := pkg.IsAppError(err); ok {
		pkg.ErrorResponseFromAppError(c, appErr)
		return
	}
	pkg.InternalServerErrorResponse(c, fallback)
}
