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

// CollaborationHandler handles the collaboration request flow
type CollaborationHandler struct {
	accessService *services.AccessService
}

// NewCollaborationHandler creates a new collaboration handler
func NewCollaborationHandler(accessService *services.AccessService) *CollaborationHandler {
	return &CollaborationHandler{
		accessService: accessService,
	}
}

// RespondRequest represents an owner's decision on a pending request
type RespondRequest struct {
	Action string `json:"action" binding:"required,oneof=accepted rejected"`
}

// Request files a pending collaboration request on a folder. Filing
// the same request twice is a no-op.
func (h *CollaborationHandler) Request(c *gin.Context) {
	userID, folderID, ok := requireUserAndFolder(c)
	if !ok {
		return
	}

	if err := h.accessService.RequestCollaboration(c.Request.Context(), userID, folderID); err != nil {
		respondError(c, err, "Failed to request collaboration")
		return
	}

	pkg.SuccessResponse(c, http.StatusOK, "Collaboration requested", nil)
}

// Respond lets a folder owner accept or reject a pending request
func (h *CollaborationHandler) Respond(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		pkg.UnauthorizedResponse(c, "Authentication required")
		return
	}

	collabID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		pkg.BadRequestResponse(c, "Invalid collaboration ID")
		return
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.BadRequestResponse(c, "Invalid request data: "+err.Error())
		return
	}

	action := models.CollaborationStatus(req.Action)
	if err := h.accessService.RespondToCollaboration(c.Request.Context(), userID, collabID, action); err != nil {
		respondError(c, err, "Failed to respond to collaboration")
		return
	}

	pkg.SuccessResponse(c, http.StatusOK, "Collaboration updated", nil)
}

// ListPending lists pending requests on the user's folders
func (h *CollaborationHandler) ListPending(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		pkg.UnauthorizedResponse(c, "Authentication required")
		return
	}

	pending, err := h.accessService.ListPendingCollaborations(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to list pending collaborations")
		return
	}

	pkg.SuccessResponse(c, http.StatusOK, "Pending collaborations retrieved", gin.H{
		"requests": pending,
	})
}
