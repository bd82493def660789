package handlers

import (
	"net/http"

	"github.com/sussybocca/FolderExplorer/internal/middleware"
	"github.com/sussybocca/FolderExplorer/internal/pkg"
	"github.com/sussybocca/FolderExplorer/internal/services"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles pin issuance and session creation
type AuthHandler struct {
	authService  *services.AuthService
	cookieSecure bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieSecure: cookieSecure,
	}
}

// IssuePinRequest represents a pin request
type IssuePinRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password"`
}

// RedeemPinRequest represents a pin redemption request
type RedeemPinRequest struct {
	Username string `json:"username" binding:"required"`
	Pin      string `json:"pin" binding:"required"`
}

// IssuePin issues a short-lived login pin for a username. A new
// username is registered on first use.
func (h *AuthHandler) IssuePin(c *gin.Context) {
	var req IssuePinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.BadRequestResponse(c, "Invalid request data: "+err.Error())
		return
	}

	pin, err := h.authService.IssuePin(c.Request.Context(), &services.IssuePinRequest{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if appErr, ok := pkg.IsAppError(err); ok {
			pkg.ErrorResponseFromAppError(c, appErr)
			return
		}
		pkg.InternalServerErrorResponse(c, "Failed to issue pin")
		return
	}

	pkg.SuccessResponse(c, http.StatusOK, "Pin issued", gin.H{
		"pin": pin,
	})
}

// RedeemPin exchanges a valid pin for a session. The session token is
// returned in the body and also set as an httpOnly cookie.
func (h *AuthHandler) RedeemPin(c *gin.Context) {
	var req RedeemPinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		pkg.BadRequestResponse(c, "Invalid request data: "+err.Error())
		return
	}

	result, err := h.authService.RedeemPin(c.Request.Context(), &services.RedeemPinRequest{
		Username: req.Username,
		Pin:      req.Pin,
	})
	if err != nil {
		if appErr, ok := pkg.IsAppError(err); ok {
			pkg.ErrorResponseFromAppError(c, appErr)
			return
		}
		pkg.InternalServerErrorResponse(c, "Failed to redeem pin")
		return
	}

	maxAge := int(h.authService.SessionTTL().Seconds())
	c.SetCookie(middleware.SessionCookieName, result.SessionToken, maxAge, "/", "", h.cookieSecure, true)

	pkg.SuccessResponse(c, http.StatusOK, "Session created", result)
}

// Logout clears the session cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", h.cookieSecure, true)
	pkg.SuccessResponse(c, http.StatusOK, "Logged out", nil)
}

// Me returns the authenticated user's identity from the session
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		pkg.UnauthorizedResponse(c, "Authentication required")
		return
	}

	pkg.SuccessResponse(c, http.StatusOK, "Session valid", gin.H{
		"userId":   userID.Hex(),
		"username": c.GetString(middleware.ContextUsername),
	})
}
