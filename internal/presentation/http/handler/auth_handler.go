package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/billing-counter/internal/application/service"
	"github.com/sangkips/billing-counter/internal/presentation/http/dto/request"
	"github.com/sangkips/billing-counter/internal/presentation/http/dto/response"
)

// AuthHandler handles counter sign-in
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles operator sign-in
// @Summary Login
// @Description Verify credentials with the backend and return a counter token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Login credentials"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	output, err := h.authService.Login(c.Request.Context(), &service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", gin.H{
		"user":         response.NewSessionResponse(output.Session),
		"access_token": output.AccessToken,
		"token_type":   "Bearer",
		"expires_at":   output.ExpiresAt,
	})
}

// Logout removes the stored session
// @Summary Logout
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Logged out successfully", nil)
}

// Me returns the operator signed in at this counter
// @Summary Current session
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	session, err := h.authService.CurrentSession(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if session == nil {
		response.Unauthorized(c, "Nobody is signed in at this counter")
		return
	}
	// A later sign-in replaces the counter session; older tokens no longer own it.
	if !strings.EqualFold(session.Username, GetUsername(c)) {
		response.Unauthorized(c, "Another operator is signed in at this counter")
		return
	}
	response.OK(c, "Session retrieved successfully", gin.H{
		"user": response.NewSessionResponse(session),
	})
}
