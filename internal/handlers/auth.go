package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-task-api/internal/dto"
	apierrors "github.com/yukikurage/team-task-api/internal/errors"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService    *services.AuthService
	maxUploadBytes int64
	log            *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, maxUploadBytes int64, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		maxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

// Register creates a user from JSON or a multipart form with an optional profile_image.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Name             string `json:"name" form:"name"`
		Email            string `json:"email" form:"email"`
		Password         string `json:"password" form:"password"`
		AdminInviteToken string `json:"admin_invite_token" form:"admin_invite_token"`
	}

	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	avatar, err := readAvatar(c, h.maxUploadBytes)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	result, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		Name:             req.Name,
		Email:            req.Email,
		Password:         req.Password,
		AdminInviteToken: req.AdminInviteToken,
		Avatar:           avatar,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAuthResponse(result))
}

// Login authenticates a user and issues a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAuthResponse(result))
}

// Logout is a no-op; bearer tokens are discarded by the client.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetProfile returns the authenticated user.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	user, err := h.authService.GetProfile(p)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateProfile edits the authenticated user and returns a fresh token.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	type UpdateProfileRequest struct {
		Name     string       `json:"name" form:"name"`
		Email    string       `json:"email" form:"email"`
		Password string       `json:"password" form:"password"`
		Role     *models.Role `json:"role" form:"role"`
		IsActive *bool        `json:"is_active" form:"is_active"`
	}

	var req UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	avatar, err := readAvatar(c, h.maxUploadBytes)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	result, err := h.authService.UpdateProfile(c.Request.Context(), p, services.UserChanges{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		IsActive: req.IsActive,
		Avatar:   avatar,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAuthResponse(result))
}
