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

// UserHandler serves user administration endpoints.
type UserHandler struct {
	userService    *services.UserService
	maxUploadBytes int64
	log            *slog.Logger
}

func NewUserHandler(userService *services.UserService, maxUploadBytes int64, log *slog.Logger) *UserHandler {
	return &UserHandler{
		userService:    userService,
		maxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

// ListUsers returns members with their task counts
func (h *UserHandler) ListUsers(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	members, err := h.userService.ListMembers(p)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMemberDTOs(members))
}

// GetUser returns one user
func (h *UserHandler) GetUser(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(p, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// DeleteUser removes a user
func (h *UserHandler) DeleteUser(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(p, userID); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// UpdateUser lets an admin edit any user field. profile_image_url "null" removes the avatar.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateUserRequest struct {
		Name            string       `json:"name" form:"name"`
		Email           string       `json:"email" form:"email"`
		Password        string       `json:"password" form:"password"`
		Role            *models.Role `json:"role" form:"role"`
		IsActive        *bool        `json:"is_active" form:"is_active"`
		ProfileImageURL *string      `json:"profile_image_url" form:"profile_image_url"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	avatar, err := readAvatar(c, h.maxUploadBytes)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	user, err := h.userService.AdminUpdateUser(c.Request.Context(), p, userID, services.UserChanges{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Role:        req.Role,
		IsActive:    req.IsActive,
		ClearAvatar: req.ProfileImageURL != nil && *req.ProfileImageURL == "null",
		Avatar:      avatar,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated",
		"user":    dto.ToUserDTO(*user),
	})
}
