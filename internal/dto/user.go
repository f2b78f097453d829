package dto

import (
	"time"

	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/services"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID              uint64      `json:"id"`
	Name            string      `json:"name"`
	Email           string      `json:"email"`
	Role            models.Role `json:"role"`
	IsActive        bool        `json:"is_active"`
	ProfileImageURL *string     `json:"profile_image_url"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// AuthResponse is a user plus the bearer token issued for them
type AuthResponse struct {
	UserDTO
	Token string `json:"token"`
}

// MemberDTO is a member with task counts for the user listing
type MemberDTO struct {
	UserDTO
	PendingTasks    int64 `json:"pending_tasks"`
	InProgressTasks int64 `json:"in_progress_tasks"`
	CompletedTasks  int64 `json:"completed_tasks"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		Role:            user.Role,
		IsActive:        user.IsActive,
		ProfileImageURL: user.ProfileImageURL,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}
}

// ToAuthResponse converts an authentication result
func ToAuthResponse(result *services.AuthResult) AuthResponse {
	return AuthResponse{
		UserDTO: ToUserDTO(*result.User),
		Token:   result.Token,
	}
}

// ToMemberDTOs converts member summaries
func ToMemberDTOs(members []services.MemberSummary) []MemberDTO {
	dtos := make([]MemberDTO, len(members))
	for i, m := range members {
		dtos[i] = MemberDTO{
			UserDTO:         ToUserDTO(m.User),
			PendingTasks:    m.Pending,
			InProgressTasks: m.InProgress,
			CompletedTasks:  m.Completed,
		}
	}
	return dtos
}
