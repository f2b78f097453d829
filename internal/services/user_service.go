package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/team-task-api/internal/constants"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/policy"
	"github.com/yukikurage/team-task-api/internal/repository"
	"github.com/yukikurage/team-task-api/internal/storage"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailTaken           = errors.New("email already exists")
	ErrNameRequired         = errors.New("name is required")
	ErrEmailRequired        = errors.New("email is required")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrInvalidRole          = errors.New("role must be admin or member")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// Avatar is a buffered profile image.
type Avatar struct {
	Data        []byte
	ContentType string
}

// UserChanges holds a merge-if-present edit of a user. Empty strings and nil
// pointers keep the stored value.
type UserChanges struct {
	Name        string
	Email       string
	Password    string
	Role        *models.Role
	IsActive    *bool
	ClearAvatar bool
	Avatar      *Avatar
}

// MemberSummary is a member together with their assigned task counts.
type MemberSummary struct {
	User       models.User
	Pending    int64
	InProgress int64
	Completed  int64
}

// UserService handles user administration
type UserService struct {
	userRepo repository.UserRepository
	taskRepo repository.TaskRepository
	editor   *userEditor
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, taskRepo repository.TaskRepository, uploader storage.Uploader) *UserService {
	return &UserService{
		userRepo: userRepo,
		taskRepo: taskRepo,
		editor:   &userEditor{userRepo: userRepo, uploader: uploader},
	}
}

// ListMembers returns every member with pending, in progress and completed counts
func (s *UserService) ListMembers(principal policy.Principal) ([]MemberSummary, error) {
	if err := policy.Authorize(principal, policy.ActionManageUsers, policy.Target{}); err != nil {
		return nil, err
	}

	users, err := s.userRepo.List(models.RoleMember)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	counts, err := s.taskRepo.CountByAssigneeAndStatus()
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	byUser := make(map[uint64]map[models.TaskStatus]int64)
	for _, c := range counts {
		if byUser[c.UserID] == nil {
			byUser[c.UserID] = make(map[models.TaskStatus]int64)
		}
		byUser[c.UserID][c.Status] += c.Count
	}

	summaries := make([]MemberSummary, len(users))
	for i, user := range users {
		userCounts := byUser[user.ID]
		summaries[i] = MemberSummary{
			User:       user,
			Pending:    userCounts[models.TaskStatusPending],
			InProgress: userCounts[models.TaskStatusInProgress],
			Completed:  userCounts[models.TaskStatusCompleted],
		}
	}

	return summaries, nil
}

// GetUser returns a user the principal may view
func (s *UserService) GetUser(principal policy.Principal, userID uint64) (*models.User, error) {
	if err := policy.Authorize(principal, policy.ActionViewUser, policy.Target{UserID: userID}); err != nil {
		return nil, err
	}

	return findUser(s.userRepo, userID)
}

// DeleteUser permanently removes a user and their task assignments
func (s *UserService) DeleteUser(principal policy.Principal, userID uint64) error {
	if err := policy.Authorize(principal, policy.ActionManageUsers, policy.Target{}); err != nil {
		return err
	}

	if _, err := findUser(s.userRepo, userID); err != nil {
		return err
	}

	if err := s.userRepo.Delete(userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

// AdminUpdateUser edits any field of any user, including role and active flag
func (s *UserService) AdminUpdateUser(ctx context.Context, principal policy.Principal, userID uint64, changes UserChanges) (*models.User, error) {
	if err := policy.Authorize(principal, policy.ActionManageUsers, policy.Target{}); err != nil {
		return nil, err
	}

	user, err := findUser(s.userRepo, userID)
	if err != nil {
		return nil, err
	}

	if err := s.editor.apply(ctx, user, changes, true); err != nil {
		return nil, err
	}

	return user, nil
}

func findUser(repo repository.UserRepository, userID uint64) (*models.User, error) {
	user, err := repo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	if len(password) < constants.MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", ErrFailedToHashPassword
	}
	return string(hashed), nil
}

func uploadAvatar(ctx context.Context, uploader storage.Uploader, avatar *Avatar) (string, error) {
	url, err := uploader.Store(ctx, avatar.Data, constants.AvatarFolder, avatar.ContentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload profile image: %w", err)
	}
	return url, nil
}

// userEditor applies UserChanges for both self-service and admin edits.
type userEditor struct {
	userRepo repository.UserRepository
	uploader storage.Uploader
}

// apply validates changes, uploads any avatar and saves the user. Role and
// active flag are only considered when privileged is true.
func (e *userEditor) apply(ctx context.Context, user *models.User, changes UserChanges, privileged bool) error {
	if !privileged {
		changes.Role = nil
		changes.IsActive = nil
	}
	if changes.Role != nil && !changes.Role.Valid() {
		return ErrInvalidRole
	}

	var passwordHash string
	if changes.Password != "" {
		hashed, err := hashPassword(changes.Password)
		if err != nil {
			return err
		}
		passwordHash = hashed
	}

	email := normalizeEmail(changes.Email)
	if email != "" && email != user.Email {
		existing, err := e.userRepo.FindByEmail(email)
		if err == nil && existing.ID != user.ID {
			return ErrEmailTaken
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check email: %w", err)
		}
	}

	if name := strings.TrimSpace(changes.Name); name != "" {
		user.Name = name
	}
	if email != "" {
		user.Email = email
	}
	if passwordHash != "" {
		user.PasswordHash = passwordHash
	}
	if changes.Role != nil {
		user.Role = *changes.Role
	}
	if changes.IsActive != nil {
		user.IsActive = *changes.IsActive
	}
	if changes.ClearAvatar {
		user.ProfileImageURL = nil
	}
	if changes.Avatar != nil {
		url, err := uploadAvatar(ctx, e.uploader, changes.Avatar)
		if err != nil {
			return err
		}
		user.ProfileImageURL = &url
	}

	if err := e.userRepo.Update(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}
