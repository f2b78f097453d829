package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/team-task-api/internal/auth"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/policy"
	"github.com/yukikurage/team-task-api/internal/repository"
	"github.com/yukikurage/team-task-api/internal/storage"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrFailedToCreateUser = errors.New("failed to create user")
	ErrFailedToIssueToken = errors.New("failed to issue token")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo    repository.UserRepository
	tokens      *auth.TokenManager
	uploader    storage.Uploader
	inviteToken string
	editor      *userEditor
}

// NewAuthService creates a new AuthService. An empty inviteToken disables
// admin registration.
func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenManager, uploader storage.Uploader, inviteToken string) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		tokens:      tokens,
		uploader:    uploader,
		inviteToken: inviteToken,
		editor:      &userEditor{userRepo: userRepo, uploader: uploader},
	}
}

// AuthResult is an authenticated user together with a fresh bearer token.
type AuthResult struct {
	User  *models.User
	Token string
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Name             string
	Email            string
	Password         string
	AdminInviteToken string
	Avatar           *Avatar
}

// Register creates a member, or an admin when the invite token matches.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         models.RoleMember,
		IsActive:     true,
	}
	if s.inviteMatches(input.AdminInviteToken) {
		user.Role = models.RoleAdmin
	}

	if input.Avatar != nil {
		url, err := uploadAvatar(ctx, s.uploader, input.Avatar)
		if err != nil {
			return nil, err
		}
		user.ProfileImageURL = &url
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateUser, err)
	}

	return s.issue(user)
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the user with a new token.
func (s *AuthService) Login(input LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, policy.ErrInactive
	}

	return s.issue(user)
}

// Authenticate resolves a bearer token to an active user. It returns
// auth.ErrInvalidToken for bad tokens and policy.ErrInactive when the user is
// deactivated or gone.
func (s *AuthService) Authenticate(token string) (*models.User, error) {
	userID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, policy.ErrInactive
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.IsActive {
		return nil, policy.ErrInactive
	}

	return user, nil
}

// GetProfile retrieves the principal's own user record.
func (s *AuthService) GetProfile(principal policy.Principal) (*models.User, error) {
	if err := policy.Authorize(principal, policy.ActionViewUser, policy.Target{UserID: principal.ID}); err != nil {
		return nil, err
	}
	return findUser(s.userRepo, principal.ID)
}

// UpdateProfile edits the principal's own record and issues a new token.
// Role and active flag are ignored unless the principal is an admin.
func (s *AuthService) UpdateProfile(ctx context.Context, principal policy.Principal, changes UserChanges) (*AuthResult, error) {
	if err := policy.Authorize(principal, policy.ActionUpdateUser, policy.Target{UserID: principal.ID}); err != nil {
		return nil, err
	}

	user, err := findUser(s.userRepo, principal.ID)
	if err != nil {
		return nil, err
	}

	changes.ClearAvatar = false
	privileged := policy.Can(principal, policy.ActionChangePrivileges, policy.Target{UserID: user.ID})
	if err := s.editor.apply(ctx, user, changes, privileged); err != nil {
		return nil, err
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, ErrFailedToIssueToken
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) inviteMatches(presented string) bool {
	if s.inviteToken == "" || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(s.inviteToken)) == 1
}
