package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/team-task-api/internal/auth"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/policy"
	"github.com/yukikurage/team-task-api/internal/repository"
	"github.com/yukikurage/team-task-api/internal/storage"
	"gorm.io/gorm"
)

const testInviteToken = "ABCD-EFGH-JKLM-NPQR"

type AuthServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	tokens   *auth.TokenManager
	uploader *fakeUploader
	service  *AuthService
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.tokens = auth.NewTokenManager("test-secret", time.Hour)
	suite.uploader = &fakeUploader{}
	suite.service = NewAuthService(repository.NewUserRepository(suite.db), suite.tokens, suite.uploader, testInviteToken)
}

func (suite *AuthServiceTestSuite) register(name, invite string) *AuthResult {
	result, err := suite.service.Register(context.Background(), RegisterInput{
		Name:             name,
		Email:            name + "@example.com",
		Password:         "secret1",
		AdminInviteToken: invite,
	})
	suite.Require().NoError(err)
	return result
}

func (suite *AuthServiceTestSuite) TestRegister_MemberByDefault() {
	result := suite.register("alice", "")

	suite.Equal(models.RoleMember, result.User.Role)
	suite.True(result.User.IsActive)
	suite.NotEmpty(result.Token)
	suite.NotEqual("secret1", result.User.PasswordHash)

	userID, err := suite.tokens.Parse(result.Token)
	suite.Require().NoError(err)
	suite.Equal(result.User.ID, userID)
}

func (suite *AuthServiceTestSuite) TestRegister_InviteTokenGrantsAdmin() {
	suite.Equal(models.RoleAdmin, suite.register("root", testInviteToken).User.Role)
	suite.Equal(models.RoleMember, suite.register("guess", "WRONG-TOKEN").User.Role)
}

func (suite *AuthServiceTestSuite) TestRegister_EmptyConfiguredInviteNeverMatches() {
	service := NewAuthService(repository.NewUserRepository(suite.db), suite.tokens, suite.uploader, "")

	result, err := service.Register(context.Background(), RegisterInput{
		Name: "eve", Email: "eve@example.com", Password: "secret1", AdminInviteToken: "",
	})
	suite.Require().NoError(err)
	suite.Equal(models.RoleMember, result.User.Role)
}

func (suite *AuthServiceTestSuite) TestRegister_DuplicateEmail() {
	suite.register("alice", "")

	result, err := suite.service.Register(context.Background(), RegisterInput{
		Name: "Alice Again", Email: " ALICE@example.com ", Password: "secret1",
	})
	suite.ErrorIs(err, ErrEmailTaken)
	suite.Nil(result)
}

func (suite *AuthServiceTestSuite) TestRegister_DuplicateEmailBeatsShortPassword() {
	suite.register("alice", "")

	_, err := suite.service.Register(context.Background(), RegisterInput{
		Name: "Alice Again", Email: "alice@example.com", Password: "123",
	})
	suite.ErrorIs(err, ErrEmailTaken)
}

// failingCreateRepo stores nothing and reports why.
type failingCreateRepo struct {
	repository.UserRepository
	err error
}

func (r failingCreateRepo) Create(*models.User) error {
	return r.err
}

func (suite *AuthServiceTestSuite) TestRegister_StoreErrorKeepsDetail() {
	repo := failingCreateRepo{
		UserRepository: repository.NewUserRepository(suite.db),
		err:            errors.New("disk I/O error"),
	}
	service := NewAuthService(repo, suite.tokens, suite.uploader, testInviteToken)

	_, err := service.Register(context.Background(), RegisterInput{
		Name: "carol", Email: "carol@example.com", Password: "secret1",
	})
	suite.ErrorIs(err, ErrFailedToCreateUser)
	suite.Contains(err.Error(), "disk I/O error")
}

func (suite *AuthServiceTestSuite) TestRegister_Validation() {
	ctx := context.Background()

	_, err := suite.service.Register(ctx, RegisterInput{Email: "a@example.com", Password: "secret1"})
	suite.ErrorIs(err, ErrNameRequired)

	_, err = suite.service.Register(ctx, RegisterInput{Name: "a", Password: "secret1"})
	suite.ErrorIs(err, ErrEmailRequired)

	_, err = suite.service.Register(ctx, RegisterInput{Name: "a", Email: "a@example.com", Password: "12345"})
	suite.ErrorIs(err, ErrPasswordTooShort)
}

func (suite *AuthServiceTestSuite) TestRegister_UploadsAvatar() {
	result, err := suite.service.Register(context.Background(), RegisterInput{
		Name: "pic", Email: "pic@example.com", Password: "secret1",
		Avatar: &Avatar{Data: []byte("png"), ContentType: "image/png"},
	})
	suite.Require().NoError(err)

	suite.Equal(1, suite.uploader.calls)
	suite.Equal("users", suite.uploader.folder)
	suite.Require().NotNil(result.User.ProfileImageURL)
}

func (suite *AuthServiceTestSuite) TestRegister_UploadUnavailable() {
	service := NewAuthService(repository.NewUserRepository(suite.db), suite.tokens, storage.Disabled{}, "")

	_, err := service.Register(context.Background(), RegisterInput{
		Name: "pic", Email: "pic@example.com", Password: "secret1",
		Avatar: &Avatar{Data: []byte("png"), ContentType: "image/png"},
	})
	suite.ErrorIs(err, storage.ErrUploadNotConfigured)
}

func (suite *AuthServiceTestSuite) TestLogin() {
	registered := suite.register("alice", "")

	result, err := suite.service.Login(LoginInput{Email: "alice@example.com", Password: "secret1"})
	suite.Require().NoError(err)
	suite.Equal(registered.User.ID, result.User.ID)
	suite.NotEmpty(result.Token)

	_, err = suite.service.Login(LoginInput{Email: "alice@example.com", Password: "wrong!!"})
	suite.ErrorIs(err, ErrInvalidCredentials)

	_, err = suite.service.Login(LoginInput{Email: "nobody@example.com", Password: "secret1"})
	suite.ErrorIs(err, ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestLogin_InactiveUser() {
	registered := suite.register("alice", "")
	suite.Require().NoError(suite.db.Model(registered.User).Update("is_active", false).Error)

	_, err := suite.service.Login(LoginInput{Email: "alice@example.com", Password: "secret1"})
	suite.ErrorIs(err, policy.ErrInactive)
}

func (suite *AuthServiceTestSuite) TestAuthenticate() {
	registered := suite.register("alice", "")

	user, err := suite.service.Authenticate(registered.Token)
	suite.Require().NoError(err)
	suite.Equal(registered.User.ID, user.ID)

	_, err = suite.service.Authenticate("not-a-token")
	suite.ErrorIs(err, auth.ErrInvalidToken)

	suite.Require().NoError(suite.db.Model(registered.User).Update("is_active", false).Error)
	_, err = suite.service.Authenticate(registered.Token)
	suite.ErrorIs(err, policy.ErrInactive)

	suite.Require().NoError(suite.db.Delete(&models.User{}, registered.User.ID).Error)
	_, err = suite.service.Authenticate(registered.Token)
	suite.ErrorIs(err, policy.ErrInactive)
}

func (suite *AuthServiceTestSuite) TestUpdateProfile_MemberCannotChangePrivileges() {
	registered := suite.register("alice", "")
	admin := models.RoleAdmin
	inactive := false

	result, err := suite.service.UpdateProfile(context.Background(), principalOf(registered.User), UserChanges{
		Name:     "Alice Cooper",
		Role:     &admin,
		IsActive: &inactive,
	})
	suite.Require().NoError(err)

	suite.Equal("Alice Cooper", result.User.Name)
	suite.Equal(models.RoleMember, result.User.Role)
	suite.True(result.User.IsActive)
	suite.NotEmpty(result.Token)
}

func (suite *AuthServiceTestSuite) TestUpdateProfile_AdminMayChangeOwnRole() {
	registered := suite.register("root", testInviteToken)
	member := models.RoleMember

	result, err := suite.service.UpdateProfile(context.Background(), principalOf(registered.User), UserChanges{Role: &member})
	suite.Require().NoError(err)
	suite.Equal(models.RoleMember, result.User.Role)
}

func (suite *AuthServiceTestSuite) TestUpdateProfile_EmailAndPassword() {
	suite.register("bob", "")
	alice := suite.register("alice", "")

	_, err := suite.service.UpdateProfile(context.Background(), principalOf(alice.User), UserChanges{Email: "bob@example.com"})
	suite.ErrorIs(err, ErrEmailTaken)

	_, err = suite.service.UpdateProfile(context.Background(), principalOf(alice.User), UserChanges{Password: "123"})
	suite.ErrorIs(err, ErrPasswordTooShort)

	_, err = suite.service.UpdateProfile(context.Background(), principalOf(alice.User), UserChanges{
		Email:    "alice.new@example.com",
		Password: "newsecret",
	})
	suite.Require().NoError(err)

	_, err = suite.service.Login(LoginInput{Email: "alice.new@example.com", Password: "newsecret"})
	suite.NoError(err)
}

func (suite *AuthServiceTestSuite) TestGetProfile() {
	registered := suite.register("alice", "")

	user, err := suite.service.GetProfile(principalOf(registered.User))
	suite.Require().NoError(err)
	suite.Equal("alice@example.com", user.Email)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
