package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/team-task-api/internal/auth"
	"github.com/yukikurage/team-task-api/internal/config"
	"github.com/yukikurage/team-task-api/internal/database"
	"github.com/yukikurage/team-task-api/internal/middleware"
	"github.com/yukikurage/team-task-api/internal/models"
	"github.com/yukikurage/team-task-api/internal/repository"
	"github.com/yukikurage/team-task-api/internal/services"
	"gorm.io/gorm"
)

const testInviteToken = "invite-secret"

type fakeUploader struct {
	calls       int
	folder      string
	contentType string
}

func (f *fakeUploader) Store(_ context.Context, _ []byte, folder, contentType string) (string, error) {
	f.calls++
	f.folder = folder
	f.contentType = contentType
	return "https://cdn.example.com/" + folder + "/avatar.png", nil
}

// APITestSuite drives the full router against an in-memory database.
type APITestSuite struct {
	suite.Suite
	db       *gorm.DB
	router   *gin.Engine
	uploader *fakeUploader
}

// SetupTest runs before each test
func (suite *APITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := database.Connect(&config.Config{DBDriver: "sqlite", DBPath: ":memory:"}, logger)
	suite.Require().NoError(err)
	sqlDB, err := db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	suite.Require().NoError(database.Migrate(db, logger))
	suite.db = db

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	suite.uploader = &fakeUploader{}

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	authService := services.NewAuthService(userRepo, tokens, suite.uploader, testInviteToken)

	suite.router = gin.New()
	suite.router.GET("/health", Health(sqlDB))
	RegisterRoutes(suite.router, Handlers{
		Auth:    NewAuthHandler(authService, 1<<20, logger),
		Users:   NewUserHandler(services.NewUserService(userRepo, taskRepo, suite.uploader), 1<<20, logger),
		Tasks:   NewTaskHandler(services.NewTaskService(taskRepo, userRepo), services.NewDashboardService(taskRepo), nil, logger),
		Reports: NewReportHandler(services.NewReportService(taskRepo, userRepo), "en", logger),
	}, middleware.RequireAuth(authService, logger))
}

// TearDownTest runs after each test
func (suite *APITestSuite) TearDownTest() {
	suite.Require().NoError(database.Close(suite.db))
}

func (suite *APITestSuite) request(method, url, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *APITestSuite) decode(w *httptest.ResponseRecorder, v any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), v))
}

type authBody struct {
	ID       uint64      `json:"id"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
	IsActive bool        `json:"is_active"`
	Token    string      `json:"token"`
}

// register signs up through the API and returns the user with a token
func (suite *APITestSuite) register(name, inviteToken string) authBody {
	w := suite.request(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":               name,
		"email":              name + "@example.com",
		"password":           "password123",
		"admin_invite_token": inviteToken,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var body authBody
	suite.decode(w, &body)
	return body
}

func (suite *APITestSuite) createTask(adminToken string, payload map[string]any) taskBody {
	w := suite.request(http.MethodPost, "/api/tasks", adminToken, payload)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		Task taskBody `json:"task"`
	}
	suite.decode(w, &body)
	return body.Task
}

type taskBody struct {
	ID                 uint64              `json:"id"`
	Title              string              `json:"title"`
	Priority           models.TaskPriority `json:"priority"`
	Status             models.TaskStatus   `json:"status"`
	Progress           int                 `json:"progress"`
	TodoChecklist      []models.TodoItem   `json:"todo_checklist"`
	CompletedTodoCount int                 `json:"completed_todo_count"`
	AssignedTo         []struct {
		ID uint64 `json:"id"`
	} `json:"assigned_to"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (suite *APITestSuite) errorCode(w *httptest.ResponseRecorder) string {
	var body errorBody
	suite.decode(w, &body)
	return body.Code
}
