package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-task-api/internal/auth"
	"github.com/yukikurage/team-task-api/internal/config"
	"github.com/yukikurage/team-task-api/internal/database"
	"github.com/yukikurage/team-task-api/internal/handlers"
	"github.com/yukikurage/team-task-api/internal/logging"
	"github.com/yukikurage/team-task-api/internal/middleware"
	"github.com/yukikurage/team-task-api/internal/repository"
	"github.com/yukikurage/team-task-api/internal/services"
	"github.com/yukikurage/team-task-api/internal/storage"
	"github.com/yukikurage/team-task-api/internal/utils"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.Connect(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	// Run migrations
	if err := database.Migrate(db, logger); err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	// Asset storage
	var uploader storage.Uploader = storage.Disabled{}
	if cfg.UploadsEnabled() {
		s3Uploader, err := storage.NewS3Uploader(ctx, storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			return err
		}
		uploader = s3Uploader
	} else {
		logger.Warn("S3 is not configured; profile image uploads are disabled")
	}

	if cfg.UsesDefaultJWTSecret() {
		logger.Warn("JWT_SECRET is not set; tokens are signed with the built-in default key")
	}

	inviteToken := cfg.AdminInviteToken
	if inviteToken == "" {
		inviteToken, err = utils.GenerateInviteToken()
		if err != nil {
			return err
		}
		logger.Warn("ADMIN_INVITE_TOKEN is not set; generated one for this process", "admin_invite_token", inviteToken)
	}

	// Repositories and services
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	authService := services.NewAuthService(userRepo, tokens, uploader, inviteToken)
	userService := services.NewUserService(userRepo, taskRepo, uploader)
	taskService := services.NewTaskService(taskRepo, userRepo)
	dashboardService := services.NewDashboardService(taskRepo)
	reportService := services.NewReportService(taskRepo, userRepo)
	aiService := services.NewAIService(cfg.OpenAIAPIKey)

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger), middleware.CORS(cfg.ClientURL))

	// Health check endpoint
	r.GET("/health", handlers.Health(sqlDB))

	handlers.RegisterRoutes(r, handlers.Handlers{
		Auth:    handlers.NewAuthHandler(authService, cfg.MaxUploadBytes, logger),
		Users:   handlers.NewUserHandler(userService, cfg.MaxUploadBytes, logger),
		Tasks:   handlers.NewTaskHandler(taskService, dashboardService, aiService, logger),
		Reports: handlers.NewReportHandler(reportService, cfg.ReportLocale, logger),
	}, middleware.RequireAuth(authService, logger))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
