package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-task-api/internal/middleware"
)

// Handlers groups every resource handler mounted under /api.
type Handlers struct {
	Auth    *AuthHandler
	Users   *UserHandler
	Tasks   *TaskHandler
	Reports *ReportHandler
}

// RegisterRoutes mounts the API. requireAuth resolves the bearer principal.
func RegisterRoutes(r *gin.Engine, h Handlers, requireAuth gin.HandlerFunc) {
	requireAdmin := middleware.RequireAdmin()

	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.GET("/logout", h.Auth.Logout)
			auth.GET("/profile", requireAuth, h.Auth.GetProfile)
			auth.PUT("/profile", requireAuth, h.Auth.UpdateProfile)
		}

		// User routes (protected)
		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("", requireAdmin, h.Users.ListUsers)
			users.GET("/:id", h.Users.GetUser)
			users.PUT("/:id", requireAdmin, h.Users.UpdateUser)
			users.DELETE("/:id", requireAdmin, h.Users.DeleteUser)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("/dashboard-data", h.Tasks.GetDashboardData)
			tasks.GET("/user-dashboard-data", h.Tasks.GetUserDashboardData)
			tasks.GET("", h.Tasks.ListTasks)
			tasks.POST("", requireAdmin, h.Tasks.CreateTask)
			tasks.POST("/generate", requireAdmin, h.Tasks.GenerateTasks)
			tasks.GET("/:id", h.Tasks.GetTask)
			tasks.PUT("/:id", requireAdmin, h.Tasks.UpdateTask)
			tasks.DELETE("/:id", requireAdmin, h.Tasks.DeleteTask)
			tasks.PUT("/:id/status", h.Tasks.UpdateTaskStatus)
			tasks.PUT("/:id/todo", h.Tasks.UpdateTaskChecklist)
		}

		// Report routes (admin)
		reports := api.Group("/reports")
		reports.Use(requireAuth, requireAdmin)
		{
			reports.GET("/export/tasks", h.Reports.ExportTasks)
			reports.GET("/export/users", h.Reports.ExportUsers)
		}
	}
}
