package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-task-api/internal/auth"
	"github.com/yukikurage/team-task-api/internal/constants"
	apierrors "github.com/yukikurage/team-task-api/internal/errors"
	"github.com/yukikurage/team-task-api/internal/middleware"
	"github.com/yukikurage/team-task-api/internal/policy"
	"github.com/yukikurage/team-task-api/internal/services"
	"github.com/yukikurage/team-task-api/internal/storage"
)

// respondError maps a service error onto the API error taxonomy.
func respondError(c *gin.Context, log *slog.Logger, err error) {
	switch {
	// Validation
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrInvalidTaskStatus),
		errors.Is(err, services.ErrInvalidTaskPriority),
		errors.Is(err, services.ErrChecklistRequired),
		errors.Is(err, services.ErrAssigneesNotList),
		errors.Is(err, services.ErrInvalidTaskAssignee),
		errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrEmailRequired),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrAITextRequired),
		errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks),
		errors.Is(err, errInvalidImage),
		errors.Is(err, errImageTooLarge),
		errors.Is(err, errInvalidDueDate):
		apierrors.BadRequest(c, err.Error())

	// Authentication
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, "")
	case errors.Is(err, auth.ErrInvalidToken):
		apierrors.InvalidToken(c, "")

	// Authorization
	case errors.Is(err, policy.ErrInactive):
		apierrors.AccountDisabled(c, "")
	case errors.Is(err, policy.ErrForbidden):
		apierrors.Forbidden(c, "")

	// Resources
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())

	// Collaborators
	case errors.Is(err, storage.ErrUploadNotConfigured),
		errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, err.Error())

	default:
		log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		apierrors.InternalErrorWithDetails(c, "Server error", err.Error())
	}
}

// parseIDParam reads a numeric path parameter, answering 400 when malformed.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// principal returns the authenticated principal, answering 401 when absent.
func principal(c *gin.Context) (policy.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
	}
	return p, ok
}
