package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/team-task-api/internal/errors"
)

// Pinger reports whether the store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health answers liveness probes, checking the store connection.
func Health(store Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := store.PingContext(ctx); err != nil {
			apierrors.ServiceUnavailable(c, "Database unreachable")
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
