package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/puissance4/backend/internal/service/game"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	DB             Pinger
	SessionManager *game.SessionManager
}

func (h *HealthHandler) Health(c *gin.Context) {
	live := len(h.SessionManager.ActiveGames())
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.DB.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error(), "activeGames": live})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "activeGames": live})
}
