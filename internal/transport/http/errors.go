package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/puissance4/backend/internal/domain"
	"github.com/iamasit07/puissance4/backend/internal/service/bot"
	"github.com/iamasit07/puissance4/backend/internal/service/game"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidColor),
		errors.Is(err, domain.ErrInvalidColumn),
		errors.Is(err, domain.ErrConfiguration),
		errors.Is(err, bot.ErrUnknownDifficulty):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrColumnFull),
		errors.Is(err, domain.ErrGameOver),
		errors.Is(err, domain.ErrNothingToUndo):
		return http.StatusConflict
	case errors.Is(err, game.ErrNotYourMove):
		return http.StatusForbidden
	case errors.Is(err, game.ErrGameNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
