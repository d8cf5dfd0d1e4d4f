package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/puissance4/backend/internal/domain"
	"github.com/iamasit07/puissance4/backend/pkg/auth"
	"github.com/iamasit07/puissance4/backend/pkg/httputil"
)

const seatColorKey = "seat_color"

// SeatMiddleware checks an optional seat token against the :id route param.
// Requests without a token pass through unseated.
func SeatMiddleware(seats *auth.SeatIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := httputil.GetTokenFromRequest(c.Request)
		if err != nil || seats == nil {
			c.Next()
			return
		}

		color, err := seats.Seat(tokenString, c.Param("id"))
		if errors.Is(err, auth.ErrWrongGame) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid seat token"})
			return
		}

		cell := domain.Cell(color)
		if !cell.Valid() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid seat token"})
			return
		}
		c.Set(seatColorKey, cell)
		c.Next()
	}
}

// RequireSeat rejects requests SeatMiddleware left unseated. Without an
// issuer there are no seats to check and every request passes.
func RequireSeat(seats *auth.SeatIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if seats == nil {
			c.Next()
			return
		}
		if _, seated := SeatColor(c); !seated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Seat token required"})
			return
		}
		c.Next()
	}
}

// SeatColor returns the color bound to the request's seat token, if any.
func SeatColor(c *gin.Context) (domain.Cell, bool) {
	v, ok := c.Get(seatColorKey)
	if !ok {
		return domain.Empty, false
	}
	cell, ok := v.(domain.Cell)
	return cell, ok
}
