package http

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/puissance4/backend/internal/domain"
	"github.com/iamasit07/puissance4/backend/internal/service/game"
	"github.com/iamasit07/puissance4/backend/internal/transport/http/middleware"
	"github.com/iamasit07/puissance4/backend/pkg/auth"
)

// SnapshotLoader reads the last cached snapshot of a game that is no
// longer held in memory.
type SnapshotLoader interface {
	Load(ctx context.Context, gameID string) ([]byte, error)
}

type GameHandler struct {
	SessionManager *game.SessionManager
	Seats          *auth.SeatIssuer
	Cache          SnapshotLoader
	Rows           int
	Columns        int
}

func NewGameHandler(sm *game.SessionManager, seats *auth.SeatIssuer, rows, columns int) *GameHandler {
	return &GameHandler{SessionManager: sm, Seats: seats, Rows: rows, Columns: columns}
}

type createGameRequest struct {
	Rows       int         `json:"rows"`
	Columns    int         `json:"columns"`
	Bot        domain.Cell `json:"bot"`
	Difficulty string      `json:"difficulty"`
}

type createGameResponse struct {
	Game  game.Snapshot     `json:"game"`
	Seats map[string]string `json:"seats"` // color name → seat token
}

// CreateGame starts a game and hands out one seat token per human color.
func (h *GameHandler) CreateGame(c *gin.Context) {
	req := createGameRequest{Rows: h.Rows, Columns: h.Columns}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	session, err := h.SessionManager.CreateSession(game.Options{
		Rows:          req.Rows,
		Columns:       req.Columns,
		BotColor:      req.Bot,
		BotDifficulty: req.Difficulty,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	seats := make(map[string]string)
	for _, color := range []domain.Cell{domain.Red, domain.Yellow} {
		if color == session.BotColor || h.Seats == nil {
			continue
		}
		token, err := h.Seats.GenerateSeatToken(session.GameID, int(color))
		if err != nil {
			respondError(c, err)
			return
		}
		seats[color.Name()] = token
	}

	c.JSON(http.StatusCreated, createGameResponse{Game: session.Snapshot(), Seats: seats})
}

func (h *GameHandler) ListGames(c *gin.Context) {
	c.JSON(http.StatusOK, h.SessionManager.ActiveGames())
}

// GetGame serves the live snapshot, or the cached one once the game has
// left memory.
func (h *GameHandler) GetGame(c *gin.Context) {
	gameID := c.Param("id")
	if session, ok := h.SessionManager.GetSession(gameID); ok {
		c.JSON(http.StatusOK, session.Snapshot())
		return
	}

	if h.Cache != nil {
		data, err := h.Cache.Load(c.Request.Context(), gameID)
		if err != nil {
			log.Printf("[HTTP] Snapshot cache lookup for %s failed: %v", gameID, err)
		} else if data != nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", data)
			return
		}
	}
	respondError(c, game.ErrGameNotFound)
}

// GetBoard renders the grid as plain text, one row per line.
func (h *GameHandler) GetBoard(c *gin.Context) {
	session, ok := h.SessionManager.GetSession(c.Param("id"))
	if !ok {
		respondError(c, game.ErrGameNotFound)
		return
	}
	c.String(http.StatusOK, session.Snapshot().Text())
}

type moveRequest struct {
	Column *int   `json:"column"`
	Color  string `json:"color"`
}

// PlayMove drops a token. The seat token fixes the color; the body may only
// repeat it. Without a seat issuer the body must name the color.
func (h *GameHandler) PlayMove(c *gin.Context) {
	session, ok := h.SessionManager.GetSession(c.Param("id"))
	if !ok {
		respondError(c, game.ErrGameNotFound)
		return
	}

	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	if req.Column == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "column is required"})
		return
	}

	color, err := domain.ParseCell(req.Color)
	if err != nil {
		respondError(c, err)
		return
	}
	if seat, seated := middleware.SeatColor(c); seated {
		if color != domain.Empty && color != seat {
			c.JSON(http.StatusForbidden, gin.H{"error": "seat token is for " + seat.Name()})
			return
		}
		color = seat
	}
	if session.IsBot() && color == session.BotColor {
		c.JSON(http.StatusForbidden, gin.H{"error": color.Name() + " is played by the bot"})
		return
	}

	snap, err := session.HandleMove(color, *req.Column)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Undo reverts the caller's last move.
func (h *GameHandler) Undo(c *gin.Context) {
	session, ok := h.SessionManager.GetSession(c.Param("id"))
	if !ok {
		respondError(c, game.ErrGameNotFound)
		return
	}

	// unseated only when no issuer is configured
	seat, _ := middleware.SeatColor(c)
	snap, err := session.HandleUndo(seat)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// DeleteGame drops a live game. Only a seated player may do it.
func (h *GameHandler) DeleteGame(c *gin.Context) {
	if _, seated := middleware.SeatColor(c); !seated {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if err := h.SessionManager.RemoveSession(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
