package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/puissance4/backend/internal/domain"
	"github.com/iamasit07/puissance4/backend/internal/repository/store"
	"github.com/iamasit07/puissance4/backend/internal/service/game"
)

type HistoryReader interface {
	ListGames(ctx context.Context, limit int) ([]store.GameRecord, error)
	GetGame(ctx context.Context, gameID string) (*store.GameRecord, error)
}

type HistoryHandler struct {
	GameRepo HistoryReader
}

func NewHistoryHandler(gameRepo HistoryReader) *HistoryHandler {
	return &HistoryHandler{GameRepo: gameRepo}
}

type gameHistoryItem struct {
	ID            string            `json:"id"`
	Rows          int               `json:"rows"`
	Columns       int               `json:"columns"`
	Status        domain.GameStatus `json:"status"`
	Winner        domain.Cell       `json:"winner"`
	MovesCount    int               `json:"movesCount"`
	BotDifficulty string            `json:"botDifficulty,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	FinishedAt    time.Time         `json:"finishedAt"`
}

func (h *HistoryHandler) GetHistory(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 500"})
			return
		}
		limit = n
	}

	records, err := h.GameRepo.ListGames(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	history := make([]gameHistoryItem, 0, len(records))
	for _, rec := range records {
		history = append(history, gameHistoryItem{
			ID:            rec.GameID,
			Rows:          rec.Rows,
			Columns:       rec.Columns,
			Status:        rec.Status,
			Winner:        rec.Winner,
			MovesCount:    len(rec.Moves),
			BotDifficulty: rec.BotDifficulty,
			CreatedAt:     rec.CreatedAt,
			FinishedAt:    rec.FinishedAt,
		})
	}
	c.JSON(http.StatusOK, history)
}

// GetGameDetails returns a finished game with its final grid rendered.
func (h *HistoryHandler) GetGameDetails(c *gin.Context) {
	gameID := c.Param("id")
	rec, err := h.GameRepo.GetGame(c.Request.Context(), gameID)
	if err != nil {
		respondError(c, err)
		return
	}
	if rec == nil {
		respondError(c, game.ErrGameNotFound)
		return
	}

	board, err := domain.BoardFromGrid(rec.Board)
	if err != nil {
		respondError(c, fmt.Errorf("game %s: %w: %v", gameID, domain.ErrCorruptedBoard, err))
		return
	}

	c.JSON(http.StatusOK, struct {
		*store.GameRecord
		Lines []string `json:"lines"`
	}{
		GameRecord: rec,
		Lines:      domain.Render(board),
	})
}
