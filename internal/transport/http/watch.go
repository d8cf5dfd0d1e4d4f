package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/puissance4/backend/internal/domain"
	"github.com/iamasit07/puissance4/backend/internal/service/game"
)

// WatcherCounter reports how many sockets follow a game.
type WatcherCounter interface {
	Watchers(gameID string) int
}

type WatchHandler struct {
	SessionManager *game.SessionManager
	Watchers       WatcherCounter
}

func NewWatchHandler(sm *game.SessionManager, watchers WatcherCounter) *WatchHandler {
	return &WatchHandler{SessionManager: sm, Watchers: watchers}
}

type liveGameResponse struct {
	GameID         string      `json:"gameId"`
	Rows           int         `json:"rows"`
	Columns        int         `json:"columns"`
	NextColor      domain.Cell `json:"nextColor"`
	BotColor       domain.Cell `json:"botColor"`
	SpectatorCount int         `json:"spectatorCount"`
	MoveCount      int         `json:"moveCount"`
	StartedAt      time.Time   `json:"startedAt"`
}

// GetLiveGames returns the unfinished games available for spectating
func (h *WatchHandler) GetLiveGames(c *gin.Context) {
	activeGames := h.SessionManager.ActiveGames()

	response := make([]liveGameResponse, 0, len(activeGames))
	for _, g := range activeGames {
		if g.Status != domain.StatusActive {
			continue
		}
		watchers := 0
		if h.Watchers != nil {
			watchers = h.Watchers.Watchers(g.GameID)
		}
		response = append(response, liveGameResponse{
			GameID:         g.GameID,
			Rows:           g.Rows,
			Columns:        g.Columns,
			NextColor:      g.NextColor,
			BotColor:       g.BotColor,
			SpectatorCount: watchers,
			MoveCount:      len(g.Moves),
			StartedAt:      g.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, response)
}
