package http

import (
	"github.com/gin-gonic/gin"

	"github.com/iamasit07/puissance4/backend/internal/transport/http/middleware"
	"github.com/iamasit07/puissance4/backend/pkg/auth"
)

type Handlers struct {
	Games     *GameHandler
	History   *HistoryHandler
	Health    *HealthHandler
	Watch     *WatchHandler
	WebSocket gin.HandlerFunc
	Seats     *auth.SeatIssuer
}

func RegisterRoutes(router gin.IRouter, h Handlers) {
	router.GET("/health", h.Health.Health)

	api := router.Group("/api")
	{
		api.POST("/games", h.Games.CreateGame)
		api.GET("/games", h.Games.ListGames)
		api.GET("/games/:id", h.Games.GetGame)
		api.GET("/games/:id/board", h.Games.GetBoard)

		// Seated routes, a token is required once seats are issued
		seated := api.Group("/games/:id")
		seated.Use(middleware.SeatMiddleware(h.Seats), middleware.RequireSeat(h.Seats))
		seated.POST("/moves", h.Games.PlayMove)
		seated.POST("/undo", h.Games.Undo)
		seated.DELETE("", h.Games.DeleteGame)

		// Watch / Spectator Routes
		if h.Watch != nil {
			api.GET("/watch", h.Watch.GetLiveGames)
		}

		// Game History Routes
		api.GET("/history", h.History.GetHistory)
		api.GET("/history/:id", h.History.GetGameDetails)
	}

	if h.WebSocket != nil {
		router.GET("/ws/games/:id", h.WebSocket)
	}
}
