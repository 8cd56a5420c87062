package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"intruder_web/internal/api/handlers"
	"intruder_web/internal/service"
	"intruder_web/internal/storage"
)

// SetupRoutes 設置所有的路由
func SetupRoutes(r *gin.Engine, services *service.Services, store *storage.RoomStore) {
	roomHandler := handlers.NewRoomHandler(store)
	wsHandler := handlers.NewWebSocketHandler(services.WebSocketManager, services.GameService)

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		rooms := api.Group("/rooms")
		{
			rooms.POST("", roomHandler.CreateRoom)
			rooms.GET("/:id", roomHandler.GetRoom)
			rooms.GET("/:id/ws", wsHandler.HandleWebSocket)
		}
	}
}
