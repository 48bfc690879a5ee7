package routes

import (
	"github.com/gin-gonic/gin"

	"fleet_maintenance/internal/controllers"
	"fleet_maintenance/internal/notify"
)

func WebSocketRoutes(r *gin.Engine, hub *notify.RecordHub) {
	wc := controllers.NewWebSocketController(hub)
	ws := r.Group("/ws")
	{
		// Auth happens inside the handler via the token query parameter,
		// since browsers cannot set headers on websocket upgrades.
		ws.GET("/records", wc.HandleRecordWebSocket)
	}
}
