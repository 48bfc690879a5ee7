package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"fleet_maintenance/internal/middleware"
	"fleet_maintenance/internal/notify"
)

// upgrader configures the WebSocket connection.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all for development (restrict in production!)
	},
}

type WebSocketController struct {
	Hub *notify.RecordHub
}

func NewWebSocketController(hub *notify.RecordHub) *WebSocketController {
	return &WebSocketController{Hub: hub}
}

// HandleRecordWebSocket upgrades an authenticated client to a websocket and
// registers it with the record hub. Listeners receive every newRecord event
// emitted after they connect; the endpoint itself accepts no messages.
func (wc *WebSocketController) HandleRecordWebSocket(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		logrus.Warn("WebSocket connection attempt: Missing token query parameter.")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authentication token"})
		return
	}

	claims, err := middleware.ValidateToken(tokenString)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket connection attempt with invalid token.")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("Failed to upgrade WebSocket connection.")
		return
	}
	defer conn.Close()

	logrus.WithFields(logrus.Fields{
		"user_id":  claims.UserID,
		"role":     claims.Role,
		"conn_ptr": fmt.Sprintf("%p", conn),
	}).Info("Record WebSocket connection established.")

	wc.Hub.Register(conn)
	defer wc.Hub.Unregister(conn)

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithField("user_id", claims.UserID).Info("Record WebSocket closed normally or abnormally.")
			} else {
				logrus.WithError(err).Errorf("Error reading WebSocket message from user %d", claims.UserID)
			}
			break
		}
		logrus.WithField("user_id", claims.UserID).Warn("Listener sent unexpected message. Ignoring.")
	}
}
