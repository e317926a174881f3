package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/siyaha-app/siyaha-backend/internal/services"
)

// WebSocketHandler upgrades the connection. Auth runs in middleware; the
// token arrives as a query parameter since browsers cannot set headers on
// WebSocket requests.
func WebSocketHandler(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		services.ServeWS(hub, c.Writer, c.Request, c.GetUint("userId"), c.GetString("userType"))
	}
}
