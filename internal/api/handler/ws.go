package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"hostelcare/backend/internal/viewhub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: restrict origins once the frontend host is fixed.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// serveWebSocketAction upgrades the connection and registers the viewer with
// the hub. The bearer check already ran in RequireActor; the viewer's scope
// comes from the actor's role.
func (h *Handler) serveWebSocketAction(c *gin.Context) {
	actor := actorFrom(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to upgrade connection"})
		return
	}

	client := viewhub.NewWebSocketClient(uuid.New().String(), actor, conn, h.Hub, h.log.Logger)

	h.Hub.RegisterCh <- client
	client.Run()
}
