package viewhub

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"hostelcare/backend/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// WebSocketClient implements Client over a gorilla/websocket connection.
type WebSocketClient struct {
	ID    string
	Actor models.Actor
	Conn  *websocket.Conn
	Hub   *Manager
	Send  chan models.ViewerNotice

	log *logrus.Entry
}

// NewWebSocketClient wraps an upgraded connection.
func NewWebSocketClient(id string, actor models.Actor, conn *websocket.Conn, hub *Manager, log *logrus.Logger) *WebSocketClient {
	return &WebSocketClient{
		ID:    id,
		Actor: actor,
		Conn:  conn,
		Hub:   hub,
		Send:  make(chan models.ViewerNotice, 256),
		log:   logrus.NewEntry(log).WithField("client_id", id),
	}
}

func (c *WebSocketClient) GetID() string                              { return c.ID }
func (c *WebSocketClient) GetActor() models.Actor                     { return c.Actor }
func (c *WebSocketClient) GetSendChannel() chan<- models.ViewerNotice { return c.Send }

// Run starts the pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close closes the Send channel, which stops writePump and closes the socket.
func (c *WebSocketClient) Close() {
	close(c.Send)
}

// readPump drains the connection. Viewers never send business messages; the
// pump exists to answer pings and to notice the disconnect so the hub can
// release the subscription.
func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.UnregisterCh <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Warn("unexpected close")
			}
			break
		}
	}
}

// writePump pushes notices from the Send channel into the socket and keeps
// the connection alive with pings.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case notice, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(notice)
			if err != nil {
				c.log.WithError(err).Error("failed to encode notice")
				continue
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(data)

			// Flush whatever else is queued into the same frame.
			n := len(c.Send)
			for i := 0; i < n; i++ {
				extra, _ := json.Marshal(<-c.Send)
				w.Write(extra)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
