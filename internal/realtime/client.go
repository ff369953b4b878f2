package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/config"
)

const maxMessageSize = 64 * 1024

// connection is one authenticated websocket peer. Its room set is only
// touched from the connection's own read goroutine, so it needs no lock
// of its own.
type connection struct {
	id       string
	userID   string
	username string

	ws   *websocket.Conn
	send chan []byte

	rooms map[string]struct{}

	hub      *Hub
	sessions *sessionStore
	resolver InviteResolver
	cfg      config.RealtimeConfig
	logger   *zap.SugaredLogger

	closeOnce sync.Once
}

func (c *connection) join(teamID string) {
	if _, ok := c.rooms[teamID]; ok {
		return
	}
	c.rooms[teamID] = struct{}{}
	c.hub.Join(teamID, c)
}

// close detaches the connection from every room, parks its session for
// the reconnect window and stops the write pump.
func (c *connection) close() {
	c.closeOnce.Do(func() {
		rooms := make([]string, 0, len(c.rooms))
		for teamID := range c.rooms {
			c.hub.Leave(teamID, c)
			rooms = append(rooms, teamID)
		}
		c.sessions.Park(c.id, c.userID, rooms, time.Now())
		close(c.send)
		c.logger.Infow("websocket disconnected",
			"connection_id", c.id, "user_id", c.userID)
	})
}

// readPump consumes inbound frames until the peer goes away. Bad frames
// are logged and dropped, they never terminate the connection.
func (c *connection) readPump() {
	defer func() {
		c.close()
		c.ws.Close()
	}()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
		return nil
	})

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warnw("websocket read failed",
					"connection_id", c.id, "user_id", c.userID, "error", err)
			}
			return
		}

		ev, err := DecodeEvent(raw)
		if err != nil {
			c.logger.Warnw("dropping invalid frame",
				"connection_id", c.id, "user_id", c.userID, "error", err)
			continue
		}

		action, err := Dispatch(context.Background(), ev, c.resolver, time.Now())
		if err != nil {
			c.logger.Warnw("dropping undeliverable event",
				"connection_id", c.id, "user_id", c.userID, "event", ev.Kind, "error", err)
			continue
		}

		if action.JoinTeam != "" {
			c.join(action.JoinTeam)
		}
		c.hub.Broadcast(action.Broadcast, action.Payload, c)
	}
}

// writePump moves outbound frames from the send buffer to the peer and
// keeps the connection alive with pings.
func (c *connection) writePump() {
	ticker := time.NewTicker(c.cfg.PingPeriod())
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
