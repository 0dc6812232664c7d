// internal/server/handlers/websocket.go

package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"denguecero/internal/domain/zone"
)

// SnapshotEvent is the event type of the summary sent when a client connects
const SnapshotEvent = "zones.public.snapshot"

// Subscriber registers NATS subscriptions; *nats.Conn satisfies it
type Subscriber interface {
	Subscribe(subject string, cb nats.MsgHandler) (*nats.Subscription, error)
}

// WebSocketConfig contains configuration for WebSocket connections
type WebSocketConfig struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Send pings to peer with this period
	PingPeriod time.Duration

	// Maximum message size allowed from peer
	MaxMessageSize int64

	// Messages buffered per client before updates are dropped
	SendBuffer int
}

// DefaultWebSocketConfig returns the default WebSocket configuration
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 512,
		SendBuffer:     16,
	}
}

// newUpgrader accepts browser origins listed in allowedOrigins; "*" or an
// empty list accepts any origin. Requests without an Origin header are not
// browsers and are always accepted.
func newUpgrader(allowedOrigins []string) *websocket.Upgrader {
	allowAll := len(allowedOrigins) == 0
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[strings.TrimRight(o, "/")] = true
	}

	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return allowAll || origin == "" || allowed[origin]
		},
	}
}

// zoneFeedClient is one websocket connection following public summary updates
type zoneFeedClient struct {
	conn   *websocket.Conn
	send   chan []byte
	done   chan struct{}
	sub    *nats.Subscription
	config WebSocketConfig
	logger *zap.Logger

	closeOnce sync.Once
}

// ZoneFeedHandler streams the public summary to websocket clients: the current
// summary on connect, then every update published on subject.
func ZoneFeedHandler(
	subscriber Subscriber,
	service zone.Service,
	subject string,
	allowedOrigins []string,
	logger *zap.Logger,
) http.HandlerFunc {
	config := DefaultWebSocketConfig()
	upgrader := newUpgrader(allowedOrigins)

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("failed to upgrade to websocket", zap.Error(err))
			return
		}

		client := &zoneFeedClient{
			conn:   conn,
			send:   make(chan []byte, config.SendBuffer),
			done:   make(chan struct{}),
			config: config,
			logger: logger,
		}

		// subscribe before the snapshot so no update falls in between
		sub, err := subscriber.Subscribe(subject, func(msg *nats.Msg) {
			client.enqueue(msg.Data)
		})
		if err != nil {
			logger.Error("failed to subscribe to zone updates",
				zap.String("subject", subject),
				zap.Error(err),
			)
			conn.Close()
			return
		}
		client.sub = sub

		snapshot, err := json.Marshal(zone.SummaryEvent{
			ID:      uuid.NewString(),
			Type:    SnapshotEvent,
			Time:    time.Now().UTC(),
			Summary: service.PublicSummary(r.Context()),
		})
		if err != nil {
			logger.Error("failed to encode zone snapshot", zap.Error(err))
			client.closeConnection()
			return
		}
		client.enqueue(snapshot)

		go client.writePump()
		go client.readPump()

		logger.Debug("zone feed client connected", zap.String("remote", r.RemoteAddr))
	}
}

// enqueue hands a message to the write pump, dropping it when the client lags
func (c *zoneFeedClient) enqueue(data []byte) {
	select {
	case <-c.done:
	case c.send <- data:
	default:
		c.logger.Warn("zone feed client is lagging, dropping update")
	}
}

// readPump only watches for close and pong frames; clients never send data
func (c *zoneFeedClient) readPump() {
	defer c.closeConnection()

	c.conn.SetReadLimit(c.config.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("zone feed read error", zap.Error(err))
			}
			return
		}
	}
}

// writePump pumps queued messages and pings to the connection
func (c *zoneFeedClient) writePump() {
	ticker := time.NewTicker(c.config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.closeConnection()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// closeConnection is shared by both pumps and runs once
func (c *zoneFeedClient) closeConnection() {
	c.closeOnce.Do(func() {
		if c.sub != nil {
			c.sub.Unsubscribe()
		}
		close(c.done)
		c.conn.Close()

		c.logger.Debug("zone feed client disconnected")
	})
}
