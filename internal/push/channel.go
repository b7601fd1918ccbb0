package push

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/mostaqbalcity/forumclient/internal/api"
	"github.com/mostaqbalcity/forumclient/internal/models"
)

const (
	// Time allowed to write a control message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512 * 1024 // 512KB
)

// Channel is the persistent duplex connection that delivers push events from
// the backend. It connects exactly when an identity is present and is torn
// down when the identity goes away; reconnection is left to the caller
// (manual reload is the recovery path for lost deliveries).
type Channel struct {
	url    string
	tokens api.TokenSource
	logger zerolog.Logger

	mu        sync.RWMutex
	conn      *websocket.Conn
	connected bool
	done      chan struct{}

	subsMu sync.RWMutex
	subs   map[models.EventKind]map[string]*Subscription
}

// NewChannel creates a push channel for the given websocket endpoint.
func NewChannel(url string, tokens api.TokenSource, logger zerolog.Logger) *Channel {
	return &Channel{
		url:    url,
		tokens: tokens,
		logger: logger,
		subs:   make(map[models.EventKind]map[string]*Subscription),
	}
}

// Connect dials the backend and starts the read and ping pumps. Calling
// Connect on an already connected channel is a no-op.
func (c *Channel) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}

	header := http.Header{}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			header.Set("Authorization", "Bearer "+token)
		}
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, header)
	if err != nil {
		c.logger.Warn().Err(err).Str("url", c.url).Msg("Push channel connect failed")
		return err
	}

	c.conn = conn
	c.connected = true
	c.done = make(chan struct{})

	go c.readPump(conn, c.done)
	go c.pingLoop(conn, c.done)

	c.logger.Info().Str("url", c.url).Msg("Push channel connected")
	return nil
}

// Disconnect tears the connection down. Subscriptions survive a disconnect;
// they simply stop receiving until the next Connect.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	done := c.done
	c.conn = nil
	c.connected = false
	c.done = nil
	c.mu.Unlock()

	if conn == nil {
		return
	}
	close(done)
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	conn.Close()
	c.logger.Info().Msg("Push channel disconnected")
}

// Connected reports the connection status for display.
func (c *Channel) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// readPump pumps events from the websocket connection to subscribers.
func (c *Channel) readPump(conn *websocket.Conn, done chan struct{}) {
	defer c.markDisconnected(conn)

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error { conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-done:
				// Deliberate teardown, already logged
			default:
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					c.logger.Info().Msg("Push channel closed by backend")
				} else {
					c.logger.Warn().Err(err).Msg("Push channel read error")
				}
			}
			return
		}

		var event models.PushEvent
		if err := json.Unmarshal(data, &event); err != nil {
			c.logger.Error().Err(err).Str("payload", string(data)).Msg("Failed to unmarshal push event")
			continue
		}

		c.dispatch(event)
	}
}

// pingLoop keeps the connection alive with periodic pings.
func (c *Channel) pingLoop(conn *websocket.Conn, done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// dispatch fans an event out to its kind's subscribers. Slow subscribers are
// skipped rather than blocked on.
func (c *Channel) dispatch(event models.PushEvent) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()

	for _, sub := range c.subs[event.Kind] {
		select {
		case sub.events <- event:
		default:
			c.logger.Warn().Str("kind", string(event.Kind)).Msg("Skipped slow push subscriber")
		}
	}
}

// markDisconnected flips status when the read pump exits for any reason.
func (c *Channel) markDisconnected(conn *websocket.Conn) {
	conn.Close()
	c.mu.Lock()
	if c.conn == conn {
		c.conn = nil
		c.connected = false
	}
	c.mu.Unlock()
}
