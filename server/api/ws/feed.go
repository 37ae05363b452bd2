package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/AimPizza/malbuch/server/internal/store"
)

const (
	// DefaultClientBuffer is how many events may queue up for a single client before it's dropped.
	DefaultClientBuffer = 16

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// Feed pushes journal events to every connected websocket client. A client that can't keep up is disconnected
// instead of slowing down the others.
type Feed struct {
	logger       *logrus.Logger
	upgrader     websocket.Upgrader
	clientBuffer int

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

// NewFeed returns a feed accepting connections from the given origins. An empty list only allows same origin
// requests; "*" allows any origin.
func NewFeed(logger *logrus.Logger, allowedOrigins []string) *Feed {
	f := &Feed{
		logger:       logger,
		clientBuffer: DefaultClientBuffer,
		clients:      make(map[*client]struct{}),
	}
	if len(allowedOrigins) > 0 {
		f.upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
		}
	}
	return f
}

// Run broadcasts events from in until the context is done or in is closed, then disconnects all clients.
func (f *Feed) Run(ctx context.Context, in <-chan *store.Event) {
	f.logger.WithContext(ctx).Info("Running event feed")

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case event, ok := <-in:
			if !ok {
				break loop
			}
			f.broadcast(ctx, event)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	for c := range f.clients {
		c.close()
		delete(f.clients, c)
	}
}

// Clients returns the number of connected clients.
func (f *Feed) Clients() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}

// ServeHTTP upgrades the request to a websocket connection and subscribes it to the feed.
func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := f.logger.WithContext(r.Context()).WithField("remote_addr", r.RemoteAddr)

	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already replied with an http error
		logger.WithError(err).Warn("Failed to upgrade event feed connection")
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, f.clientBuffer),
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"), time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	f.clients[c] = struct{}{}
	f.mu.Unlock()

	logger.Debug("Event feed client connected")

	go f.writeLoop(c, logger)
	go f.readLoop(c, logger)
}

func (f *Feed) broadcast(ctx context.Context, event *store.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		f.logger.WithContext(ctx).WithError(err).Error("Failed to encode feed event")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for c := range f.clients {
		select {
		case c.send <- data:
		default:
			f.logger.WithContext(ctx).WithField("remote_addr", c.conn.RemoteAddr().String()).
				Warn("Dropping slow event feed client")
			delete(f.clients, c)
			c.close()
		}
	}
}

func (f *Feed) remove(c *client) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.clients[c]; ok {
		delete(f.clients, c)
		c.close()
	}
}

// writeLoop is the only writer of c.conn.
func (f *Feed) writeLoop(c *client, logger *logrus.Entry) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			err := c.conn.WriteMessage(websocket.TextMessage, data)
			if err != nil {
				logger.WithError(err).Debug("Failed to write to event feed client")
				f.remove(c)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := c.conn.WriteMessage(websocket.PingMessage, nil)
			if err != nil {
				f.remove(c)
				return
			}
		}
	}
}

// readLoop discards client messages; it's needed to process control frames and notice disconnects.
func (f *Feed) readLoop(c *client, logger *logrus.Entry) {
	defer f.remove(c)

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.WithError(err).Debug("Event feed client went away")
			}
			return
		}
	}
}
