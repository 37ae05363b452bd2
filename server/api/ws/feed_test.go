package ws_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AimPizza/malbuch/server/api/ws"
	"github.com/AimPizza/malbuch/server/internal/store"
)

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func dial(t *testing.T, srv *httptest.Server, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	return websocket.DefaultDialer.Dial(url, header)
}

func TestFeedBroadcast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := ws.NewFeed(newLogger(), nil)
	events := make(chan *store.Event)
	go feed.Run(ctx, events)

	srv := httptest.NewServer(feed)
	defer srv.Close()

	var conns []*websocket.Conn
	for range 3 {
		conn, _, err := dial(t, srv, nil)
		require.NoError(t, err)
		defer conn.Close()
		conns = append(conns, conn)
	}
	require.Eventually(t, func() bool { return feed.Clients() == 3 }, time.Second, 10*time.Millisecond)

	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	events <- &store.Event{
		Type:   store.EventIngested,
		Record: &store.AssetRecord{File: "cat.png", SizeBytes: 5, CreationDate: at, LastModified: at},
		At:     at,
	}

	for _, conn := range conns {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
		msgType, data, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, websocket.TextMessage, msgType)

		var got store.Event
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, store.EventIngested, got.Type)
		require.NotNil(t, got.Record)
		assert.Equal(t, "cat.png", got.Record.File)
		assert.True(t, at.Equal(got.At))
	}
}

func TestFeedClientDisconnect(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := ws.NewFeed(newLogger(), nil)
	go feed.Run(ctx, make(chan *store.Event))

	srv := httptest.NewServer(feed)
	defer srv.Close()

	conn, _, err := dial(t, srv, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return feed.Clients() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return feed.Clients() == 0 }, time.Second, 10*time.Millisecond)
}

func TestFeedShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	feed := ws.NewFeed(newLogger(), nil)
	done := make(chan struct{})
	go func() {
		feed.Run(ctx, make(chan *store.Event))
		close(done)
	}()

	srv := httptest.NewServer(feed)
	defer srv.Close()

	conn, _, err := dial(t, srv, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return feed.Clients() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("feed did not stop")
	}
	assert.Zero(t, feed.Clients())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "unexpected error: %v", err)
}

func TestFeedOrigins(t *testing.T) {
	tests := map[string]struct {
		allowed []string
		origin  string

		expectedOK bool
	}{
		"allowed origin": {
			allowed:    []string{"http://ui.example"},
			origin:     "http://ui.example",
			expectedOK: true,
		},
		"foreign origin": {
			allowed: []string{"http://ui.example"},
			origin:  "http://evil.example",
		},
		"wildcard": {
			allowed:    []string{"*"},
			origin:     "http://anything.example",
			expectedOK: true,
		},
		"same origin only by default": {
			origin: "http://evil.example",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			feed := ws.NewFeed(newLogger(), tc.allowed)
			go feed.Run(ctx, make(chan *store.Event))

			srv := httptest.NewServer(feed)
			defer srv.Close()

			conn, resp, err := dial(t, srv, http.Header{"Origin": []string{tc.origin}})
			if !tc.expectedOK {
				require.ErrorIs(t, err, websocket.ErrBadHandshake)
				assert.Equal(t, http.StatusForbidden, resp.StatusCode)
				return
			}
			require.NoError(t, err)
			_ = conn.Close()
		})
	}
}
