package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{}

// wsServer runs serve for each websocket connection and returns the ws://
// endpoint of the test server.
func wsServer(t *testing.T, serve func(*websocket.Conn)) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()
		serve(conn)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestDialAndReceive(t *testing.T) {
	endpoint := wsServer(t, func(conn *websocket.Conn) {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"event_type":"created","id":1}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"event_type":"deleted","id":1}`))
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		// Wait for the client close frame before tearing down.
		_, _, _ = conn.ReadMessage()
	})

	d := &Dialer{}
	stream, err := d.Dial(context.Background(), endpoint)
	require.NoError(t, err)
	defer stream.Close()

	ctx := context.Background()

	first, err := stream.Next(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(first), "created")

	second, err := stream.Next(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(second), "deleted")

	_, err = stream.Next(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestDialRefused(t *testing.T) {
	d := &Dialer{HandshakeTimeout: time.Second}
	_, err := d.Dial(context.Background(), "ws://127.0.0.1:1/ws/logs")
	require.Error(t, err)
}

func TestDialRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := &Dialer{}
	_, err := d.Dial(ctx, "ws://127.0.0.1:1/ws/logs")
	require.Error(t, err)
}

func TestNextCancelledBeforeRead(t *testing.T) {
	endpoint := wsServer(t, func(conn *websocket.Conn) {
		_, _, _ = conn.ReadMessage()
	})

	d := &Dialer{}
	stream, err := d.Dial(context.Background(), endpoint)
	require.NoError(t, err)
	defer stream.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = stream.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNextUnblocksOnCancel(t *testing.T) {
	// Server that sends nothing: the client read blocks until cancellation.
	endpoint := wsServer(t, func(conn *websocket.Conn) {
		_, _, _ = conn.ReadMessage()
	})

	d := &Dialer{}
	stream, err := d.Dial(context.Background(), endpoint)
	require.NoError(t, err)
	defer stream.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := stream.Next(ctx)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Next did not unblock after cancellation")
	}
}

func TestNextAbnormalClose(t *testing.T) {
	endpoint := wsServer(t, func(conn *websocket.Conn) {
		// Drop the TCP connection without a close handshake.
		_ = conn.UnderlyingConn().Close()
	})

	d := &Dialer{}
	stream, err := d.Dial(context.Background(), endpoint)
	require.NoError(t, err)
	defer stream.Close()

	_, err = stream.Next(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
}

func TestCloseIdempotent(t *testing.T) {
	endpoint := wsServer(t, func(conn *websocket.Conn) {
		_, _, _ = conn.ReadMessage()
	})

	d := &Dialer{}
	stream, err := d.Dial(context.Background(), endpoint)
	require.NoError(t, err)

	first := stream.Close()
	second := stream.Close()
	assert.Equal(t, first, second)
}

func TestIsCleanClose(t *testing.T) {
	assert.True(t, isCleanClose(io.EOF))
	assert.True(t, isCleanClose(&websocket.CloseError{Code: websocket.CloseNormalClosure}))
	assert.True(t, isCleanClose(&websocket.CloseError{Code: websocket.CloseGoingAway}))
	assert.False(t, isCleanClose(&websocket.CloseError{Code: websocket.CloseAbnormalClosure}))
}
