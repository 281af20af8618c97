// Package transport provides the websocket implementation of the
// listener's connection collaborator.
package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/randalmurphal/logwatch/pkg/logwatch/listener"
)

const (
	defaultHandshakeTimeout = 10 * time.Second

	// Maximum message size allowed from the peer.
	defaultReadLimit = 1 << 20

	// Time allowed to write a close frame to the peer.
	writeWait = 10 * time.Second
)

// Dialer establishes websocket sessions. The zero value is usable.
type Dialer struct {
	// HandshakeTimeout bounds the websocket handshake.
	// Defaults to 10s.
	HandshakeTimeout time.Duration

	// ReadLimit is the maximum inbound message size in bytes.
	// Defaults to 1 MiB.
	ReadLimit int64

	// Header is sent with the handshake request.
	Header http.Header
}

// Compile-time interface check.
var _ listener.Dialer = (*Dialer)(nil)

// Dial connects to a ws:// or wss:// endpoint and returns the message
// stream. The handshake respects ctx.
func (d *Dialer) Dial(ctx context.Context, endpoint string) (listener.Stream, error) {
	timeout := d.HandshakeTimeout
	if timeout <= 0 {
		timeout = defaultHandshakeTimeout
	}

	wsDialer := websocket.Dialer{HandshakeTimeout: timeout}
	conn, resp, err := wsDialer.DialContext(ctx, endpoint, d.Header)
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
		}
		return nil, err
	}

	limit := d.ReadLimit
	if limit <= 0 {
		limit = defaultReadLimit
	}
	conn.SetReadLimit(limit)

	return &stream{conn: conn}, nil
}

// stream adapts a gorilla connection to listener.Stream.
type stream struct {
	conn      *websocket.Conn
	closeOnce sync.Once
	closeErr  error
}

// Next reads one message. gorilla reads cannot be interrupted directly, so
// a blocked read is unblocked on cancellation by closing the socket; the
// resulting read error is then reported as the context error.
func (s *stream) Next(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = s.conn.Close()
		case <-done:
		}
	}()

	_, data, err := s.conn.ReadMessage()
	close(done)

	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if isCleanClose(err) {
			return nil, io.EOF
		}
		return nil, err
	}
	return data, nil
}

// Close performs a best-effort close handshake and releases the socket.
func (s *stream) Close() error {
	s.closeOnce.Do(func() {
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		s.closeErr = s.conn.Close()
	})
	return s.closeErr
}

// isCleanClose reports whether the peer ended the stream normally.
func isCleanClose(err error) bool {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return true
	}
	return errors.Is(err, io.EOF)
}
