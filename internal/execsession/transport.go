package execsession

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/gorilla/websocket"
)

// execPath is the execution endpoint on the backend.
const execPath = "/ws/compile"

// Conn is the transport surface the session needs. *websocket.Conn
// satisfies it.
type Conn interface {
	WriteJSON(v any) error
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

// Dialer opens a transport connection.
type Dialer func(ctx context.Context, url string) (Conn, error)

// DialWebsocket is the default dialer.
func DialWebsocket(ctx context.Context, url string) (Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("execsession: dial %s: %w", url, err)
	}
	return conn, nil
}

// ExecURL converts an http(s) base URL into the ws(s) execution endpoint
// URL. The endpoint requires no token auth.
func ExecURL(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("execsession: parse base url: %w", err)
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	if u.Host == "" {
		return "", fmt.Errorf("execsession: base url %q has no host", baseURL)
	}
	return fmt.Sprintf("%s://%s%s", scheme, u.Host, execPath), nil
}

// isNormalClose distinguishes an orderly far-end close from a transport
// failure.
func isNormalClose(err error) bool {
	if errors.Is(err, io.EOF) {
		return true
	}
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}
