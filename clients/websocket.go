package clients

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vitwit/paysession/types"
	"github.com/vitwit/paysession/utils"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 64 * 1024
)

// SessionSocket is the push channel of one payment session.
type SessionSocket struct {
	conn      *websocket.Conn
	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

// SessionURL builds the session WebSocket URL.
func SessionURL(wsURL, sessionKey string) string {
	return fmt.Sprintf("%s/ws/session?session=%s", strings.TrimRight(wsURL, "/"), url.QueryEscape(sessionKey))
}

// DialSession opens the session socket. A nil dialer uses
// websocket.DefaultDialer.
func DialSession(ctx context.Context, dialer *websocket.Dialer, wsURL, sessionKey string) (*SessionSocket, error) {
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}

	conn, resp, err := dialer.DialContext(ctx, SessionURL(wsURL, sessionKey), nil)
	if err != nil {
		if resp != nil {
			return nil, types.NewError(types.ErrTransport, fmt.Sprintf("session socket handshake failed (HTTP %d)", resp.StatusCode), err)
		}
		return nil, types.NewError(types.ErrTransport, "session socket dial failed", err)
	}
	conn.SetReadLimit(maxMessageSize)

	return &SessionSocket{conn: conn}, nil
}

// Send writes one JSON frame.
func (s *SessionSocket) Send(msg types.ClientMessage) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(msg)
}

// Receive blocks for the next frame. Close frames surface as
// *websocket.CloseError; malformed frames as an INVALID_PAYLOAD error
// that leaves the socket usable.
func (s *SessionSocket) Receive() (*types.ServerMessage, error) {
	for {
		mt, data, err := s.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if mt != websocket.TextMessage {
			continue
		}
		return utils.ParseServerMessage(data)
	}
}

// Close sends a normal close frame and releases the connection. Only the
// first call has an effect.
func (s *SessionSocket) Close() error {
	s.closeOnce.Do(func() {
		s.writeMu.Lock()
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		s.writeMu.Unlock()

		s.closeErr = s.conn.Close()
	})
	return s.closeErr
}
