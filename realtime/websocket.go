package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	maxMessageSize = 1 << 16
	writeWait      = 10 * time.Second
)

type WebsocketConnection interface {
	Read() ([]byte, error)
	Write(data []byte) error
	Ping() error
	Close()
}

// GorillaWebSocketWrapper serializes writers, since gorilla allows only one
// concurrent writer per connection.
type GorillaWebSocketWrapper struct {
	conn        *websocket.Conn
	readTimeout time.Duration
	writeMu     sync.Mutex
}

// NewGorillaWebSocketWrapper arms the read deadline. Every pong or inbound
// message pushes it back by readTimeout; zero disables it.
func NewGorillaWebSocketWrapper(conn *websocket.Conn, readTimeout time.Duration) *GorillaWebSocketWrapper {
	w := &GorillaWebSocketWrapper{conn: conn, readTimeout: readTimeout}
	conn.SetReadLimit(maxMessageSize)
	w.extendReadDeadline()
	conn.SetPongHandler(func(string) error {
		w.extendReadDeadline()
		return nil
	})
	return w
}

func (w *GorillaWebSocketWrapper) extendReadDeadline() {
	if w.readTimeout > 0 {
		w.conn.SetReadDeadline(time.Now().Add(w.readTimeout))
	}
}

func (w *GorillaWebSocketWrapper) Read() ([]byte, error) {
	_, p, err := w.conn.ReadMessage()
	if err == nil {
		w.extendReadDeadline()
	}
	return p, err
}

func (w *GorillaWebSocketWrapper) Write(data []byte) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return w.conn.WriteMessage(websocket.TextMessage, data)
}

func (w *GorillaWebSocketWrapper) Ping() error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	return w.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (w *GorillaWebSocketWrapper) Close() {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	w.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	w.conn.Close()
}
