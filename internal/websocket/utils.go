package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

// Deadlines for monitor sessions. Writes are short notices; reads only
// carry the occasional ping, so the read window is generous.
const (
	writeWait = 10 * time.Second
	readWait  = 5 * time.Minute
)

// WriteTyped sends a strongly-typed payload over the WebSocket.
func WriteTyped(conn *websocket.Conn, v interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

// WriteViolation pushes one live proctoring notice to a monitor session.
func WriteViolation(conn *websocket.Conn, notice interface{}) error {
	return WriteTyped(conn, ViolationMessage{Event: EventViolation, Notice: notice})
}

// WritePong answers a client keepalive ping.
func WritePong(conn *websocket.Conn) error {
	return WriteTyped(conn, PongResponse{Event: EventPong})
}

// WriteError sends a typed ErrorResponse over the WebSocket.
func WriteError(conn *websocket.Conn, errMsg string) error {
	return WriteTyped(conn, ErrorResponse{
		Event: EventError,
		Error: errMsg,
	})
}

// ReadJSON reads and decodes a message into the provided structure.
func ReadJSON(conn *websocket.Conn, v interface{}) error {
	conn.SetReadDeadline(time.Now().Add(readWait))
	return conn.ReadJSON(v)
}
