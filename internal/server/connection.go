package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/tictactoe/internal/session"
	"github.com/lox/tictactoe/internal/view"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

// Connection is one browser tab. It pushes a state message for every
// session change and turns client messages into session operations.
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	session   *session.Session
	sub       *session.Subscription
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, sess *session.Session, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:    conn,
		send:    make(chan *Message, 16),
		session: sess,
		sub:     sess.Subscribe(),
		logger:  logger.WithPrefix("conn").With("remote", conn.RemoteAddr().String()),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Done is closed once the connection has shut down
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		c.sub.Close()
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client
func (c *Connection) SendMessage(msg *Message) error {
	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return websocket.ErrCloseSent
	}
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			c.sendError(ErrorCodeInvalidMessage, "Failed to parse message")
			continue
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case snap, ok := <-c.sub.C():
			if !ok {
				c.writeClose()
				return
			}
			msg, err := NewMessage(MessageTypeState, view.NewShell(snap))
			if err != nil {
				c.logger.Error("Failed to create state message", "error", err)
				continue
			}
			if !c.write(msg) {
				return
			}

		case msg := <-c.send:
			if !c.write(msg) {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Connection) write(msg *Message) bool {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(msg); err != nil {
		c.logger.Debug("Failed to write message", "error", err, "type", msg.Type)
		return false
	}
	return true
}

func (c *Connection) writeClose() {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"))
}

// handleMessage processes incoming messages from the client. Game state is
// never sent in reply: the subscription delivers it.
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type)

	switch msg.Type {
	case MessageTypeMove:
		var data MoveData
		if err := decode(msg.Data, &data); err != nil {
			c.sendError(ErrorCodeInvalidMessage, err.Error())
			return
		}
		c.session.ApplyMove(*data.Index)

	case MessageTypeReset:
		c.session.Reset()

	case MessageTypeSetName:
		var data SetNameData
		if err := decode(msg.Data, &data); err != nil {
			c.sendError(ErrorCodeInvalidMark, err.Error())
			return
		}
		if err := c.session.SetPlayerName(markOf(data.Mark), data.Name); err != nil {
			c.sendError(ErrorCodeInvalidMark, err.Error())
		}

	case MessageTypeToggleTheme:
		c.session.ToggleTheme()

	default:
		c.sendError(ErrorCodeUnknownType, "Unknown message type: "+msg.Type.String())
	}
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg)
}
