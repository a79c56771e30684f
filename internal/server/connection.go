package server

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/cardroom/cardroom/internal/session"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// Connection wraps one WebSocket client. Each connection carries a session
// token minted at upgrade time; the token is the player identity everywhere
// downstream.
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	sid       string
	roomID    string
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
	manager   *Manager
}

// NewConnection creates a connection wrapper with a fresh session token.
func NewConnection(conn *websocket.Conn, logger *log.Logger, manager *Manager) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	sid := session.New()

	return &Connection{
		conn:    conn,
		send:    make(chan *Message, 256),
		sid:     sid,
		logger:  logger.WithPrefix("conn").With("session", sid),
		ctx:     ctx,
		cancel:  cancel,
		manager: manager,
	}
}

// Start begins handling the connection.
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()

	welcome, _ := NewMessage(MessageTypeWelcome, WelcomeData{Session: c.sid})
	_ = c.SendMessage(welcome)
}

// Close closes the connection.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// Session returns the connection's session token.
func (c *Connection) Session() string {
	return c.sid
}

// SetRoom associates this connection with a room.
func (c *Connection) SetRoom(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomID = roomID
}

// GetRoom returns the associated room id.
func (c *Connection) GetRoom() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomID
}

// SendMessage queues a message for the client.
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed mid-send during shutdown.
			c.logger.Debug("send on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// readPump handles incoming messages from the client.
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("websocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("failed to write message", "error", err)
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

// handleMessage dispatches one client message.
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("received message", "type", msg.Type, "room", c.GetRoom())

	switch msg.Type {
	case MessageTypeJoin:
		var data JoinData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "failed to parse join data")
			return
		}
		data.Room = strings.TrimSpace(data.Room)
		if data.Room == "" {
			c.sendError("invalid_message", "room id required")
			return
		}
		c.reply(c.manager.Join(c, data.Room, data.Name))

	case MessageTypeLeave:
		c.manager.Disconnect(c)

	case MessageTypeBuyIn:
		var data BuyInData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "failed to parse buyin data")
			return
		}
		c.reply(c.manager.BuyIn(c, data.Amount))

	case MessageTypeReady:
		c.reply(c.manager.ToggleReady(c))

	case MessageTypeStart:
		c.reply(c.manager.StartHand(c))

	case MessageTypeAction:
		var data ActionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "failed to parse action data")
			return
		}
		c.reply(c.manager.Action(c, data.Action, data.Amount))

	case MessageTypeChat:
		var data ChatData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "failed to parse chat data")
			return
		}
		c.reply(c.manager.Chat(c, data.Text))

	default:
		c.sendError("unknown_message_type", "unknown message type: "+msg.Type.String())
	}
}

// reply sends an error message when an operation failed; successes are
// visible through the room state broadcast.
func (c *Connection) reply(err error) {
	if err == nil {
		return
	}
	c.sendError(errorCode(err), err.Error())
}

// sendError sends an error message to the client.
func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("failed to create error message", "error", err)
		return
	}
	_ = c.SendMessage(errorMsg)
}
