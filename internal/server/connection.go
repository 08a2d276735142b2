package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Flowwrian/blackjack-simulator/internal/session"
	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Connection represents a WebSocket connection bound to one session
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	sessionID string
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	service   *GameService
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, sessionID string, logger *log.Logger, service *GameService) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:      conn,
		send:      make(chan *Message, 256),
		sessionID: sessionID,
		logger:    logger.WithPrefix("conn"),
		ctx:       ctx,
		cancel:    cancel,
		service:   service,
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
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client
func (c *Connection) SendMessage(msg *Message) error {
	select {
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
		c.logger.Warn("Connection send buffer full, closing connection", "session", c.sessionID)
		_ = c.Close() // Ignore close errors
		return ErrConnectionClosed
	}
}

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

var (
	ErrConnectionClosed = websocket.ErrCloseSent
)

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }() // Ignore close errors during cleanup

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // Ignore close errors during cleanup
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "session", c.sessionID)

	var (
		data any
		err  error
	)

	switch msg.Type {
	case MessageTypeInit:
		data, err = c.service.Init(c.sessionID)

	case MessageTypeStart:
		var bet BetData
		if err = decodeData(msg, &bet); err == nil {
			data, err = c.service.StartGame(c.sessionID, bet.Amount)
		}

	case MessageTypeAction:
		var action ActionData
		if err = decodeData(msg, &action); err == nil {
			data, err = c.service.Action(c.sessionID, action.Action)
		}

	case MessageTypeDealer:
		data, err = c.service.SimulateDealer(c.sessionID)

	case MessageTypeEnd:
		var outcome ActionData
		if err = decodeData(msg, &outcome); err == nil {
			data, err = c.service.End(c.sessionID, outcome.Action)
		}

	case MessageTypeStats:
		stats, statsErr := c.service.Stats(c.sessionID)
		if statsErr != nil {
			c.sendError(msg.RequestID, statsErr)
			return
		}
		c.reply(MessageTypeStatsData, msg.RequestID, stats)
		return

	default:
		c.sendError(msg.RequestID, fmt.Errorf("%w: unknown message type %q", ErrInvalidMessage, msg.Type))
		return
	}

	if err != nil {
		c.sendError(msg.RequestID, err)
		return
	}
	c.reply(MessageTypeGameState, msg.RequestID, data)
}

func decodeData(msg *Message, v any) error {
	if err := json.Unmarshal(msg.Data, v); err != nil {
		return fmt.Errorf("%w: failed to parse %s data: %v", ErrInvalidMessage, msg.Type, err)
	}
	return nil
}

func (c *Connection) reply(messageType MessageType, requestID string, data any) {
	msg, err := NewMessage(messageType, data)
	if err != nil {
		c.logger.Error("Failed to create message", "type", messageType, "error", err)
		return
	}
	msg.RequestID = requestID
	_ = c.SendMessage(msg) // Ignore send errors
}

// sendError sends an error message to the client
func (c *Connection) sendError(requestID string, err error) {
	_, data := errorData(err)
	c.reply(MessageTypeError, requestID, data)
}

// handleWebSocket upgrades the request and binds the connection to the
// request's session
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := s.sessionID(r)
	if _, ok := s.service.Store().Get(sessionID); !ok {
		s.writeError(w, r, fmt.Errorf("websocket for %q: %w", sessionID, session.ErrNotFound))
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, sessionID, s.logger, s.service)
	s.mu.Lock()
	s.connections[client] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "session", sessionID, "total", total)

	client.Start()

	go func() {
		<-client.Done()
		s.mu.Lock()
		delete(s.connections, client)
		total := len(s.connections)
		s.mu.Unlock()
		s.logger.Info("Client disconnected", "session", sessionID, "total", total)
	}()
}
