package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lexc24/tictactoe/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound message size in bytes
	maxMessageSize = 1024

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dev UI is served from a different origin than the socket
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Dispatcher receives the matchmaking events a session produces.
// Satisfied by the queue coordinator.
type Dispatcher interface {
	Connect(ctx context.Context, id model.ClientID) error
	Disconnect(ctx context.Context, id model.ClientID) error
	GameOver(ctx context.Context, loserID model.ClientID) error
	SetName(ctx context.Context, id model.ClientID, name string) error
}

// Client is one connected WebSocket session
type Client struct {
	hub         *Hub
	id          model.ClientID
	conn        *websocket.Conn
	send        chan []byte
	connectedAt time.Time
}

// NewClient creates a new client for the given connection
func NewClient(hub *Hub, id model.ClientID, conn *websocket.Conn) *Client {
	return &Client{
		hub:         hub,
		id:          id,
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// inboundMessage is the wire format for client actions
type inboundMessage struct {
	Action   string `json:"action"`
	Username string `json:"username,omitempty"`
	LoserID  string `json:"loserId,omitempty"`
}

// Inbound action names
const (
	actionSetName  = "setName"
	actionGameOver = "gameOver"
)

// readPump dispatches inbound actions until the connection closes, then
// reports the disconnect
func (c *Client) readPump(dispatcher Dispatcher, logger *slog.Logger) {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()

		if err := dispatcher.Disconnect(context.Background(), c.id); err != nil {
			logger.Error("disconnect handling failed",
				slog.String("client_id", string(c.id)),
				slog.String("error", err.Error()))
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("unexpected close",
					slog.String("client_id", string(c.id)),
					slog.String("error", err.Error()))
			}
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warn("unparseable message",
				slog.String("client_id", string(c.id)),
				slog.String("error", err.Error()))
			continue
		}

		c.handleMessage(msg, dispatcher, logger)
	}
}

func (c *Client) handleMessage(msg inboundMessage, dispatcher Dispatcher, logger *slog.Logger) {
	ctx := context.Background()

	switch msg.Action {
	case actionSetName:
		if err := dispatcher.SetName(ctx, c.id, msg.Username); err != nil {
			logger.Error("name update failed",
				slog.String("client_id", string(c.id)),
				slog.String("error", err.Error()))
		}

	case actionGameOver:
		if msg.LoserID == "" {
			// A tie: nobody re-queues, both players go again
			logger.Info("game over with no loser",
				slog.String("client_id", string(c.id)))
			return
		}
		err := dispatcher.GameOver(ctx, model.ClientID(msg.LoserID))
		switch {
		case err == nil:
		case errors.Is(err, model.ErrClientNotFound):
			// loser raced a disconnect, expected
			logger.Info("game over for departed client",
				slog.String("loser_id", msg.LoserID))
		default:
			logger.Error("game over handling failed",
				slog.String("loser_id", msg.LoserID),
				slog.String("error", err.Error()))
		}

	default:
		logger.Warn("unknown action",
			slog.String("client_id", string(c.id)),
			slog.String("action", msg.Action))
	}
}

// writePump forwards hub messages to the connection and keeps it alive
// with pings
func (c *Client) writePump() {
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
				// Hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWS upgrades an HTTP request to a WebSocket session and runs it.
// Each session gets a fresh connection-scoped client ID.
func ServeWS(w http.ResponseWriter, r *http.Request, hub *Hub, dispatcher Dispatcher, logger *slog.Logger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	id := model.ClientID(uuid.NewString())
	client := NewClient(hub, id, conn)

	// Register before the connect event so this session receives the roster
	// push that its own connect triggers.
	hub.Register(client)
	go client.writePump()

	hello, err := json.Marshal(connectedMessage{
		Action:   "connected",
		ClientID: string(id),
	})
	if err == nil {
		client.send <- hello
	}

	if err := dispatcher.Connect(r.Context(), id); err != nil {
		logger.Error("connect handling failed",
			slog.String("client_id", string(id)),
			slog.String("error", err.Error()))
		hub.Unregister(client)
		_ = conn.Close()
		return
	}

	client.readPump(dispatcher, logger)
}
