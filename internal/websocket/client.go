package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"color-notes-be/internal/dto"
	"color-notes-be/internal/pkg/logger"
	"color-notes-be/internal/pkg/serverutils"
	"color-notes-be/internal/viewstate"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

// Client is one open list screen: a websocket connection bound to a ListViewState.
type Client struct {
	Hub *Hub

	Conn *websocket.Conn

	UserID  string
	TokenID string

	// Buffered channel of outbound frames. Closed exactly once by close.
	Send chan []byte

	List *viewstate.ListViewState

	logger logger.ILogger

	// Senders hold mu for reading; close takes it for writing after closing done.
	mu       sync.RWMutex
	closed   bool
	done     chan struct{}
	doneOnce sync.Once
}

func NewClient(hub *Hub, conn *websocket.Conn, userID, tokenID string, list *viewstate.ListViewState, log logger.ILogger) *Client {
	return &Client{
		Hub:     hub,
		Conn:    conn,
		UserID:  userID,
		TokenID: tokenID,
		Send:    make(chan []byte, sendBuffer),
		List:    list,
		logger:  log,
		done:    make(chan struct{}),
	}
}

// enqueue queues a frame without blocking. It reports false when the frame was dropped.
func (c *Client) enqueue(data []byte) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// send queues a frame, waiting for room until the client closes.
// It reports false once the client is closed.
func (c *Client) send(data []byte) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	case <-c.done:
		return false
	}
}

func (c *Client) close() {
	c.doneOnce.Do(func() { close(c.done) })
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// statePump forwards every list state record to the connection. While the
// buffer is full it waits; the watch keeps only the newest record meanwhile.
func (c *Client) statePump(states <-chan viewstate.ListState) {
	for state := range states {
		data, err := json.Marshal(dto.NewListStateResponse(state))
		if err != nil {
			continue
		}
		if !c.send(data) {
			return
		}
	}
}

// readPump handles incoming commands until the connection fails.
func (c *Client) readPump() {
	defer func() {
		c.Hub.drop(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("Client", "Unexpected close", map[string]interface{}{"user_id": c.UserID, "error": err.Error()})
			}
			break
		}
		c.handleCommand(message)
	}
}

func (c *Client) handleCommand(message []byte) {
	var cmd dto.ListScreenCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		c.sendError("invalid command")
		return
	}
	if err := serverutils.ValidateRequest(&cmd); err != nil {
		c.sendError(err.Error())
		return
	}

	switch cmd.Action {
	case "delete":
		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		defer cancel()
		c.List.Delete(ctx, cmd.DocumentId)
	}
}

func (c *Client) sendError(message string) {
	data, _ := json.Marshal(map[string]interface{}{"type": dto.FrameError, "message": message})
	c.enqueue(data)
}

// writePump pumps frames from Send to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
