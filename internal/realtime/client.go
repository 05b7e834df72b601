package realtime

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is one live websocket session. It may hold subscriptions to several
// rooms at once; frames it sends pick the room they act on.
type Client struct {
	hub  *Hub
	bus  *Bus
	conn *websocket.Conn
	send chan []byte
}

// inboundFrame is what clients send: a subscription announcement or a chat
// message.
type inboundFrame struct {
	Type     string `json:"type"` // "joinRoom" | "leaveRoom" | "message"
	RoomID   string `json:"roomId"`
	UserID   string `json:"userId"`
	UserName string `json:"userName,omitempty"`
	Text     string `json:"text,omitempty"`
}

// ChatMessage is stamped server-side and fanned out once; there is no
// history, a session that joins later sees nothing.
type ChatMessage struct {
	ID       string `json:"id"`
	RoomID   string `json:"roomId"`
	UserID   string `json:"userId"`
	UserName string `json:"userName,omitempty"`
	Text     string `json:"text"`
	Ts       int64  `json:"ts"`
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
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
				log.Printf("room-service: ws read: %v", err)
			}
			return
		}
		var frame inboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			continue
		}
		c.handleFrame(frame)
	}
}

func (c *Client) handleFrame(frame inboundFrame) {
	switch frame.Type {
	case "joinRoom":
		if frame.RoomID == "" {
			return
		}
		c.hub.subscribe <- subscription{client: c, roomID: frame.RoomID}
		c.bus.Publish(Event{
			Type:   EventSystem,
			RoomID: frame.RoomID,
			Payload: map[string]any{
				"type":    "join",
				"message": frame.UserID + " joined",
			},
		})

	case "leaveRoom":
		if frame.RoomID == "" {
			return
		}
		c.hub.unsubscribe <- subscription{client: c, roomID: frame.RoomID}

	case "message":
		if frame.RoomID == "" || frame.Text == "" {
			return
		}
		msg := ChatMessage{
			ID:       uuid.NewString(),
			RoomID:   frame.RoomID,
			UserID:   frame.UserID,
			UserName: frame.UserName,
			Text:     frame.Text,
			Ts:       time.Now().UnixMilli(),
		}
		c.bus.Publish(Event{Type: EventMessage, RoomID: frame.RoomID, Payload: msg})
	}
}

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
