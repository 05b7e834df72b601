package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// wsFrame mirrors whatever the server pushes; tests only care about a few
// fields.
type wsFrame struct {
	Type    string          `json:"type"`
	RoomID  string          `json:"roomId"`
	Payload json.RawMessage `json:"payload"`
}

func newWSServer(t *testing.T) (*httptest.Server, *Bus) {
	t.Helper()
	hub := NewHub()
	bus := NewBus(hub, nil, context.Background())
	go hub.Run()
	return newTestServer(t, NewServer(hub, bus)), bus
}

func newTestServer(t *testing.T, srv *Server) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	// First frame is always the welcome.
	frame := readFrame(t, conn)
	if frame.Type != "welcome" {
		t.Fatalf("expected welcome frame, got %q", frame.Type)
	}
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) wsFrame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var frame wsFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("decode frame %q: %v", data, err)
	}
	return frame
}

func send(t *testing.T, conn *websocket.Conn, frame any) {
	t.Helper()
	if err := conn.WriteJSON(frame); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestJoinRoomDelivery(t *testing.T) {
	ts, _ := newWSServer(t)
	conn := dialWS(t, ts)

	send(t, conn, map[string]string{"type": "joinRoom", "roomId": "room1", "userId": "u1"})

	// Subscribing announces the join to the room, including the joiner.
	frame := readFrame(t, conn)
	if frame.Type != EventSystem || frame.RoomID != "room1" {
		t.Fatalf("expected system event for room1, got %+v", frame)
	}
	if !strings.Contains(string(frame.Payload), "u1 joined") {
		t.Errorf("unexpected payload: %s", frame.Payload)
	}
}

func TestRoomIsolation(t *testing.T) {
	ts, _ := newWSServer(t)
	c1 := dialWS(t, ts)
	c2 := dialWS(t, ts)

	send(t, c1, map[string]string{"type": "joinRoom", "roomId": "room1", "userId": "u1"})
	readFrame(t, c1) // own join notice
	send(t, c2, map[string]string{"type": "joinRoom", "roomId": "room2", "userId": "u2"})
	readFrame(t, c2)

	// c1 chats in room1; c2 then chats in room2. If room1 traffic leaked to
	// c2, it would arrive before c2's own message.
	send(t, c1, map[string]string{"type": "message", "roomId": "room1", "userId": "u1", "text": "hello room1"})

	got := readFrame(t, c1)
	if got.Type != EventMessage || got.RoomID != "room1" {
		t.Fatalf("c1 expected its message back, got %+v", got)
	}
	var msg ChatMessage
	if err := json.Unmarshal(got.Payload, &msg); err != nil {
		t.Fatalf("decode chat payload: %v", err)
	}
	if msg.ID == "" || msg.Ts == 0 {
		t.Errorf("message must be stamped server-side, got %+v", msg)
	}
	if msg.Text != "hello room1" || msg.UserID != "u1" {
		t.Errorf("unexpected message: %+v", msg)
	}

	send(t, c2, map[string]string{"type": "message", "roomId": "room2", "userId": "u2", "text": "hello room2"})
	got = readFrame(t, c2)
	if got.RoomID != "room2" {
		t.Fatalf("room1 traffic leaked into c2: %+v", got)
	}
}

func TestLeaveRoomStopsDelivery(t *testing.T) {
	ts, bus := newWSServer(t)
	c1 := dialWS(t, ts)
	c2 := dialWS(t, ts)

	send(t, c1, map[string]string{"type": "joinRoom", "roomId": "room1", "userId": "u1"})
	readFrame(t, c1)
	send(t, c2, map[string]string{"type": "joinRoom", "roomId": "room1", "userId": "u2"})
	readFrame(t, c1) // u2's join notice
	readFrame(t, c2)

	send(t, c1, map[string]string{"type": "leaveRoom", "roomId": "room1"})

	// Give the unsubscribe a moment to land, then broadcast.
	time.Sleep(50 * time.Millisecond)
	bus.Publish(Event{Type: EventQueueUpdated, RoomID: "room1", Payload: map[string]any{"queue": []any{}}})

	got := readFrame(t, c2)
	if got.Type != EventQueueUpdated {
		t.Fatalf("c2 expected the broadcast, got %+v", got)
	}

	_ = c1.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := c1.ReadMessage(); err == nil {
		t.Error("c1 left the room but still received a frame")
	}
}

func TestSubscribeMultipleRooms(t *testing.T) {
	ts, bus := newWSServer(t)
	conn := dialWS(t, ts)

	send(t, conn, map[string]string{"type": "joinRoom", "roomId": "room1", "userId": "u1"})
	readFrame(t, conn)
	send(t, conn, map[string]string{"type": "joinRoom", "roomId": "room2", "userId": "u1"})
	readFrame(t, conn)

	time.Sleep(50 * time.Millisecond)
	bus.Publish(Event{Type: EventVoteUpdated, RoomID: "room1"})
	bus.Publish(Event{Type: EventVoteUpdated, RoomID: "room2"})

	first := readFrame(t, conn)
	second := readFrame(t, conn)
	if first.RoomID != "room1" || second.RoomID != "room2" {
		t.Errorf("expected events for both rooms in order, got %q then %q", first.RoomID, second.RoomID)
	}
}

func TestEventsEndpoint(t *testing.T) {
	ts, _ := newWSServer(t)
	conn := dialWS(t, ts)

	send(t, conn, map[string]string{"type": "joinRoom", "roomId": "room1", "userId": "u1"})
	readFrame(t, conn)

	time.Sleep(50 * time.Millisecond)
	resp, err := http.Post(ts.URL+"/events", "application/json",
		strings.NewReader(`{"type":"queueUpdated","roomId":"room1","payload":{"queue":[]}}`))
	if err != nil {
		t.Fatalf("post event: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	frame := readFrame(t, conn)
	if frame.Type != EventQueueUpdated || frame.RoomID != "room1" {
		t.Errorf("unexpected frame: %+v", frame)
	}
}

func TestEventsEndpointValidation(t *testing.T) {
	ts, _ := newWSServer(t)

	for _, body := range []string{
		`not json`,
		`{"type":"queueUpdated"}`,
		`{"roomId":"room1"}`,
	} {
		resp, err := http.Post(ts.URL+"/events", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("post: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, resp.StatusCode)
		}
	}
}
