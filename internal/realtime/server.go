package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	// Origin checks belong to the gateway in front of this service.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server exposes the live channel: /ws for sessions, /events for in-process
// collaborators (or sidecars) to inject envelopes.
type Server struct {
	hub *Hub
	bus *Bus
}

func NewServer(hub *Hub, bus *Bus) *Server {
	return &Server{hub: hub, bus: bus}
}

func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	for _, mw := range middlewares {
		r.Use(mw)
	}
	r.Get("/ws", s.HandleWS)
	r.Post("/events", s.HandleEvents)
	return r
}

func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("room-service: ws upgrade: %v", err)
		return
	}

	client := &Client{
		hub:  s.hub,
		bus:  s.bus,
		conn: conn,
		send: make(chan []byte, 256),
	}
	s.hub.register <- client

	welcome := map[string]any{
		"type": "welcome",
		"now":  time.Now().UTC().Format(time.RFC3339Nano),
	}
	if b, err := json.Marshal(welcome); err == nil {
		client.send <- b
	}

	go client.writePump()
	go client.readPump()
}

// HandleEvents lets trusted callers push an envelope onto the bus.
func (s *Server) HandleEvents(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var evt Event
	if err := json.NewDecoder(r.Body).Decode(&evt); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if evt.RoomID == "" || evt.Type == "" {
		http.Error(w, "type and roomId are required", http.StatusBadRequest)
		return
	}
	s.bus.Publish(evt)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
}
