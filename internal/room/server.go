package room

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"room-service/internal/realtime"
)

// Publisher pushes room-scoped events to live sessions. Implemented by
// realtime.Bus; handlers never talk to the hub directly.
type Publisher interface {
	Publish(evt realtime.Event)
}

// Server binds the room store to the HTTP command surface: validate, mutate,
// broadcast.
type Server struct {
	store Store
	bus   Publisher
}

func NewServer(store Store, bus Publisher) *Server {
	return &Server{store: store, bus: bus}
}

func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/", s.handleListRooms)
	r.Post("/", s.handleCreateRoom)
	r.Post("/join-by-code", s.handleJoinByCode)
	r.Get("/{id}", s.handleGetRoom)
	r.Post("/{id}/join", s.handleJoinRoom)
	r.Post("/{id}/leave", s.handleLeaveRoom)
	r.Post("/{id}/queue", s.handleEnqueue)
	r.Post("/{id}/vote", s.handleVote)

	return r
}

func (s *Server) publishSystem(roomID, message string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(realtime.Event{
		Type:   realtime.EventSystem,
		RoomID: roomID,
		Payload: map[string]any{
			"type":    "member",
			"message": message,
		},
	})
}

func (s *Server) publishQueue(eventType, roomID string, queue []QueueItem) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(realtime.Event{
		Type:    eventType,
		RoomID:  roomID,
		Payload: map[string]any{"queue": queue},
	})
}
