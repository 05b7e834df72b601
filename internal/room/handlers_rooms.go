package room

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleListRooms returns every room as a summary with the caller's isMember
// flag derived. Join codes never appear here.
// GET /rooms
func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	callerID := callerIdentity(r, "")

	rooms, err := s.store.ListRooms(r.Context(), callerID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rooms": rooms})
}

// createdRoom is the only response shape that ever carries a join code.
type createdRoom struct {
	*RoomView
	JoinCode string `json:"joinCode,omitempty"`
}

// handleCreateRoom allocates a room; the creator becomes the first member and
// a join code is generated iff the room is private.
// POST /rooms
func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		IsPublic *bool  `json:"isPublic"`
		Theme    *Theme `json:"theme"`
		UserID   string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	callerID := callerIdentity(r, body.UserID)
	if callerID == "" {
		writeError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	isPublic := true
	if body.IsPublic != nil {
		isPublic = *body.IsPublic
	}

	created, err := s.store.CreateRoom(r.Context(), callerID, body.Name, isPublic, body.Theme)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"room": createdRoom{
			RoomView: created.view(callerID, nil),
			JoinCode: created.JoinCode,
		},
	})
}

// GET /rooms/{id}
func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	callerID := callerIdentity(r, "")

	view, err := s.store.GetRoom(r.Context(), chi.URLParam(r, "id"), callerID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"room": view})
}

// handleJoinRoom adds the caller to the room. Public rooms never need a code;
// private rooms require the matching one. Joining twice is a no-op.
// POST /rooms/{id}/join
func (s *Server) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID string `json:"userId"`
		Code   string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	callerID := callerIdentity(r, body.UserID)
	if callerID == "" {
		writeError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	view, err := s.store.JoinRoom(r.Context(), chi.URLParam(r, "id"), callerID, body.Code)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	s.publishSystem(view.ID, callerID+" joined room")
	writeJSON(w, http.StatusOK, map[string]any{"room": view})
}

// handleJoinByCode is the invite-string path: the code alone locates the
// private room. A wrong code reads as "no such room", not as forbidden.
// POST /rooms/join-by-code
func (s *Server) handleJoinByCode(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code   string `json:"code"`
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	callerID := callerIdentity(r, body.UserID)
	if callerID == "" {
		writeError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	view, err := s.store.JoinByCode(r.Context(), body.Code, callerID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	s.publishSystem(view.ID, callerID+" joined room")
	writeJSON(w, http.StatusOK, map[string]any{"room": view})
}

// POST /rooms/{id}/leave
func (s *Server) handleLeaveRoom(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	callerID := callerIdentity(r, body.UserID)
	if callerID == "" {
		writeError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	roomID := chi.URLParam(r, "id")
	if err := s.store.LeaveRoom(r.Context(), roomID, callerID); err != nil {
		writeStoreError(w, err)
		return
	}

	s.publishSystem(roomID, callerID+" left room")
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
