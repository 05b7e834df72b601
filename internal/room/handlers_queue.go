package room

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"room-service/internal/realtime"
)

// handleEnqueue nominates a track. Members only; the submitter's upvote is
// implicit; re-nominating an existing key changes nothing. The response and
// the broadcast both carry the full serialized queue.
// POST /rooms/{id}/queue
func (s *Server) handleEnqueue(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SongID string `json:"songId"`
		YT     *YTRef `json:"yt"`
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
	queue, err := s.store.Enqueue(r.Context(), roomID, callerID, TrackRef{SongID: body.SongID, YT: body.YT})
	if err != nil {
		writeStoreError(w, err)
		return
	}

	s.publishQueue(realtime.EventQueueUpdated, roomID, queue)
	writeJSON(w, http.StatusCreated, map[string]any{"queue": queue})
}

// handleVote records an exclusive up/down vote for the caller on one queue
// entry. Members only.
// POST /rooms/{id}/vote
func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Key    string `json:"key"`
		Vote   string `json:"vote"`
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
	queue, err := s.store.Vote(r.Context(), roomID, callerID, body.Key, body.Vote)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	s.publishQueue(realtime.EventVoteUpdated, roomID, queue)
	writeJSON(w, http.StatusOK, map[string]any{"queue": queue})
}
