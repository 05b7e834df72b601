package room

import (
	"encoding/json"
	"errors"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeStoreError maps the store's sentinel errors onto response codes. The
// Forbidden/NotFound split is deliberate: clients prompt for a code on 403 and
// show "room doesn't exist" on 404.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		writeError(w, http.StatusNotFound, "room not found")
	case errors.Is(err, ErrNotMember):
		writeError(w, http.StatusForbidden, "not a room member")
	case errors.Is(err, ErrBadCode):
		writeError(w, http.StatusForbidden, "invalid join code")
	case errors.Is(err, ErrUnknownKey):
		writeError(w, http.StatusBadRequest, "unknown queue key")
	case errors.Is(err, ErrBadTrackRef):
		writeError(w, http.StatusBadRequest, "unable to add to queue")
	case errors.Is(err, ErrBadVote):
		writeError(w, http.StatusBadRequest, "unable to vote")
	default:
		writeError(w, http.StatusInternalServerError, "storage error")
	}
}

// callerIdentity resolves the opaque caller id: the X-User-Id header set
// upstream wins, the body userId is kept for older clients.
func callerIdentity(r *http.Request, bodyUserID string) string {
	if id := r.Header.Get("X-User-Id"); id != "" {
		return id
	}
	return bodyUserID
}
