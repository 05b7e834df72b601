package catalog

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Server struct {
	cat *Catalog
}

func NewServer(cat *Catalog) *Server {
	return &Server{cat: cat}
}

// Register attaches the catalog routes to the parent router; the catalog
// spans several top-level prefixes so it does not get its own mount point.
func (s *Server) Register(r chi.Router) {
	r.Get("/songs", s.handleListSongs)
	r.Get("/songs/{id}/lyrics", s.handleLyrics)
	r.Get("/recommendations", s.handleRecommendations)

	r.Get("/playlists", s.handleListPlaylists)
	r.Post("/playlists", s.handleCreatePlaylist)
	r.Post("/playlists/{id}/songs", s.handleAddSong)
	r.Delete("/playlists/{id}/songs/{songId}", s.handleRemoveSong)
	r.Delete("/playlists/{id}", s.handleDeletePlaylist)
	r.Get("/download/playlist/{id}", s.handleDownloadPlaylist)
}

func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"songs": s.cat.Songs()})
}

func (s *Server) handleLyrics(w http.ResponseWriter, r *http.Request) {
	song, ok := s.cat.Song(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "song not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"lyrics": song.Lyrics})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	partnerID := r.URL.Query().Get("partnerId")
	writeJSON(w, http.StatusOK, map[string]any{
		"songs":     s.cat.Recommendations(userID, partnerID),
		"playlists": s.cat.Playlists(),
	})
}

func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"playlists": s.cat.Playlists()})
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name  string `json:"name"`
		Cover string `json:"cover"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	p := s.cat.CreatePlaylist(body.Name, body.Cover)
	writeJSON(w, http.StatusCreated, map[string]any{"playlist": p})
}

func (s *Server) handleAddSong(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SongID string `json:"songId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	p, ok := s.cat.AddSong(chi.URLParam(r, "id"), body.SongID)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid playlist or song")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"playlist": p})
}

func (s *Server) handleRemoveSong(w http.ResponseWriter, r *http.Request) {
	p, ok := s.cat.RemoveSong(chi.URLParam(r, "id"), chi.URLParam(r, "songId"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid playlist")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"playlist": p})
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	if !s.cat.DeletePlaylist(chi.URLParam(r, "id")) {
		writeError(w, http.StatusBadRequest, "cannot delete playlist")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDownloadPlaylist exports a playlist as an attachment for offline use.
func (s *Server) handleDownloadPlaylist(w http.ResponseWriter, r *http.Request) {
	p, ok := s.cat.Playlist(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "playlist not found")
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", p.Name+".json"))
	writeJSON(w, http.StatusOK, map[string]any{
		"id":    p.ID,
		"name":  p.Name,
		"songs": p.Songs,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
