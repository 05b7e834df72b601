package provider

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Provider is the external track search collaborator. The core never depends
// on a concrete provider.
type Provider interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]MusicSearchItem, error)
	VideoDetails(ctx context.Context, ids []string) ([]MusicSearchItem, error)
}

type Server struct {
	provider Provider
}

func NewServer(p Provider) *Server {
	return &Server{provider: p}
}

func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	for _, mw := range middlewares {
		r.Use(mw)
	}
	r.Get("/search", s.HandleSearch)
	r.Get("/videos", s.HandleVideos)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
