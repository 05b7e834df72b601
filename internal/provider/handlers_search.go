package provider

import (
	"net/http"
	"strconv"
	"strings"
)

// HandleSearch proxies a track search to the provider.
// GET /music/search?query=...&limit=...
func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("query"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	if len(q) > 200 {
		writeError(w, http.StatusBadRequest, "query is too long")
		return
	}

	limitStr := r.URL.Query().Get("limit")
	limit := 10
	if limitStr != "" {
		if v, err := strconv.Atoi(limitStr); err == nil && v > 0 && v <= 25 {
			limit = v
		}
	}

	items, err := s.provider.SearchTracks(r.Context(), q, limit)
	if err != nil {
		// upstream YouTube error
		writeError(w, http.StatusBadGateway, "failed to query provider")
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{Items: items})
}

// HandleVideos resolves details for a comma-separated id list.
// GET /music/videos?ids=ID1,ID2
func (s *Server) HandleVideos(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("ids"))
	if raw == "" {
		writeError(w, http.StatusBadRequest, "ids is required")
		return
	}
	ids := make([]string, 0)
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 || len(ids) > 50 {
		writeError(w, http.StatusBadRequest, "ids must contain between 1 and 50 entries")
		return
	}

	items, err := s.provider.VideoDetails(r.Context(), ids)
	if err != nil {
		writeError(w, http.StatusBadGateway, "failed to query provider")
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{Items: items})
}
