package provider

type MusicSearchItem struct {
	Title           string `json:"title"`
	Artist          string `json:"artist"`          // channel name
	Provider        string `json:"provider"`        // "youtube"
	ProviderTrackID string `json:"providerTrackId"` // YouTube video ID
	ThumbnailURL    string `json:"thumbnailUrl"`
	DurationMs      int    `json:"durationMs,omitempty"`
}

type SearchResponse struct {
	Items []MusicSearchItem `json:"items"`
}
