package room

import "time"

const (
	entryTypeSample = "sample"
	entryTypeYT     = "yt"

	VoteUp   = "up"
	VoteDown = "down"
)

// Theme is a cosmetic pair carried through unchanged; the server never
// interprets it.
type Theme struct {
	Primary string `json:"primary"`
	Accent  string `json:"accent"`
}

func defaultTheme() Theme {
	return Theme{Primary: "#16a34a", Accent: "#f59e0b"}
}

// Votes holds the two disjoint voter sets of a queue entry. A user id appears
// in at most one of the two slices; setVote enforces that on every call.
type Votes struct {
	Up   []string `json:"up"`
	Down []string `json:"down"`
}

// QueueEntry is one nominated track in a room's queue, keyed by
// "sample:<songId>" or "yt:<videoId>" so the same track can never be
// nominated twice in one room.
type QueueEntry struct {
	Key    string    `json:"key"`
	Type   string    `json:"type"`
	Meta   EntryMeta `json:"meta"`
	SongID string    `json:"songId,omitempty"`
	YTID   string    `json:"ytId,omitempty"`
	Votes  Votes     `json:"votes"`
}

// EntryMeta is captured once at enqueue time and never re-fetched.
type EntryMeta struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Cover    string `json:"cover,omitempty"`
}

// Room is the canonical server-side state of one listening room. JoinCode is
// write-only after creation: handlers compare it but only the create response
// ever echoes it.
type Room struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Members   []string     `json:"members"`
	Queue     []QueueEntry `json:"queue"`
	Theme     Theme        `json:"theme"`
	IsPublic  bool         `json:"isPublic"`
	JoinCode  string       `json:"joinCode,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

// TrackRef is the caller-supplied reference at enqueue time: either a catalog
// song id or an external YouTube descriptor. Metadata on YT refs is trusted as
// given and not re-validated upstream.
type TrackRef struct {
	SongID string `json:"songId,omitempty"`
	YT     *YTRef `json:"yt,omitempty"`
}

type YTRef struct {
	ID      string `json:"id"`
	Title   string `json:"title,omitempty"`
	Channel string `json:"channel,omitempty"`
	Cover   string `json:"cover,omitempty"`
}

// QueueItem is the serialized, vote-count-only form of a QueueEntry. Voter
// identities never leave the server.
type QueueItem struct {
	Key      string `json:"key"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Cover    string `json:"cover,omitempty"`
	Up       int    `json:"up"`
	Down     int    `json:"down"`
	AudioURL string `json:"audioUrl,omitempty"`
	YTID     string `json:"ytId,omitempty"`
}

// RoomSummary is the listing shape; it never carries a join code.
type RoomSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Size     int    `json:"size"`
	IsPublic bool   `json:"isPublic"`
	Theme    Theme  `json:"theme"`
	IsMember bool   `json:"isMember"`
}

// RoomView is the sanitized full-room shape returned by reads, joins and
// leaves. The join code is always stripped.
type RoomView struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Members  []string    `json:"members"`
	IsPublic bool        `json:"isPublic"`
	Theme    Theme       `json:"theme"`
	IsMember bool        `json:"isMember"`
	Queue    []QueueItem `json:"queue"`
}

// SongMeta is what the catalog resolves a songId into.
type SongMeta struct {
	Title    string
	Artist   string
	Cover    string
	AudioURL string
}

// TrackResolver turns catalog song ids into display and playback metadata.
// Implemented by the sample catalog; injected into stores so serialization can
// attach audio URLs.
type TrackResolver interface {
	ResolveSong(id string) (SongMeta, bool)
}
