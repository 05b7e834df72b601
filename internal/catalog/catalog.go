// Package catalog holds the built-in sample library: a small fixed set of
// songs plus user-editable playlists. It also resolves catalog track
// references for the room queue.
package catalog

import (
	"sync"

	"github.com/google/uuid"

	"room-service/internal/room"
)

// likedPlaylistID is the default playlist every install starts with; it can
// never be deleted.
const likedPlaylistID = "liked"

type TimedLine struct {
	Time int    `json:"time"`
	Line string `json:"line"`
}

type Lyrics struct {
	Static string      `json:"static"`
	Timed  []TimedLine `json:"timed"`
}

type Song struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Duration int    `json:"duration"`
	Cover    string `json:"cover"`
	AudioURL string `json:"audioUrl"`
	Lyrics   Lyrics `json:"lyrics"`
}

type Playlist struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Cover   string   `json:"cover"`
	SongIDs []string `json:"songIds"`
}

// ExpandedPlaylist is the response shape: song ids resolved to full songs.
type ExpandedPlaylist struct {
	Playlist
	Songs []Song `json:"songs"`
}

// Catalog is a process-wide singleton created at startup. Songs are fixed;
// playlists mutate under the mutex.
type Catalog struct {
	songs []Song

	mu        sync.Mutex
	playlists []*Playlist
}

func New() *Catalog {
	c := &Catalog{songs: sampleSongs()}
	c.playlists = []*Playlist{
		{ID: likedPlaylistID, Name: "Liked", Cover: c.songs[0].Cover, SongIDs: []string{}},
		{ID: "p1", Name: "Daily Mix", Cover: c.songs[0].Cover, SongIDs: []string{"s1", "s2", "s3"}},
		{ID: "p2", Name: "Focus Flow", Cover: c.songs[1].Cover, SongIDs: []string{"s2", "s3"}},
		{ID: "p3", Name: "Night Drive", Cover: c.songs[2].Cover, SongIDs: []string{"s3", "s1"}},
	}
	return c
}

func (c *Catalog) Songs() []Song {
	return c.songs
}

func (c *Catalog) Song(id string) (Song, bool) {
	for _, s := range c.songs {
		if s.ID == id {
			return s, true
		}
	}
	return Song{}, false
}

// ResolveSong implements room.TrackResolver.
func (c *Catalog) ResolveSong(id string) (room.SongMeta, bool) {
	s, ok := c.Song(id)
	if !ok {
		return room.SongMeta{}, false
	}
	return room.SongMeta{
		Title:    s.Title,
		Artist:   s.Artist,
		Cover:    s.Cover,
		AudioURL: s.AudioURL,
	}, true
}

func (c *Catalog) expandLocked(p *Playlist) ExpandedPlaylist {
	out := ExpandedPlaylist{Playlist: *p, Songs: make([]Song, 0, len(p.SongIDs))}
	out.SongIDs = append([]string(nil), p.SongIDs...)
	for _, id := range p.SongIDs {
		if s, ok := c.Song(id); ok {
			out.Songs = append(out.Songs, s)
		}
	}
	return out
}

func (c *Catalog) Playlists() []ExpandedPlaylist {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]ExpandedPlaylist, 0, len(c.playlists))
	for _, p := range c.playlists {
		out = append(out, c.expandLocked(p))
	}
	return out
}

func (c *Catalog) Playlist(id string) (ExpandedPlaylist, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range c.playlists {
		if p.ID == id {
			return c.expandLocked(p), true
		}
	}
	return ExpandedPlaylist{}, false
}

func (c *Catalog) CreatePlaylist(name, cover string) ExpandedPlaylist {
	c.mu.Lock()
	defer c.mu.Unlock()

	if name == "" {
		name = "New Playlist"
	}
	if cover == "" {
		cover = c.songs[0].Cover
	}
	p := &Playlist{ID: uuid.NewString(), Name: name, Cover: cover, SongIDs: []string{}}
	c.playlists = append(c.playlists, p)
	return c.expandLocked(p)
}

// AddSong is idempotent per playlist; unknown playlist or song ids fail.
func (c *Catalog) AddSong(playlistID, songID string) (ExpandedPlaylist, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.Song(songID); !ok {
		return ExpandedPlaylist{}, false
	}
	for _, p := range c.playlists {
		if p.ID != playlistID {
			continue
		}
		present := false
		for _, id := range p.SongIDs {
			if id == songID {
				present = true
				break
			}
		}
		if !present {
			p.SongIDs = append(p.SongIDs, songID)
		}
		return c.expandLocked(p), true
	}
	return ExpandedPlaylist{}, false
}

func (c *Catalog) RemoveSong(playlistID, songID string) (ExpandedPlaylist, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range c.playlists {
		if p.ID != playlistID {
			continue
		}
		kept := p.SongIDs[:0]
		for _, id := range p.SongIDs {
			if id != songID {
				kept = append(kept, id)
			}
		}
		p.SongIDs = kept
		return c.expandLocked(p), true
	}
	return ExpandedPlaylist{}, false
}

// DeletePlaylist refuses the default liked playlist.
func (c *Catalog) DeletePlaylist(id string) bool {
	if id == likedPlaylistID {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, p := range c.playlists {
		if p.ID == id {
			c.playlists = append(c.playlists[:i], c.playlists[i+1:]...)
			return true
		}
	}
	return false
}

// Recommendations is a deliberately simple rotation: with a partner the order
// flips, so a pair sees a merged-feeling list. The real recommender is an
// external collaborator.
func (c *Catalog) Recommendations(userID, partnerID string) []Song {
	base := append([]Song(nil), c.songs...)
	if partnerID != "" {
		for i, j := 0, len(base)-1; i < j; i, j = i+1, j-1 {
			base[i], base[j] = base[j], base[i]
		}
	}
	if len(base) > 5 {
		base = base[:5]
	}
	return base
}
