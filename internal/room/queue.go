package room

import "sort"

// The mutation helpers below are pure in-memory transitions on a Room. Both
// store implementations funnel through them: the memory store runs them under
// its mutex, the postgres store inside a row-locking transaction, so the
// read-compute-write sequence is never interleaved.

func contains(set []string, id string) bool {
	for _, v := range set {
		if v == id {
			return true
		}
	}
	return false
}

func remove(set []string, id string) []string {
	out := set[:0]
	for _, v := range set {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// addMember is idempotent: joining twice leaves membership unchanged.
func (r *Room) addMember(userID string) bool {
	if contains(r.Members, userID) {
		return false
	}
	r.Members = append(r.Members, userID)
	return true
}

func (r *Room) removeMember(userID string) {
	r.Members = remove(r.Members, userID)
}

func (r *Room) isMember(userID string) bool {
	return userID != "" && contains(r.Members, userID)
}

// canJoin gates private rooms on code possession; public rooms always admit.
func (r *Room) canJoin(code string) bool {
	if r.IsPublic {
		return true
	}
	return code != "" && code == r.JoinCode
}

func (r *Room) findEntry(key string) *QueueEntry {
	for i := range r.Queue {
		if r.Queue[i].Key == key {
			return &r.Queue[i]
		}
	}
	return nil
}

// buildEntry turns a track reference into a keyed queue entry. Sample refs are
// resolved against the catalog; yt refs trust caller-supplied metadata.
func buildEntry(ref TrackRef, resolver TrackResolver) (QueueEntry, error) {
	if ref.SongID != "" {
		meta, ok := resolver.ResolveSong(ref.SongID)
		if !ok {
			return QueueEntry{}, ErrBadTrackRef
		}
		return QueueEntry{
			Key:    "sample:" + ref.SongID,
			Type:   entryTypeSample,
			Meta:   EntryMeta{Title: meta.Title, Subtitle: meta.Artist, Cover: meta.Cover},
			SongID: ref.SongID,
		}, nil
	}
	if ref.YT != nil && ref.YT.ID != "" {
		title := ref.YT.Title
		if title == "" {
			title = "YouTube"
		}
		subtitle := ref.YT.Channel
		if subtitle == "" {
			subtitle = "YouTube"
		}
		return QueueEntry{
			Key:  "yt:" + ref.YT.ID,
			Type: entryTypeYT,
			Meta: EntryMeta{Title: title, Subtitle: subtitle, Cover: ref.YT.Cover},
			YTID: ref.YT.ID,
		}, nil
	}
	return QueueEntry{}, ErrBadTrackRef
}

// enqueue appends a new entry with the submitter's implicit upvote, or returns
// the existing entry untouched when the key is already present.
func (r *Room) enqueue(entry QueueEntry, userID string) *QueueEntry {
	if existing := r.findEntry(entry.Key); existing != nil {
		return existing
	}
	entry.Votes = Votes{Up: []string{userID}, Down: []string{}}
	r.Queue = append(r.Queue, entry)
	return &r.Queue[len(r.Queue)-1]
}

// setVote enforces vote exclusivity by removing the voter from both sets
// before adding to the chosen one. Re-voting the same direction is a harmless
// reset.
func (r *Room) setVote(key, userID, direction string) error {
	entry := r.findEntry(key)
	if entry == nil {
		return ErrUnknownKey
	}
	entry.Votes.Up = remove(entry.Votes.Up, userID)
	entry.Votes.Down = remove(entry.Votes.Down, userID)
	switch direction {
	case VoteUp:
		entry.Votes.Up = append(entry.Votes.Up, userID)
	case VoteDown:
		entry.Votes.Down = append(entry.Votes.Down, userID)
	default:
		return ErrBadVote
	}
	return nil
}

// serializeQueue flattens the queue to vote counts and playable references,
// ordered by net score descending. The sort is recomputed on every read and is
// stable, so ties keep insertion order.
func serializeQueue(queue []QueueEntry, resolver TrackResolver) []QueueItem {
	items := make([]QueueItem, 0, len(queue))
	for _, q := range queue {
		item := QueueItem{
			Key:      q.Key,
			Type:     q.Type,
			Title:    q.Meta.Title,
			Subtitle: q.Meta.Subtitle,
			Cover:    q.Meta.Cover,
			Up:       len(q.Votes.Up),
			Down:     len(q.Votes.Down),
			YTID:     q.YTID,
		}
		if q.SongID != "" && resolver != nil {
			if meta, ok := resolver.ResolveSong(q.SongID); ok {
				item.AudioURL = meta.AudioURL
			}
		}
		items = append(items, item)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Up-items[i].Down > items[j].Up-items[j].Down
	})
	return items
}

func (r *Room) view(callerID string, resolver TrackResolver) *RoomView {
	return &RoomView{
		ID:       r.ID,
		Name:     r.Name,
		Members:  append([]string(nil), r.Members...),
		IsPublic: r.IsPublic,
		Theme:    r.Theme,
		IsMember: r.isMember(callerID),
		Queue:    serializeQueue(r.Queue, resolver),
	}
}

func (r *Room) summary(callerID string) RoomSummary {
	return RoomSummary{
		ID:       r.ID,
		Name:     r.Name,
		Size:     len(r.Members),
		IsPublic: r.IsPublic,
		Theme:    r.Theme,
		IsMember: r.isMember(callerID),
	}
}
