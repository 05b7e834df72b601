package room

import "errors"

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrNotMember    = errors.New("forbidden: not a room member")
	ErrBadCode      = errors.New("forbidden: invalid join code")
	ErrUnknownKey   = errors.New("unknown queue key")
	ErrBadTrackRef  = errors.New("track reference must be a songId or a yt descriptor")
	ErrBadVote      = errors.New("vote must be 'up' or 'down'")
)
