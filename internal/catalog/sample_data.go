package catalog

// sampleSongs is the built-in demo library. Audio comes from the SoundHelix
// public sample tracks.
func sampleSongs() []Song {
	return []Song{
		{
			ID:       "s1",
			Title:    "Starlight Drive",
			Artist:   "Nova Echo",
			Duration: 214,
			Cover:    "https://images.unsplash.com/photo-1511671782779-c97d3d27a1d4?w=600&q=80&auto=format",
			AudioURL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-1.mp3",
			Lyrics: Lyrics{
				Static: "In the starlight, we are drifting\nOver oceans of our mind\nHold the moment, keep it with you\nLeave the growing world behind",
				Timed: []TimedLine{
					{Time: 0, Line: "In the starlight, we are drifting"},
					{Time: 6, Line: "Over oceans of our mind"},
					{Time: 12, Line: "Hold the moment, keep it with you"},
					{Time: 18, Line: "Leave the growing world behind"},
				},
			},
		},
		{
			ID:       "s2",
			Title:    "Neon Skyline",
			Artist:   "Citywave",
			Duration: 198,
			Cover:    "https://images.unsplash.com/photo-1514525253161-7a46d19cd819?w=600&q=80&auto=format",
			AudioURL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-2.mp3",
			Lyrics: Lyrics{
				Static: "Under neon, hearts are glowing\nShadows dancing in the rain\nHear the rhythm, feel it growing\nBeat it once and start again",
				Timed: []TimedLine{
					{Time: 0, Line: "Under neon, hearts are glowing"},
					{Time: 5, Line: "Shadows dancing in the rain"},
					{Time: 10, Line: "Hear the rhythm, feel it growing"},
					{Time: 15, Line: "Beat it once and start again"},
				},
			},
		},
		{
			ID:       "s3",
			Title:    "Golden Hourglass",
			Artist:   "Solstice",
			Duration: 225,
			Cover:    "https://images.unsplash.com/photo-1494232410401-ad00d5433cfa?w=600&q=80&auto=format",
			AudioURL: "https://www.soundhelix.com/examples/mp3/SoundHelix-Song-3.mp3",
			Lyrics: Lyrics{
				Static: "Time is falling through our fingers\nCatch a grain and make it stay\nEvery second softly lingers\nIn the glow of yesterday",
				Timed: []TimedLine{
					{Time: 0, Line: "Time is falling through our fingers"},
					{Time: 7, Line: "Catch a grain and make it stay"},
					{Time: 14, Line: "Every second softly lingers"},
					{Time: 21, Line: "In the glow of yesterday"},
				},
			},
		},
	}
}
