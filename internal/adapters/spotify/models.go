package spotify

// currentlyPlaying is the body of GET /me/player/currently-playing.
type currentlyPlaying struct {
	IsPlaying            bool          `json:"is_playing"`
	CurrentlyPlayingType string        `json:"currently_playing_type"`
	ProgressMs           int           `json:"progress_ms"`
	Item                 *spotifyTrack `json:"item"`
}

// spotifyTrack represents the Spotify API response for a track.
type spotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	DurationMs int             `json:"duration_ms"`
	Artists    []spotifyArtist `json:"artists"`
	Album      struct {
		Name string `json:"name"`
	} `json:"album"`
}

type spotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
