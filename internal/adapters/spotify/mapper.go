package spotify

import "github.com/ewilliams-labs/lyricslink/internal/core/domain"

// mapTrackToDomain converts a raw Spotify track to track metadata. Artist
// order is kept; the first artist is the primary contributor.
func mapTrackToDomain(st spotifyTrack) domain.TrackMetadata {
	artists := make([]domain.Artist, 0, len(st.Artists))
	for _, a := range st.Artists {
		artists = append(artists, domain.Artist{Name: a.Name})
	}
	return domain.TrackMetadata{
		ID:         st.ID,
		Title:      st.Name,
		Artists:    artists,
		DurationMs: st.DurationMs,
	}
}
