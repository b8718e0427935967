package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMetadataUnavailable indicates there is no track to build a slug from,
// either because nothing is playing or because the metadata is incomplete.
var ErrMetadataUnavailable = errors.New("domain: metadata unavailable")

// ErrNotFound is returned by repositories when a record does not exist.
var ErrNotFound = errors.New("domain: not found")

// Artist is one contributor of a track.
type Artist struct {
	Name string
}

// TrackMetadata is the raw input of a resolution: a title and the ordered
// list of contributing artists.
type TrackMetadata struct {
	ID         string // optional, provider specific
	Title      string
	Artists    []Artist
	DurationMs int // optional
}

// Validate reports ErrMetadataUnavailable when the title or the contributor
// list is missing.
func (m TrackMetadata) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return fmt.Errorf("%w: missing title", ErrMetadataUnavailable)
	}
	if len(m.Artists) == 0 {
		return fmt.Errorf("%w: missing artists", ErrMetadataUnavailable)
	}
	for i, a := range m.Artists {
		if strings.TrimSpace(a.Name) == "" {
			return fmt.Errorf("%w: artist %d has no name", ErrMetadataUnavailable, i)
		}
	}
	return nil
}

// Lower returns a copy with the title and every artist name lower-cased.
func (m TrackMetadata) Lower() TrackMetadata {
	out := m
	out.Title = strings.ToLower(m.Title)
	out.Artists = make([]Artist, len(m.Artists))
	for i, a := range m.Artists {
		out.Artists[i] = Artist{Name: strings.ToLower(a.Name)}
	}
	return out
}

// ArtistNames returns the contributor names in order.
func (m TrackMetadata) ArtistNames() []string {
	names := make([]string, len(m.Artists))
	for i, a := range m.Artists {
		names[i] = a.Name
	}
	return names
}

// Key identifies a track independently of the provider. The provider ID is
// preferred when present.
func (m TrackMetadata) Key() string {
	if m.ID != "" {
		return m.ID
	}
	return strings.ToLower(strings.Join(m.ArtistNames(), ",") + "|" + m.Title)
}
