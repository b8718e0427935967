package domain

import (
	"errors"
	"testing"
)

func TestTrackMetadata_Validate(t *testing.T) {
	tests := []struct {
		name    string
		meta    TrackMetadata
		wantErr bool
	}{
		{"complete", TrackMetadata{Title: "Song", Artists: []Artist{{Name: "A"}}}, false},
		{"blank title", TrackMetadata{Title: "  ", Artists: []Artist{{Name: "A"}}}, true},
		{"no artists", TrackMetadata{Title: "Song"}, true},
		{"unnamed artist", TrackMetadata{Title: "Song", Artists: []Artist{{Name: "A"}, {Name: ""}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.meta.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrMetadataUnavailable) {
				t.Errorf("expected ErrMetadataUnavailable, got %v", err)
			}
		})
	}
}

func TestTrackMetadata_Key(t *testing.T) {
	byID := TrackMetadata{ID: "4uLU6hMCjMI75M1A2tKUQC", Title: "Song", Artists: []Artist{{Name: "A"}}}
	if got := byID.Key(); got != "4uLU6hMCjMI75M1A2tKUQC" {
		t.Errorf("Key() = %q, want provider id", got)
	}

	a := TrackMetadata{Title: "Song", Artists: []Artist{{Name: "A"}, {Name: "B"}}}
	b := TrackMetadata{Title: "SONG", Artists: []Artist{{Name: "a"}, {Name: "b"}}}
	if a.Key() != b.Key() {
		t.Errorf("keys differ by case: %q vs %q", a.Key(), b.Key())
	}
	if got, want := a.Key(), "a,b|song"; got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
}

func TestTrackMetadata_LowerCopies(t *testing.T) {
	m := TrackMetadata{Title: "Song", Artists: []Artist{{Name: "Beyoncé"}}}
	low := m.Lower()
	if low.Title != "song" || low.Artists[0].Name != "beyoncé" {
		t.Errorf("Lower() = %+v", low)
	}
	if m.Artists[0].Name != "Beyoncé" {
		t.Error("Lower() mutated the receiver")
	}
}
