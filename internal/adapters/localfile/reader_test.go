package localfile

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/bogem/id3v2"

	"github.com/ewilliams-labs/lyricslink/internal/core/domain"
)

func writeTagged(t *testing.T, name string, frames map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	if len(frames) == 0 {
		return path
	}
	tag := id3v2.NewEmptyTag()
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	for id, text := range frames {
		tag.AddTextFrame(id, id3v2.EncodingUTF8, text)
	}
	if _, err := tag.WriteTo(f); err != nil {
		t.Fatalf("write tag: %v", err)
	}
	return path
}

func TestReaderRead(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		frames   map[string]string
		want     domain.TrackMetadata
		wantErr  bool
		wantMeta bool
	}{
		{
			name:   "Tags",
			file:   "track.mp3",
			frames: map[string]string{"TIT2": "Blinding Lights", "TPE1": "The Weeknd", "TLEN": "200040"},
			want: domain.TrackMetadata{
				Title:      "Blinding Lights",
				Artists:    []domain.Artist{{Name: "The Weeknd"}},
				DurationMs: 200040,
			},
		},
		{
			name:   "Several artists",
			file:   "track.mp3",
			frames: map[string]string{"TIT2": "Sure Thing", "TPE1": "Miguel; Kendrick Lamar"},
			want: domain.TrackMetadata{
				Title:   "Sure Thing",
				Artists: []domain.Artist{{Name: "Miguel"}, {Name: "Kendrick Lamar"}},
			},
		},
		{
			name: "File name fallback",
			file: "J. Cole - No Role Modelz.mp3",
			want: domain.TrackMetadata{
				Title:   "No Role Modelz",
				Artists: []domain.Artist{{Name: "J. Cole"}},
			},
		},
		{
			name:   "Artist from file name only",
			file:   "Adele - Hello.mp3",
			frames: map[string]string{"TIT2": "Hello (Live)"},
			want: domain.TrackMetadata{
				Title:   "Hello (Live)",
				Artists: []domain.Artist{{Name: "Adele"}},
			},
		},
		{
			name:     "Nothing usable",
			file:     "untitled.mp3",
			wantErr:  true,
			wantMeta: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTagged(t, tt.file, tt.frames)

			got, err := NewReader(nil).Read(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Read() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantMeta && !errors.Is(err, domain.ErrMetadataUnavailable) {
				t.Fatalf("expected ErrMetadataUnavailable, got %v", err)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Read() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReaderReadMissingFile(t *testing.T) {
	_, err := NewReader(nil).Read(filepath.Join(t.TempDir(), "missing.mp3"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestSplitArtists(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"The Weeknd", []string{"The Weeknd"}},
		{"Miguel\x00Kendrick Lamar", []string{"Miguel", "Kendrick Lamar"}},
		{"A; B ;;C", []string{"A", "B", "C"}},
		{"AC/DC", []string{"AC/DC"}},
		{"", []string{}},
	}
	for _, tt := range tests {
		if got := splitArtists(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitArtists(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
