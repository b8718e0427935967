package slug

import (
	"testing"

	"github.com/ewilliams-labs/lyricslink/internal/core/domain"
)

func TestBuilderBuild(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		artist []string
		title  []string
		want   string
	}{
		{
			name:   "default base",
			artist: []string{"the-", "weeknd-"},
			title:  []string{"blinding-", "lights-"},
			want:   "https://genius.com/the-weeknd-blinding-lights-lyrics",
		},
		{
			name:   "custom base trailing slash trimmed",
			base:   "http://lyrics.test/",
			artist: []string{"a-"},
			title:  []string{"b-"},
			want:   "http://lyrics.test/a-b-lyrics",
		},
		{
			name:   "no artist tokens",
			artist: nil,
			title:  []string{"song-"},
			want:   "https://genius.com/song-lyrics",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewBuilder(tt.base).Build(tt.artist, tt.title); got != tt.want {
				t.Fatalf("Build: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuilderIsConcatenation(t *testing.T) {
	b := NewBuilder("")
	a := []string{"simon-", "and-", "garfunkel-"}
	ti := []string{"the-", "boxer-"}

	whole := b.Build(a, ti)
	split := b.Build(append(append([]string(nil), a...), ti...), nil)
	if whole != split {
		t.Fatalf("Build not a pure concatenation: %q vs %q", whole, split)
	}
	if got := b.URL(domain.SlugCandidate{ArtistTokens: a, TitleTokens: ti}); got != whole {
		t.Fatalf("URL: got %q, want %q", got, whole)
	}
}
