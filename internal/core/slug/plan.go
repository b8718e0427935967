package slug

import (
	"strings"

	"github.com/ewilliams-labs/lyricslink/internal/core/domain"
)

// Plan holds every intermediate value of the pipeline for one track.
type Plan struct {
	Excluded     domain.ExclusionSet
	Retained     []string
	ArtistTokens []string
	Title        domain.NormalizedTitle
	TitleTokens  []string
}

// Prepare runs the pipeline on meta. Title and artist names are lower-cased
// first.
func Prepare(meta domain.TrackMetadata) Plan {
	meta = meta.Lower()
	excluded := ExtractFeatured(meta.Title)
	retained := RetainArtists(meta.ArtistNames(), excluded)
	artistTokens := ArtistTokens(retained)
	title := NormalizeTitle(meta.Title, retained)

	return Plan{
		Excluded:     excluded,
		Retained:     retained,
		ArtistTokens: artistTokens,
		Title:        title,
		TitleTokens:  TitleTokens(title.CoreText),
	}
}

// Candidate is the first candidate of the plan.
func (p Plan) Candidate() domain.SlugCandidate {
	return domain.SlugCandidate{ArtistTokens: p.ArtistTokens, TitleTokens: p.TitleTokens}
}

// PrimaryArtistTokens builds artist tokens from the first contributor alone.
func PrimaryArtistTokens(meta domain.TrackMetadata) []string {
	if len(meta.Artists) == 0 {
		return nil
	}
	return ArtistTokens([]string{StripAccents(strings.ToLower(meta.Artists[0].Name))})
}
