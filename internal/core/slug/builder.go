package slug

import (
	"strings"

	"github.com/ewilliams-labs/lyricslink/internal/core/domain"
)

// DefaultBaseURL is the lyrics site every slug is appended to.
const DefaultBaseURL = "https://genius.com"

const suffix = "lyrics"

// Builder composes candidate URLs under one site base.
type Builder struct {
	base string
}

// NewBuilder returns a Builder for base, or DefaultBaseURL when base is empty.
func NewBuilder(base string) Builder {
	base = strings.TrimRight(base, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return Builder{base: base}
}

// Build concatenates the artist tokens then the title tokens and appends the
// "lyrics" suffix.
func (b Builder) Build(artistTokens, titleTokens []string) string {
	var sb strings.Builder
	sb.WriteString(b.base)
	sb.WriteByte('/')
	sb.WriteString(Join(artistTokens))
	sb.WriteString(Join(titleTokens))
	sb.WriteString(suffix)
	return sb.String()
}

// URL builds the address of a candidate.
func (b Builder) URL(c domain.SlugCandidate) string {
	return b.Build(c.ArtistTokens, c.TitleTokens)
}

// Join concatenates hyphen-terminated tokens.
func Join(tokens []string) string {
	return strings.Join(tokens, "")
}
