package domain

// ExclusionSet holds the lower-cased names of featured artists that are left
// out of the slug's artist portion. It is never mutated after construction.
type ExclusionSet struct {
	names []string
}

// NewExclusionSet builds a set from names, dropping duplicates while keeping
// first-seen order.
func NewExclusionSet(names ...string) ExclusionSet {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return ExclusionSet{names: out}
}

// Names returns a copy of the entries in insertion order.
func (s ExclusionSet) Names() []string {
	return append([]string(nil), s.names...)
}

// NormalizedTitle is the result of title normalization. BracketTokens and
// AlternateTokens keep the words that later fallback states may remove.
type NormalizedTitle struct {
	CoreText        string
	BracketTokens   []string
	AlternateTokens []string
	HasBracketExtra bool
	HasAlternate    bool
}

// SlugCandidate pairs hyphen-terminated artist and title tokens.
type SlugCandidate struct {
	ArtistTokens []string
	TitleTokens  []string
}
