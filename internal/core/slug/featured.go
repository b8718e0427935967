package slug

import (
	"regexp"
	"strings"

	"github.com/ewilliams-labs/lyricslink/internal/core/domain"
)

// featuredRule captures the names of a "feat." clause in group 1.
type featuredRule struct {
	name string
	re   *regexp.Regexp
}

// Evaluated in order; the first rule that matches wins.
var featuredRules = []featuredRule{
	// (feat. a, b) or [feat. a]: up to the closing bracket.
	{name: "container", re: regexp.MustCompile(`[(\[]feat(?:uring)?\b\.?([^)\]]*)`)},
	// song - feat. a (remix): up to the next bracket.
	{name: "hyphen", re: regexp.MustCompile(`-\s*feat(?:uring)?\b\.?([^()\[\]]*)`)},
	// song feat. a: up to the next bracket or the end.
	{name: "bare", re: regexp.MustCompile(`\bfeat(?:uring)?\b\.?([^()\[\]]*)`)},
}

var (
	andRe         = regexp.MustCompile(` and `)
	nameSplitChar = ",&"
)

// ExtractFeatured scans a lower-cased title for a featured-artist clause and
// returns the names it lists.
func ExtractFeatured(title string) domain.ExclusionSet {
	for _, rule := range featuredRules {
		m := rule.re.FindStringSubmatch(title)
		if m == nil {
			continue
		}
		return domain.NewExclusionSet(splitNames(m[1])...)
	}
	return domain.NewExclusionSet()
}

// splitNames turns "a, b and c & d" into its individual names.
func splitNames(clause string) []string {
	clause = andRe.ReplaceAllString(clause, ",")
	if !strings.ContainsAny(clause, nameSplitChar) {
		name := strings.ToLower(strings.TrimSpace(clause))
		if name == "" {
			return nil
		}
		return []string{name}
	}

	parts := strings.FieldsFunc(clause, func(r rune) bool {
		return strings.ContainsRune(nameSplitChar, r)
	})
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			names = append(names, p)
		}
	}
	return names
}

// RetainArtists drops every contributor whose lower-cased name contains an
// entry of the exclusion set and strips accents from the rest.
func RetainArtists(artists []string, excluded domain.ExclusionSet) []string {
	entries := excluded.Names()
	out := make([]string, 0, len(artists))
	for _, a := range artists {
		lower := strings.ToLower(a)
		if containsAny(lower, entries) {
			continue
		}
		out = append(out, StripAccents(lower))
	}
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
