package slug

import (
	"regexp"
	"strings"

	"github.com/ewilliams-labs/lyricslink/internal/core/domain"
)

// titlePass is one stage of title normalization. Each pass returns a new
// value; a pass that finds nothing returns its input unchanged.
type titlePass func(t domain.NormalizedTitle, artists [][]string) domain.NormalizedTitle

var titlePasses = []titlePass{
	punctuationPass,
	clausePass,
	versionPass,
	structurePass,
	bracketPass,
	slashPass,
}

// Clause removal rules, first match wins. Punctuation has already been
// stripped, so "feat." reads "feat" here.
var clauseRules = []*regexp.Regexp{
	regexp.MustCompile(`[(\[]\s*(?:feat(?:uring)?|with)\b[^()\[\]]*[)\]]?`),
	regexp.MustCompile(`\s*-\s*(?:feat(?:uring)?|with)\b[^()\[\]]*`),
	regexp.MustCompile(`\bfeat(?:uring)?\b[^()\[\]]*`),
}

var (
	versionWordRe   = regexp.MustCompile(`remaster|bonus|acoustic|medley`)
	versionTagRe    = regexp.MustCompile(`\s*-\s*(?:\d{4}\s+)?(?:remaster(?:ed)?|bonus|acoustic|medley)\b[^\[\]]*`)
	structureWordRe = regexp.MustCompile(`prelude|intro|outro|interlude`)
	delimiterRe     = regexp.MustCompile(`[()\[\]-]+`)
	bracketRunRe    = regexp.MustCompile(`[(\[][^()\[\]]*[)\]]`)
	bracketFeatRe   = regexp.MustCompile(`\bfeat(?:uring)?\b`)
	slashRe         = regexp.MustCompile(`\s*[/\\]+\s*`)
)

// NormalizeTitle strips featured-artist clauses, version tags, brackets and
// alternate titles from a lower-cased title. artists are the retained
// contributor names. A bracketed run naming one of them in full is artist
// residue and is deleted now; any other run is an aside, kept and recorded
// for later removal.
func NormalizeTitle(title string, artists []string) domain.NormalizedTitle {
	t := domain.NormalizedTitle{CoreText: title}
	names := make([][]string, 0, len(artists))
	for _, a := range artists {
		var w []string
		for _, tok := range tokenize(StripArtistPunctuation(a)) {
			w = append(w, strings.TrimSuffix(tok, "-"))
		}
		if len(w) > 0 {
			names = append(names, w)
		}
	}
	for _, pass := range titlePasses {
		t = pass(t, names)
	}
	t.CoreText = collapseSpaces(t.CoreText)
	return t
}

func withCore(t domain.NormalizedTitle, core string) domain.NormalizedTitle {
	t.CoreText = core
	return t
}

func punctuationPass(t domain.NormalizedTitle, _ [][]string) domain.NormalizedTitle {
	return withCore(t, StripTitlePunctuation(StripAccents(t.CoreText)))
}

func clausePass(t domain.NormalizedTitle, _ [][]string) domain.NormalizedTitle {
	for _, re := range clauseRules {
		if re.MatchString(t.CoreText) {
			return withCore(t, re.ReplaceAllString(t.CoreText, " "))
		}
	}
	return t
}

func versionPass(t domain.NormalizedTitle, _ [][]string) domain.NormalizedTitle {
	if !versionWordRe.MatchString(t.CoreText) {
		return t
	}
	return withCore(t, versionTagRe.ReplaceAllString(t.CoreText, ""))
}

// Words such as "intro" name a part of the track and belong in the slug, so
// only the delimiters around them go.
func structurePass(t domain.NormalizedTitle, _ [][]string) domain.NormalizedTitle {
	if !structureWordRe.MatchString(t.CoreText) {
		return t
	}
	return withCore(t, delimiterRe.ReplaceAllString(t.CoreText, " "))
}

func bracketPass(t domain.NormalizedTitle, artists [][]string) domain.NormalizedTitle {
	core := t.CoreText
	var extra []string
	// Innermost runs first; each iteration removes at least one pair.
	for bracketRunRe.MatchString(core) {
		core = bracketRunRe.ReplaceAllStringFunc(core, func(run string) string {
			inner := run[1 : len(run)-1]
			if !namesAny(inner, artists) {
				extra = append(extra, strings.Fields(inner)...)
				return " " + inner + " "
			}
			if loc := bracketFeatRe.FindStringIndex(inner); loc != nil {
				return " " + inner[:loc[0]] + " "
			}
			return " "
		})
	}
	t = withCore(t, core)
	if len(extra) > 0 {
		t.BracketTokens = append(append([]string(nil), t.BracketTokens...), extra...)
		t.HasBracketExtra = true
	}
	return t
}

func slashPass(t domain.NormalizedTitle, _ [][]string) domain.NormalizedTitle {
	if !slashRe.MatchString(t.CoreText) {
		return t
	}
	parts := slashRe.Split(t.CoreText, -1)
	var alt []string
	for _, p := range parts[1:] {
		alt = append(alt, strings.Fields(p)...)
	}
	t = withCore(t, slashRe.ReplaceAllString(t.CoreText, " "))
	t.AlternateTokens = alt
	t.HasAlternate = true
	return t
}

// namesAny reports whether the words of text contain the full word sequence
// of one of names.
func namesAny(text string, names [][]string) bool {
	fields := strings.Fields(text)
	for _, name := range names {
		if containsRun(fields, name) {
			return true
		}
	}
	return false
}

func containsRun(fields, run []string) bool {
	if len(run) == 0 || len(run) > len(fields) {
		return false
	}
	for i := 0; i+len(run) <= len(fields); i++ {
		match := true
		for j, w := range run {
			if fields[i+j] != w {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
