package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Letters that carry no combining mark under NFD and would otherwise survive
// accent stripping.
var foldTable = strings.NewReplacer(
	"ø", "o", "Ø", "O",
	"ß", "ss",
	"æ", "ae", "Æ", "AE",
	"œ", "oe", "Œ", "OE",
	"ł", "l", "Ł", "L",
	"đ", "d", "Đ", "D",
	"ð", "d", "Ð", "D",
	"þ", "th", "Þ", "TH",
	"ı", "i",
)

var (
	titleDropRe   = regexp.MustCompile(`['’.,?]+`)
	titleSpaceRe  = regexp.MustCompile(`[$!]+`)
	artistDropRe  = regexp.MustCompile(`['’.,?\\/]+`)
	artistSpaceRe = regexp.MustCompile(`[$]+`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

const pathUnsafe = "#%\"<>\\^`{|}()[]/?"

// StripAccents maps accented characters to their closest ASCII base form.
// ASCII input is returned unchanged.
func StripAccents(s string) string {
	// transform.Chain keeps internal buffers, so it is built per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return foldTable.Replace(out)
}

// StripTitlePunctuation removes ' ’ . , ? and turns runs of $ and ! into a
// single space. Run it after StripAccents.
func StripTitlePunctuation(s string) string {
	s = titleDropRe.ReplaceAllString(s, "")
	return titleSpaceRe.ReplaceAllString(s, " ")
}

// StripArtistPunctuation removes ' ’ . , ? \ / and turns runs of $ into a
// single space. Unlike titles, ! is kept.
func StripArtistPunctuation(s string) string {
	s = artistDropRe.ReplaceAllString(s, "")
	return artistSpaceRe.ReplaceAllString(s, " ")
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// pathSafe drops characters that cannot appear in a URL path segment.
func pathSafe(s string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(pathUnsafe, r) || unicode.IsSpace(r) || unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
