package slug

import "strings"

// connective is inserted before the last of several artists.
const connective = "and"

// ArtistTokens builds the artist portion of the slug. Several artists read as
// "a b and c"; every word becomes one hyphen-terminated token.
func ArtistTokens(artists []string) []string {
	names := append([]string(nil), artists...)
	if len(names) > 1 {
		last := names[len(names)-1]
		names = append(names[:len(names)-1], connective, last)
	}

	var tokens []string
	for _, name := range names {
		tokens = append(tokens, tokenize(StripArtistPunctuation(name))...)
	}
	return tokens
}

// TitleTokens splits a normalized title into hyphen-terminated tokens.
func TitleTokens(coreText string) []string {
	return tokenize(coreText)
}

func tokenize(s string) []string {
	var tokens []string
	for _, word := range strings.Split(s, " ") {
		word = strings.Trim(pathSafe(word), "-")
		if !keepToken(word) {
			continue
		}
		tokens = append(tokens, word+"-")
	}
	return tokens
}

func keepToken(word string) bool {
	return word != "" && word != "-" && word != " "
}

// WithoutWords returns the tokens whose text (trailing hyphen removed) is not
// one of words. The input slice is left untouched.
func WithoutWords(tokens []string, words []string) []string {
	if len(words) == 0 {
		return append([]string(nil), tokens...)
	}
	drop := make(map[string]struct{}, len(words))
	for _, w := range words {
		drop[pathSafe(w)] = struct{}{}
	}

	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, ok := drop[strings.TrimSuffix(tok, "-")]; ok {
			continue
		}
		out = append(out, tok)
	}
	return out
}
