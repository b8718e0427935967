// Package slug turns raw track metadata into the hyphenated path segment used
// by the lyrics site.
//
// The pipeline runs in a fixed order:
//
//	title, artists
//	  -> ExtractFeatured   (featured artists named in the title)
//	  -> RetainArtists     (contributors minus featured artists)
//	  -> ArtistTokens      ("a", "b", "and", "c" split into hyphenated words)
//	  -> NormalizeTitle    (feat/with clauses, version tags, brackets, slashes)
//	  -> TitleTokens
//	  -> Builder.Build     (https://genius.com/<artists><title>lyrics)
//
// Every function here is pure. Values flow forward; nothing is mutated in
// place, so a caller can keep the words recorded by NormalizeTitle and strip
// them from a token list later.
package slug
