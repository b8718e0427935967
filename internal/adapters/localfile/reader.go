// Package localfile reads track metadata from audio files on disk.
package localfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/hajimehoshi/go-mp3"
	"go.uber.org/zap"

	"github.com/ewilliams-labs/lyricslink/internal/core/domain"
)

// Reader extracts track metadata from ID3 tags, falling back to an
// "Artist - Title" file name when the tags are empty.
type Reader struct {
	log *zap.SugaredLogger
}

// NewReader constructs a Reader.
func NewReader(log *zap.SugaredLogger) *Reader {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Reader{log: log}
}

// Read returns the metadata of the file at path. It returns an error
// wrapping domain.ErrMetadataUnavailable when neither the tags nor the file
// name name a title and an artist.
func (r *Reader) Read(path string) (domain.TrackMetadata, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return domain.TrackMetadata{}, fmt.Errorf("localfile: open %s: %w", path, err)
	}
	defer tag.Close()

	meta := domain.TrackMetadata{Title: strings.TrimSpace(tag.Title())}
	for _, name := range splitArtists(tag.Artist()) {
		meta.Artists = append(meta.Artists, domain.Artist{Name: name})
	}

	if meta.Title == "" || len(meta.Artists) == 0 {
		if artist, title, ok := fromFileName(path); ok {
			r.log.Debugw("tags incomplete, using file name", "path", path)
			if meta.Title == "" {
				meta.Title = title
			}
			if len(meta.Artists) == 0 {
				meta.Artists = []domain.Artist{{Name: artist}}
			}
		}
	}

	meta.DurationMs = tagDuration(tag)
	if meta.DurationMs == 0 {
		d, err := decodeDuration(path)
		if err != nil {
			r.log.Debugw("duration unavailable", "path", path, "error", err)
		}
		meta.DurationMs = d
	}

	if err := meta.Validate(); err != nil {
		return domain.TrackMetadata{}, fmt.Errorf("localfile: %s: %w", filepath.Base(path), err)
	}
	return meta, nil
}

// splitArtists splits a TPE1 value. ID3v2.4 separates multiple values with
// NUL; many taggers use ";" instead.
func splitArtists(v string) []string {
	parts := strings.FieldsFunc(v, func(r rune) bool { return r == 0 || r == ';' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func fromFileName(path string) (artist, title string, ok bool) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	artist, title, ok = strings.Cut(base, " - ")
	artist, title = strings.TrimSpace(artist), strings.TrimSpace(title)
	return artist, title, ok && artist != "" && title != ""
}

// tagDuration reads TLEN, the length in milliseconds.
func tagDuration(tag *id3v2.Tag) int {
	tf := tag.GetTextFrame("TLEN")
	ms, err := strconv.Atoi(strings.TrimSpace(tf.Text))
	if err != nil || ms < 0 {
		return 0
	}
	return ms
}

// decodeDuration derives the length from the MP3 stream. The decoder emits
// 16-bit stereo samples, four bytes per frame.
func decodeDuration(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return 0, fmt.Errorf("decode: %w", err)
	}
	length := dec.Length()
	rate := dec.SampleRate()
	if length <= 0 || rate <= 0 {
		return 0, fmt.Errorf("unknown stream length")
	}
	return int(length * 1000 / int64(rate*4)), nil
}
