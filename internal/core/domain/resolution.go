package domain

import "time"

// State names one step of the fallback chain.
type State string

const (
	StateInitial           State = "initial"
	StatePrimaryArtistOnly State = "primary_artist_only"
	StateStripBracketExtra State = "strip_bracket_extra"
	StateStripAlternate    State = "strip_alternate"
	StateFinalCheck        State = "final_check"
)

// Attempt records one probe issued while resolving.
type Attempt struct {
	State      State
	URL        string
	StatusCode int    // 0 on transport failure
	Err        string // transport error text, if any
}

// OK reports whether the probe succeeded.
func (a Attempt) OK() bool { return a.StatusCode == 200 }

// Outcome is the terminal result of the fallback chain. When Resolved is
// false, URL is empty.
type Outcome struct {
	Resolved bool
	URL      string
	Attempts []Attempt
}

// Resolution is a persisted outcome for one track.
type Resolution struct {
	ID         string
	TrackKey   string
	Title      string
	Artists    []string
	DurationMs int
	URL        string
	Resolved   bool
	PageTitle  string
	Probes     int
	Cached     bool
	CreatedAt  time.Time
}
