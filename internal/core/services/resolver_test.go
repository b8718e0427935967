package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ewilliams-labs/lyricslink/internal/core/domain"
	"github.com/ewilliams-labs/lyricslink/internal/core/slug"
)

func TestLinkResolver_Resolve(t *testing.T) {
	// Two artists, an aside in brackets and an alternate title: every
	// fallback state applies.
	full := track("Song (Live) / Other", "A", "B")

	tests := []struct {
		name         string
		meta         domain.TrackMetadata
		opts         ResolverOptions
		statuses     []int
		errs         []error
		wantResolved bool
		wantURL      string
		wantStates   []domain.State
	}{
		{
			name:         "initial success short-circuits",
			meta:         track("Blinding Lights", "The Weeknd"),
			statuses:     []int{200},
			wantResolved: true,
			wantURL:      "https://genius.com/the-weeknd-blinding-lights-lyrics",
			wantStates:   []domain.State{domain.StateInitial},
		},
		{
			name:       "no fallback applies",
			meta:       track("Blinding Lights", "The Weeknd"),
			statuses:   []int{404},
			wantStates: []domain.State{domain.StateInitial},
		},
		{
			name:         "last state decides, final check reuses its probe",
			meta:         full,
			statuses:     []int{404, 404, 404, 200, 404},
			wantResolved: true,
			wantURL:      "https://genius.com/a-song-lyrics",
			wantStates: []domain.State{
				domain.StateInitial,
				domain.StatePrimaryArtistOnly,
				domain.StateStripBracketExtra,
				domain.StateStripAlternate,
			},
		},
		{
			name:     "fresh final check decides on an extra probe",
			meta:     full,
			opts:     ResolverOptions{FinalCheck: FinalCheckFresh},
			statuses: []int{404, 404, 404, 200, 404},
			wantStates: []domain.State{
				domain.StateInitial,
				domain.StatePrimaryArtistOnly,
				domain.StateStripBracketExtra,
				domain.StateStripAlternate,
				domain.StateFinalCheck,
			},
		},
		{
			name:     "intermediate success does not end the chain",
			meta:     full,
			statuses: []int{404, 200, 200, 404},
			wantStates: []domain.State{
				domain.StateInitial,
				domain.StatePrimaryArtistOnly,
				domain.StateStripBracketExtra,
				domain.StateStripAlternate,
			},
		},
		{
			name:         "stop on success returns the first fallback hit",
			meta:         full,
			opts:         ResolverOptions{StopOnSuccess: true},
			statuses:     []int{404, 200},
			wantResolved: true,
			wantURL:      "https://genius.com/a-song-live-other-lyrics",
			wantStates:   []domain.State{domain.StateInitial, domain.StatePrimaryArtistOnly},
		},
		{
			name:         "transport failure advances the chain",
			meta:         track("Song (Live)", "A"),
			errs:         []error{errTransport},
			statuses:     []int{0, 200},
			wantResolved: true,
			wantURL:      "https://genius.com/a-song-lyrics",
			wantStates:   []domain.State{domain.StateInitial, domain.StateStripBracketExtra},
		},
		{
			name:       "featured artist leaves a single artist",
			meta:       track("No Role Modelz (feat. Lil Wayne)", "J. Cole", "Lil Wayne"),
			statuses:   []int{404},
			wantStates: []domain.State{domain.StateInitial},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prober := &scriptedProber{statuses: tt.statuses, errs: tt.errs}
			r := NewLinkResolver(prober, slug.NewBuilder(""), tt.opts, nil)

			out, err := r.Resolve(context.Background(), tt.meta)
			if err != nil {
				t.Fatalf("Resolve: unexpected error %v", err)
			}
			if out.Resolved != tt.wantResolved {
				t.Fatalf("Resolved: got %v, want %v (attempts %+v)", out.Resolved, tt.wantResolved, out.Attempts)
			}
			if out.URL != tt.wantURL {
				t.Fatalf("URL: got %q, want %q", out.URL, tt.wantURL)
			}
			if len(out.Attempts) != len(tt.wantStates) {
				t.Fatalf("attempts: got %d (%+v), want %d", len(out.Attempts), out.Attempts, len(tt.wantStates))
			}
			for i, st := range tt.wantStates {
				if out.Attempts[i].State != st {
					t.Errorf("attempt %d state: got %s, want %s", i, out.Attempts[i].State, st)
				}
			}
			if prober.count() != len(tt.wantStates) {
				t.Fatalf("probes issued: got %d, want %d", prober.count(), len(tt.wantStates))
			}
		})
	}
}

func TestLinkResolver_CandidateSequence(t *testing.T) {
	prober := &scriptedProber{}
	r := NewLinkResolver(prober, slug.NewBuilder(""), ResolverOptions{}, nil)

	out, err := r.Resolve(context.Background(), track("Song (Live) / Other", "Beyoncé", "B"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	want := []string{
		"https://genius.com/beyonce-and-b-song-live-other-lyrics",
		"https://genius.com/beyonce-song-live-other-lyrics",
		"https://genius.com/beyonce-song-other-lyrics",
		"https://genius.com/beyonce-song-lyrics",
	}
	if len(out.Attempts) != len(want) {
		t.Fatalf("attempts: got %d, want %d", len(out.Attempts), len(want))
	}
	for i, u := range want {
		if out.Attempts[i].URL != u {
			t.Errorf("candidate %d: got %q, want %q", i, out.Attempts[i].URL, u)
		}
	}
	if out.Resolved || out.URL != "" {
		t.Fatalf("expected unresolved with empty URL, got %+v", out)
	}

	planned := r.Candidates(track("Song (Live) / Other", "Beyoncé", "B"))
	if len(planned) != len(want) {
		t.Fatalf("Candidates: got %d, want %d", len(planned), len(want))
	}
	for i, u := range want {
		if planned[i].URL != u || planned[i].State != out.Attempts[i].State {
			t.Errorf("Candidates[%d]: got %+v, want %q in state %s", i, planned[i], u, out.Attempts[i].State)
		}
	}
}

func TestLinkResolver_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewLinkResolver(&scriptedProber{}, slug.NewBuilder(""), ResolverOptions{}, nil)
	if _, err := r.Resolve(ctx, track("x", "y")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
