package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ewilliams-labs/lyricslink/internal/core/domain"
	"github.com/ewilliams-labs/lyricslink/internal/core/ports"
	"github.com/ewilliams-labs/lyricslink/internal/core/slug"
	"github.com/ewilliams-labs/lyricslink/internal/metrics"
)

// FinalCheck selects how the fallback chain decides its outcome once every
// applicable state has run.
type FinalCheck string

const (
	// FinalCheckReuse decides on the probe already issued for the last-built
	// candidate.
	FinalCheckReuse FinalCheck = "reuse"
	// FinalCheckFresh probes the last-built candidate once more and decides on
	// that result.
	FinalCheckFresh FinalCheck = "fresh"
)

// ResolverOptions tune the fallback chain.
type ResolverOptions struct {
	FinalCheck FinalCheck
	// StopOnSuccess returns as soon as any fallback probe succeeds instead of
	// running the chain to completion.
	StopOnSuccess bool
}

// LinkResolver probes slug candidates for a track, simplifying the candidate
// after each failure.
type LinkResolver struct {
	prober  ports.Prober
	builder slug.Builder
	opts    ResolverOptions
	log     *zap.SugaredLogger
}

// NewLinkResolver constructs a LinkResolver.
func NewLinkResolver(prober ports.Prober, builder slug.Builder, opts ResolverOptions, log *zap.SugaredLogger) *LinkResolver {
	if opts.FinalCheck == "" {
		opts.FinalCheck = FinalCheckReuse
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &LinkResolver{
		prober:  prober,
		builder: builder,
		opts:    opts,
		log:     log,
	}
}

// fallback is one simplification step of the chain.
type fallback struct {
	state   domain.State
	applies bool
	apply   func(domain.SlugCandidate) domain.SlugCandidate
}

// Resolve runs the fallback chain for meta:
//
//	initial -> primary_artist_only -> strip_bracket_extra -> strip_alternate -> final check
//
// Only a success on the initial candidate ends the chain early (unless
// StopOnSuccess is set). Afterwards every applicable state runs, and the
// outcome is decided by the last-built candidate alone. An error is returned
// only when ctx is done.
func (r *LinkResolver) Resolve(ctx context.Context, meta domain.TrackMetadata) (domain.Outcome, error) {
	plan := slug.Prepare(meta)
	var out domain.Outcome

	cand := plan.Candidate()
	last, err := r.probe(ctx, &out, domain.StateInitial, cand)
	if err != nil {
		return out, err
	}
	if last.OK() {
		return resolved(out, last), nil
	}

	for _, step := range fallbacks(plan, meta) {
		if !step.applies {
			continue
		}
		cand = step.apply(cand)
		if last, err = r.probe(ctx, &out, step.state, cand); err != nil {
			return out, err
		}
		if last.OK() && r.opts.StopOnSuccess {
			return resolved(out, last), nil
		}
	}

	if r.opts.FinalCheck == FinalCheckFresh {
		if last, err = r.probe(ctx, &out, domain.StateFinalCheck, cand); err != nil {
			return out, err
		}
	}

	if last.OK() {
		return resolved(out, last), nil
	}
	r.log.Infow("no candidate resolved", "title", meta.Title, "probes", len(out.Attempts))
	return out, nil
}

// fallbacks lists the simplification steps for plan in chain order.
func fallbacks(plan slug.Plan, meta domain.TrackMetadata) []fallback {
	return []fallback{
		{
			state:   domain.StatePrimaryArtistOnly,
			applies: len(plan.Retained) > 1,
			apply: func(c domain.SlugCandidate) domain.SlugCandidate {
				c.ArtistTokens = slug.PrimaryArtistTokens(meta)
				return c
			},
		},
		{
			state:   domain.StateStripBracketExtra,
			applies: plan.Title.HasBracketExtra,
			apply: func(c domain.SlugCandidate) domain.SlugCandidate {
				c.TitleTokens = slug.WithoutWords(c.TitleTokens, plan.Title.BracketTokens)
				return c
			},
		},
		{
			state:   domain.StateStripAlternate,
			applies: plan.Title.HasAlternate,
			apply: func(c domain.SlugCandidate) domain.SlugCandidate {
				c.TitleTokens = slug.WithoutWords(c.TitleTokens, plan.Title.AlternateTokens)
				return c
			},
		},
	}
}

// Candidates lists, without probing, every URL the chain would build for
// meta when no probe succeeds.
func (r *LinkResolver) Candidates(meta domain.TrackMetadata) []domain.Attempt {
	plan := slug.Prepare(meta)
	cand := plan.Candidate()
	out := []domain.Attempt{{State: domain.StateInitial, URL: r.builder.URL(cand)}}
	for _, step := range fallbacks(plan, meta) {
		if !step.applies {
			continue
		}
		cand = step.apply(cand)
		out = append(out, domain.Attempt{State: step.state, URL: r.builder.URL(cand)})
	}
	return out
}

func resolved(out domain.Outcome, last domain.Attempt) domain.Outcome {
	out.Resolved = true
	out.URL = last.URL
	return out
}

// probe checks one candidate and appends the attempt to out. Probe failures
// are recorded, not returned; only a done context is an error.
func (r *LinkResolver) probe(ctx context.Context, out *domain.Outcome, state domain.State, cand domain.SlugCandidate) (domain.Attempt, error) {
	if err := ctx.Err(); err != nil {
		return domain.Attempt{}, fmt.Errorf("resolver: %w", err)
	}

	attempt := domain.Attempt{State: state, URL: r.builder.URL(cand)}
	start := time.Now()
	status, err := r.prober.Probe(ctx, attempt.URL)
	metrics.ProbeDuration.Observe(time.Since(start).Seconds())

	attempt.StatusCode = status
	if err != nil {
		attempt.Err = err.Error()
		if ctxErr := ctx.Err(); ctxErr != nil {
			out.Attempts = append(out.Attempts, attempt)
			return attempt, fmt.Errorf("resolver: %w", ctxErr)
		}
		// A status that came with an error is not a success.
		if attempt.StatusCode == 200 {
			attempt.StatusCode = 0
		}
	}

	out.Attempts = append(out.Attempts, attempt)
	metrics.ProbesTotal.WithLabelValues(string(state), metrics.Result(attempt.OK())).Inc()
	r.log.Debugw("probed candidate", "state", state, "url", attempt.URL, "status", attempt.StatusCode, "err", attempt.Err)
	return attempt, nil
}
