package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ewilliams-labs/lyricslink/internal/core/domain"
	"github.com/ewilliams-labs/lyricslink/internal/core/ports"
	"github.com/ewilliams-labs/lyricslink/internal/metrics"
)

// ErrNoProvider is returned by ResolveNowPlaying when no now-playing source
// is configured.
var ErrNoProvider = errors.New("service: no now-playing provider configured")

// Resolver turns track metadata into an outcome.
type Resolver interface {
	Resolve(ctx context.Context, meta domain.TrackMetadata) (domain.Outcome, error)
}

// OrchestratorConfig holds the optional collaborators and knobs.
type OrchestratorConfig struct {
	// CacheTTL reuses a stored resolved link younger than this. Zero disables
	// the cache.
	CacheTTL time.Duration
	// Inspector, when set, records the page title of resolved links.
	Inspector ports.PageInspector
}

// Orchestrator coordinates the now-playing source, the resolver and the
// resolution history.
type Orchestrator struct {
	nowPlaying ports.NowPlayingProvider
	resolver   Resolver
	repo       ports.ResolutionRepository
	cfg        OrchestratorConfig
	log        *zap.SugaredLogger

	group singleflight.Group
	now   func() time.Time
}

// NewOrchestrator constructs an Orchestrator. nowPlaying and repo may be nil.
func NewOrchestrator(nowPlaying ports.NowPlayingProvider, resolver Resolver, repo ports.ResolutionRepository, log *zap.SugaredLogger, cfg OrchestratorConfig) *Orchestrator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Orchestrator{
		nowPlaying: nowPlaying,
		resolver:   resolver,
		repo:       repo,
		cfg:        cfg,
		log:        log,
		now:        time.Now,
	}
}

// ResolveNowPlaying fetches the current track and resolves it.
func (o *Orchestrator) ResolveNowPlaying(ctx context.Context) (domain.Resolution, error) {
	if o.nowPlaying == nil {
		return domain.Resolution{}, ErrNoProvider
	}
	meta, err := o.nowPlaying.CurrentTrack(ctx)
	if err != nil {
		return domain.Resolution{}, fmt.Errorf("service: failed to fetch current track: %w", err)
	}
	return o.ResolveTrack(ctx, meta)
}

// ResolveTrack resolves meta, reusing a fresh stored link when the cache is
// enabled. Concurrent calls for the same track share one resolution, which
// runs detached from any single caller's cancellation; a canceled caller
// returns early while the others still get the result.
func (o *Orchestrator) ResolveTrack(ctx context.Context, meta domain.TrackMetadata) (domain.Resolution, error) {
	if err := meta.Validate(); err != nil {
		return domain.Resolution{}, err
	}

	key := meta.Key()
	shared := context.WithoutCancel(ctx)
	ch := o.group.DoChan(key, func() (interface{}, error) {
		if cached, ok := o.cached(shared, key); ok {
			return cached, nil
		}
		return o.resolve(shared, key, meta)
	})

	select {
	case <-ctx.Done():
		return domain.Resolution{}, fmt.Errorf("service: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return domain.Resolution{}, res.Err
		}
		return res.Val.(domain.Resolution), nil
	}
}

// History returns the most recent resolutions, newest first.
func (o *Orchestrator) History(ctx context.Context, limit int) ([]domain.Resolution, error) {
	if o.repo == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	items, err := o.repo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load history: %w", err)
	}
	return items, nil
}

func (o *Orchestrator) cached(ctx context.Context, key string) (domain.Resolution, bool) {
	if o.repo == nil || o.cfg.CacheTTL <= 0 {
		return domain.Resolution{}, false
	}
	r, err := o.repo.Latest(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			o.log.Warnw("cache lookup failed", "key", key, "error", err)
		}
		return domain.Resolution{}, false
	}
	if !r.Resolved || o.now().Sub(r.CreatedAt) > o.cfg.CacheTTL {
		return domain.Resolution{}, false
	}
	metrics.CacheHitsTotal.Inc()
	r.Cached = true
	r.Probes = 0
	return r, true
}

func (o *Orchestrator) resolve(ctx context.Context, key string, meta domain.TrackMetadata) (domain.Resolution, error) {
	out, err := o.resolver.Resolve(ctx, meta)
	if err != nil {
		metrics.ResolutionsTotal.WithLabelValues("error").Inc()
		return domain.Resolution{}, fmt.Errorf("service: resolve failed: %w", err)
	}

	r := domain.Resolution{
		ID:         uuid.NewString(),
		TrackKey:   key,
		Title:      meta.Title,
		Artists:    meta.ArtistNames(),
		DurationMs: meta.DurationMs,
		URL:        out.URL,
		Resolved:   out.Resolved,
		Probes:     len(out.Attempts),
		CreatedAt:  o.now().UTC(),
	}

	if r.Resolved && o.cfg.Inspector != nil {
		title, err := o.cfg.Inspector.PageTitle(ctx, r.URL)
		if err != nil {
			o.log.Warnw("page title lookup failed", "url", r.URL, "error", err)
		} else {
			r.PageTitle = title
		}
	}

	if o.repo != nil {
		if err := o.repo.Save(ctx, r); err != nil {
			o.log.Warnw("failed to record resolution", "key", key, "error", err)
		}
	}

	outcome := "unresolved"
	if r.Resolved {
		outcome = "resolved"
	}
	metrics.ResolutionsTotal.WithLabelValues(outcome).Inc()
	o.log.Infow("track resolved", "title", meta.Title, "resolved", r.Resolved, "url", r.URL, "probes", r.Probes)
	return r, nil
}
