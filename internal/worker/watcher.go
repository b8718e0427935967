package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ewilliams-labs/lyricslink/internal/core/domain"
	"github.com/ewilliams-labs/lyricslink/internal/core/ports"
)

// Watcher polls a now-playing provider and submits each newly seen track to
// a pool.
type Watcher struct {
	provider ports.NowPlayingProvider
	pool     *Pool
	interval time.Duration
	log      *zap.SugaredLogger

	lastKey string
}

// NewWatcher constructs a Watcher.
func NewWatcher(provider ports.NowPlayingProvider, pool *Pool, interval time.Duration, log *zap.SugaredLogger) *Watcher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Watcher{provider: provider, pool: pool, interval: interval, log: log}
}

// Run polls until ctx is done, then returns nil.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.Poll(ctx)
		}
	}
}

// Poll checks the provider once. It reports whether a new track was
// submitted.
func (w *Watcher) Poll(ctx context.Context) bool {
	meta, err := w.provider.CurrentTrack(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrMetadataUnavailable) {
			w.log.Debugw("nothing to resolve", "reason", err)
		} else if ctx.Err() == nil {
			w.log.Warnw("now-playing poll failed", "error", err)
		}
		return false
	}

	key := meta.Key()
	if key == w.lastKey {
		return false
	}
	if !w.pool.Submit(Job{Track: meta}) {
		return false
	}
	w.lastKey = key
	w.log.Infow("new track", "title", meta.Title, "artists", meta.ArtistNames())
	return true
}
