// Package worker provides background resolution of tracks seen by the
// now-playing watcher.
package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/ewilliams-labs/lyricslink/internal/core/domain"
)

// Resolver resolves one track.
type Resolver interface {
	ResolveTrack(ctx context.Context, meta domain.TrackMetadata) (domain.Resolution, error)
}

// Job represents one track to resolve.
type Job struct {
	Track domain.TrackMetadata
}

// Pool manages background workers for async jobs.
type Pool struct {
	resolver Resolver
	jobs     chan Job
	wg       sync.WaitGroup
	log      *zap.SugaredLogger

	// OnResult, when set, receives every finished resolution.
	OnResult func(domain.Resolution)

	stopOnce sync.Once
}

// NewPool creates a worker pool with the given queue size.
func NewPool(resolver Resolver, queueSize int, log *zap.SugaredLogger) *Pool {
	if queueSize < 1 {
		queueSize = 1
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Pool{resolver: resolver, jobs: make(chan Job, queueSize), log: log}
}

// Start launches the worker goroutines. Jobs run with ctx.
func (p *Pool) Start(ctx context.Context, workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.processJob(ctx, job)
			}
		}()
	}
}

// Stop waits for workers to finish after closing the queue. Submit must not
// be called after Stop.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() { close(p.jobs) })
	p.wg.Wait()
}

// Submit queues a job without blocking. It reports false when the queue is
// full and the job was dropped.
func (p *Pool) Submit(job Job) bool {
	select {
	case p.jobs <- job:
		return true
	default:
		p.log.Warnw("queue full, dropping job", "title", job.Track.Title)
		return false
	}
}

func (p *Pool) processJob(ctx context.Context, job Job) {
	res, err := p.resolver.ResolveTrack(ctx, job.Track)
	if err != nil {
		p.log.Warnw("resolution failed", "title", job.Track.Title, "error", err)
		return
	}
	if p.OnResult != nil {
		p.OnResult(res)
	}
}
