package services

import (
	"context"
	"errors"
	"sync"

	"github.com/ewilliams-labs/lyricslink/internal/core/domain"
)

// --- Mocks ---

// scriptedProber answers the i-th probe with statuses[i] (404 once the script
// runs out). A non-nil errs[i] is returned as a transport failure.
type scriptedProber struct {
	mu       sync.Mutex
	statuses []int
	errs     []error
	calls    []string
}

func (p *scriptedProber) Probe(ctx context.Context, url string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := len(p.calls)
	p.calls = append(p.calls, url)
	if i < len(p.errs) && p.errs[i] != nil {
		return 0, p.errs[i]
	}
	if i < len(p.statuses) {
		return p.statuses[i], nil
	}
	return 404, nil
}

func (p *scriptedProber) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

type mockNowPlaying struct {
	track domain.TrackMetadata
	err   error
}

func (m *mockNowPlaying) CurrentTrack(ctx context.Context) (domain.TrackMetadata, error) {
	if m.err != nil {
		return domain.TrackMetadata{}, m.err
	}
	return m.track, nil
}

type mockRepo struct {
	mu       sync.Mutex
	saved    []domain.Resolution
	latest   *domain.Resolution
	latestEr error
	saveErr  error
}

func (m *mockRepo) Save(ctx context.Context, r domain.Resolution) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, r)
	return nil
}

func (m *mockRepo) Latest(ctx context.Context, trackKey string) (domain.Resolution, error) {
	if m.latestEr != nil {
		return domain.Resolution{}, m.latestEr
	}
	if m.latest == nil || m.latest.TrackKey != trackKey {
		return domain.Resolution{}, domain.ErrNotFound
	}
	return *m.latest, nil
}

func (m *mockRepo) Recent(ctx context.Context, limit int) ([]domain.Resolution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > len(m.saved) {
		limit = len(m.saved)
	}
	return append([]domain.Resolution(nil), m.saved[:limit]...), nil
}

type mockInspector struct {
	title string
	err   error
	calls int
}

func (m *mockInspector) PageTitle(ctx context.Context, url string) (string, error) {
	m.calls++
	return m.title, m.err
}

var errTransport = errors.New("connection reset")

func track(title string, artists ...string) domain.TrackMetadata {
	m := domain.TrackMetadata{Title: title}
	for _, a := range artists {
		m.Artists = append(m.Artists, domain.Artist{Name: a})
	}
	return m
}
