package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/ewilliams-labs/lyricslink/internal/adapters/genius"
	"github.com/ewilliams-labs/lyricslink/internal/adapters/spotify"
	"github.com/ewilliams-labs/lyricslink/internal/adapters/sqlstore"
	"github.com/ewilliams-labs/lyricslink/internal/config"
	"github.com/ewilliams-labs/lyricslink/internal/core/ports"
	"github.com/ewilliams-labs/lyricslink/internal/core/services"
	"github.com/ewilliams-labs/lyricslink/internal/core/slug"
)

// app holds what every command shares once the configuration is loaded.
type app struct {
	cfg     *config.Config
	log     *zap.SugaredLogger
	closers []func() error
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warnw("close failed", "error", err)
		}
	}
	a.closers = nil
	_ = a.log.Sync()
}

func (a *app) httpClient() *http.Client {
	return &http.Client{Timeout: a.cfg.HTTP.Timeout}
}

func (a *app) genius() *genius.Client {
	return genius.NewClient(a.httpClient(), a.cfg.Genius.UserAgent, a.cfg.HTTP.MaxRetries, a.cfg.HTTP.Backoff, a.log.Named("genius"))
}

func (a *app) resolver(g *genius.Client) *services.LinkResolver {
	opts := services.ResolverOptions{
		FinalCheck:    services.FinalCheck(a.cfg.Resolver.FinalCheck),
		StopOnSuccess: a.cfg.Resolver.StopOnSuccess,
	}
	return services.NewLinkResolver(g, slug.NewBuilder(a.cfg.Genius.BaseURL), opts, a.log.Named("resolver"))
}

// nowPlaying builds the Spotify adapter. It fails when credentials are
// missing.
func (a *app) nowPlaying(ctx context.Context) (*spotify.Client, error) {
	sc := a.cfg.Spotify
	if !sc.Configured() {
		return nil, fmt.Errorf("spotify credentials missing: set %sSPOTIFY__CLIENT_ID, %sSPOTIFY__CLIENT_SECRET and %sSPOTIFY__REFRESH_TOKEN",
			config.EnvPrefix, config.EnvPrefix, config.EnvPrefix)
	}
	httpClient := spotify.NewAuthorizedHTTPClient(ctx, spotify.Credentials{
		ClientID:     sc.ClientID,
		ClientSecret: sc.ClientSecret,
		RefreshToken: sc.RefreshToken,
		TokenURL:     sc.TokenURL,
	}, a.httpClient())
	return spotify.NewClient(httpClient, sc.BaseURL, a.cfg.HTTP.MaxRetries, a.cfg.HTTP.Backoff, a.log.Named("spotify")), nil
}

// repository opens the history store, or returns nil when storage is
// disabled.
func (a *app) repository(ctx context.Context) (ports.ResolutionRepository, error) {
	if a.cfg.Storage.Driver == "none" {
		return nil, nil
	}
	store, err := sqlstore.NewAdapter(ctx, a.cfg.Storage.Driver, a.cfg.Storage.DSN)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store.Close)
	return store, nil
}

// orchestrator wires the service. withNowPlaying attaches the Spotify
// adapter; useCache false bypasses stored links.
func (a *app) orchestrator(ctx context.Context, withNowPlaying, useCache bool) (*services.Orchestrator, error) {
	var np ports.NowPlayingProvider
	if withNowPlaying {
		c, err := a.nowPlaying(ctx)
		if err != nil {
			return nil, err
		}
		np = c
	}

	repo, err := a.repository(ctx)
	if err != nil {
		return nil, err
	}

	g := a.genius()
	cfg := services.OrchestratorConfig{}
	if useCache {
		cfg.CacheTTL = a.cfg.Cache.TTL
	}
	if a.cfg.Genius.FetchTitle {
		cfg.Inspector = g
	}
	return services.NewOrchestrator(np, a.resolver(g), repo, a.log.Named("service"), cfg), nil
}
