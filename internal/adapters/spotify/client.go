// Package spotify reads the currently playing track of a Spotify account.
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/ewilliams-labs/lyricslink/internal/adapters/httpx"
	"github.com/ewilliams-labs/lyricslink/internal/core/domain"
	"github.com/ewilliams-labs/lyricslink/internal/core/ports"
)

const (
	DefaultBaseURL  = "https://api.spotify.com/v1"
	DefaultTokenURL = "https://accounts.spotify.com/api/token"
)

// Client is an HTTP client for the Spotify adapter.
type Client struct {
	http    *httpx.Client
	baseURL string
	log     *zap.SugaredLogger
}

// compile-time interface assertion
var _ ports.NowPlayingProvider = (*Client)(nil)

// NewClient constructs a Spotify client. httpClient must already attach
// credentials, see NewAuthorizedHTTPClient.
func NewClient(httpClient *http.Client, baseURL string, maxRetries int, backoff time.Duration, log *zap.SugaredLogger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Client{
		http:    httpx.New(httpClient, "spotify adapter", maxRetries, backoff, log),
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

// Credentials authorize the client through the refresh-token grant.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	TokenURL     string
}

// NewAuthorizedHTTPClient returns an *http.Client that exchanges the refresh
// token for access tokens and renews them when they expire. base carries
// both the token exchange and the API calls; nil means http.DefaultClient.
func NewAuthorizedHTTPClient(ctx context.Context, creds Credentials, base *http.Client) *http.Client {
	tokenURL := creds.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	conf := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
	if base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	}
	ts := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: creds.RefreshToken})
	return oauth2.NewClient(ctx, ts)
}

// CurrentTrack returns the track playing on the account. It returns
// ports.ErrNothingPlaying when playback is idle or the item is not a track.
func (c *Client) CurrentTrack(ctx context.Context) (domain.TrackMetadata, error) {
	url := c.baseURL + "/me/player/currently-playing"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.TrackMetadata{}, fmt.Errorf("spotify adapter: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.TrackMetadata{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNoContent:
		return domain.TrackMetadata{}, ports.ErrNothingPlaying
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.TrackMetadata{}, fmt.Errorf("spotify adapter: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var cp currentlyPlaying
	if err := json.NewDecoder(resp.Body).Decode(&cp); err != nil {
		return domain.TrackMetadata{}, fmt.Errorf("spotify adapter: decode error: %w", err)
	}
	if cp.Item == nil || (cp.CurrentlyPlayingType != "" && cp.CurrentlyPlayingType != "track") {
		c.log.Debugw("no track item", "type", cp.CurrentlyPlayingType)
		return domain.TrackMetadata{}, ports.ErrNothingPlaying
	}

	meta := mapTrackToDomain(*cp.Item)
	if err := meta.Validate(); err != nil {
		return domain.TrackMetadata{}, fmt.Errorf("spotify adapter: %w", err)
	}
	return meta, nil
}
