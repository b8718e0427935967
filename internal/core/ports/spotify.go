package ports

import (
	"context"
	"fmt"

	"github.com/ewilliams-labs/lyricslink/internal/core/domain"
)

// ErrNothingPlaying indicates the account has no track playing. It wraps
// domain.ErrMetadataUnavailable.
var ErrNothingPlaying = fmt.Errorf("%w: nothing playing", domain.ErrMetadataUnavailable)

// NowPlayingProvider supplies the track currently playing on a music account.
type NowPlayingProvider interface {
	CurrentTrack(ctx context.Context) (domain.TrackMetadata, error)
}
