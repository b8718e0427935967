package ports

import (
	"context"

	"github.com/ewilliams-labs/lyricslink/internal/core/domain"
)

// ResolutionRepository persists resolution outcomes. Latest returns
// domain.ErrNotFound when the track has never been resolved.
type ResolutionRepository interface {
	Save(ctx context.Context, r domain.Resolution) error
	Latest(ctx context.Context, trackKey string) (domain.Resolution, error)
	Recent(ctx context.Context, limit int) ([]domain.Resolution, error)
}
