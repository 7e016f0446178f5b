package anilist

import (
	"context"

	"github.com/example/anime-browser/services/browse/internal/domain"
)

// Provider is the port for fetching anime data from AniList.
// Implementations never retry and return errors wrapping a domain sentinel.
type Provider interface {
	Trending(ctx context.Context) ([]domain.Anime, error)
	Seasonal(ctx context.Context, season domain.Season, year int) ([]domain.Anime, error)
	Details(ctx context.Context, id int) (domain.Anime, error)
	AiringSchedule(ctx context.Context, start, end int64) ([]domain.Anime, error)
	Recommendations(ctx context.Context, id int) ([]domain.Anime, error)
}

var _ Provider = (*Client)(nil)
