// Package repository is the feature-scoped façade the view-state
// containers call. Nothing is cached: every accessor issues a fresh
// round trip through the data source.
package repository

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/example/anime-browser/services/browse/internal/anilist"
	"github.com/example/anime-browser/services/browse/internal/domain"
)

type Repository struct {
	source anilist.Provider
	pick   func(n int) int
}

// Option configures the Repository.
type Option func(*Repository)

// WithPicker replaces the uniform random index used by Featured.
func WithPicker(pick func(n int) int) Option {
	return func(r *Repository) { r.pick = pick }
}

func New(source anilist.Provider, opts ...Option) *Repository {
	r := &Repository{source: source, pick: rand.Intn}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Repository) Trending(ctx context.Context) ([]domain.Anime, error) {
	return r.source.Trending(ctx)
}

func (r *Repository) Seasonal(ctx context.Context, season domain.Season, year int) ([]domain.Anime, error) {
	return r.source.Seasonal(ctx, season, year)
}

func (r *Repository) Details(ctx context.Context, id int) (domain.Anime, error) {
	return r.source.Details(ctx, id)
}

func (r *Repository) AiringSchedule(ctx context.Context, start, end int64) ([]domain.Anime, error) {
	return r.source.AiringSchedule(ctx, start, end)
}

func (r *Repository) Recommendations(ctx context.Context, id int) ([]domain.Anime, error) {
	return r.source.Recommendations(ctx, id)
}

// Featured picks one trending title uniformly at random. A failed trending
// fetch is returned unchanged.
func (r *Repository) Featured(ctx context.Context) (domain.Anime, error) {
	trending, err := r.source.Trending(ctx)
	if err != nil {
		return domain.Anime{}, err
	}
	if len(trending) == 0 {
		return domain.Anime{}, fmt.Errorf("%w: no trending anime to feature", domain.ErrEmptyResult)
	}
	return trending[r.pick(len(trending))], nil
}
