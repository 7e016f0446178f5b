package handlers

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/anime-browser/internal/platform/analytics"
	"github.com/example/anime-browser/services/browse/internal/domain"
)

type Deps struct {
	Catalog Catalog
	Home    HomeView
	Events  *analytics.Publisher
	Season  func() (domain.Season, int)
	Now     func() time.Time
}

// Mount registers the browse routes. SetupRouter must already have run on r.
func Mount(r chi.Router, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Season == nil {
		d.Season = func() (domain.Season, int) { return domain.SeasonAt(d.Now()) }
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/home", GetHome(d.Home))
		r.Get("/home/events", HomeEvents(d.Home))
		r.Post("/home/refresh", RefreshHome(d.Home))

		r.Get("/trending", Trending(d.Catalog))
		r.Get("/seasonal", Seasonal(d.Catalog, d.Season))
		r.Get("/featured", Featured(d.Catalog))
		r.Get("/airing", Airing(d.Catalog, d.Now))
		r.Get("/anime/{anime_id}", GetAnime(d.Catalog, d.Events))
		r.Get("/anime/{anime_id}/recommendations", Recommendations(d.Catalog))
	})
}
