package handlers

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/anime-browser/internal/platform/analytics"
	"github.com/example/anime-browser/internal/platform/api"
	"github.com/example/anime-browser/internal/platform/httpserver"
	"github.com/example/anime-browser/services/browse/internal/domain"
)

// DefaultAiringWindow is used by /v1/airing when end is omitted.
const DefaultAiringWindow = 24 * time.Hour

// Catalog is the repository surface the HTTP handlers read.
type Catalog interface {
	Trending(ctx context.Context) ([]domain.Anime, error)
	Seasonal(ctx context.Context, season domain.Season, year int) ([]domain.Anime, error)
	Featured(ctx context.Context) (domain.Anime, error)
	Details(ctx context.Context, id int) (domain.Anime, error)
	Recommendations(ctx context.Context, id int) ([]domain.Anime, error)
	AiringSchedule(ctx context.Context, start, end int64) ([]domain.Anime, error)
}

type listResponse struct {
	Items []domain.Anime `json:"items"`
}

type seasonalResponse struct {
	Season domain.Season  `json:"season"`
	Year   int            `json:"year"`
	Items  []domain.Anime `json:"items"`
}

type airingResponse struct {
	Start int64          `json:"start"`
	End   int64          `json:"end"`
	Items []domain.Anime `json:"items"`
}

func writeList(w http.ResponseWriter, items []domain.Anime) {
	if items == nil {
		items = []domain.Anime{}
	}
	api.WriteJSON(w, http.StatusOK, listResponse{Items: items})
}

func Trending(c Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := c.Trending(r.Context())
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeList(w, items)
	}
}

// Seasonal lists a season's titles. season and year default to current.
func Seasonal(c Catalog, current func() (domain.Season, int)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		season, year := current()

		if v := strings.TrimSpace(r.URL.Query().Get("season")); v != "" {
			s, err := domain.ParseSeason(v)
			if err != nil {
				api.BadRequest(w, "INVALID_SEASON", "season must be one of WINTER, SPRING, SUMMER, FALL", rid, map[string]any{"season": v})
				return
			}
			season = s
		}
		if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
			y, err := strconv.Atoi(v)
			if err != nil || y <= 0 {
				api.BadRequest(w, "INVALID_YEAR", "year must be a positive integer", rid, map[string]any{"year": v})
				return
			}
			year = y
		}

		items, err := c.Seasonal(r.Context(), season, year)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		if items == nil {
			items = []domain.Anime{}
		}
		api.WriteJSON(w, http.StatusOK, seasonalResponse{Season: season, Year: year, Items: items})
	}
}

func Featured(c Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := c.Featured(r.Context())
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, a)
	}
}

// GetAnime returns one title and records an anime_viewed event.
func GetAnime(c Catalog, events *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		id, ok := animeID(w, r, rid)
		if !ok {
			return
		}
		a, err := c.Details(r.Context(), id)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		events.AnimeViewed(a.ID, a.Title, "http")
		api.WriteJSON(w, http.StatusOK, a)
	}
}

func Recommendations(c Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		id, ok := animeID(w, r, rid)
		if !ok {
			return
		}
		items, err := c.Recommendations(r.Context(), id)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeList(w, items)
	}
}

// Airing lists titles airing inside [start, end], both unix seconds that
// fit AniList's 32-bit Int.
func Airing(c Catalog, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		start := now().Unix()
		if v := strings.TrimSpace(r.URL.Query().Get("start")); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				api.BadRequest(w, "INVALID_START", "start must be unix seconds", rid, map[string]any{"start": v})
				return
			}
			start = n
		}
		end := start + int64(DefaultAiringWindow/time.Second)
		if v := strings.TrimSpace(r.URL.Query().Get("end")); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				api.BadRequest(w, "INVALID_END", "end must be unix seconds", rid, map[string]any{"end": v})
				return
			}
			end = n
		}

		if start < 0 || start > math.MaxInt32 {
			api.BadRequest(w, "INVALID_START", "start must be within [0, 2147483647]", rid, map[string]any{"start": start})
			return
		}
		if end < 0 || end > math.MaxInt32 {
			api.BadRequest(w, "INVALID_END", "end must be within [0, 2147483647]", rid, map[string]any{"end": end})
			return
		}

		items, err := c.AiringSchedule(r.Context(), start, end)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		if items == nil {
			items = []domain.Anime{}
		}
		api.WriteJSON(w, http.StatusOK, airingResponse{Start: start, End: end, Items: items})
	}
}

func animeID(w http.ResponseWriter, r *http.Request, rid string) (int, bool) {
	raw := strings.TrimSpace(chi.URLParam(r, "anime_id"))
	if raw == "" {
		api.BadRequest(w, "MISSING_ID", "anime_id is required", rid, nil)
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		api.BadRequest(w, "INVALID_ID", "anime_id must be a positive integer", rid, map[string]any{"anime_id": raw})
		return 0, false
	}
	return id, true
}
