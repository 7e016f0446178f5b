// Package anilist is the remote data source: one GraphQL round trip per
// call against the AniList endpoint, mapped into domain.Anime.
package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/anime-browser/services/browse/internal/domain"
)

const DefaultURL = "https://graphql.anilist.co"

// ClientConfig holds tunables for the AniList client. Zero values take the
// defaults applied by New.
type ClientConfig struct {
	UserAgent       string
	Timeout         time.Duration // zero means no client-side timeout
	TrendingPerPage int
	SeasonalPerPage int
	AiringPerPage   int
}

type Client struct {
	URL        string
	HTTPClient *http.Client
	Config     ClientConfig
	Log        *zap.Logger
}

// Option configures the Client.
type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.Log = log }
}

func New(url string, cfg ClientConfig, opts ...Option) *Client {
	if url == "" {
		url = DefaultURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "anime-browser/1.0"
	}
	if cfg.TrendingPerPage <= 0 {
		cfg.TrendingPerPage = 10
	}
	if cfg.SeasonalPerPage <= 0 {
		cfg.SeasonalPerPage = 20
	}
	if cfg.AiringPerPage <= 0 {
		cfg.AiringPerPage = 50
	}
	c := &Client{
		URL:        strings.TrimRight(url, "/"),
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		Config:     cfg,
		Log:        zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Trending returns the top trending titles right now.
func (c *Client) Trending(ctx context.Context) ([]domain.Anime, error) {
	data, err := doQuery[PageData](ctx, c, "trending", trendingQuery, map[string]any{
		"page":    1,
		"perPage": c.Config.TrendingPerPage,
	})
	if err != nil {
		return nil, err
	}
	if data == nil || data.Page == nil {
		return []domain.Anime{}, nil
	}
	return mapMedia(data.Page.Media), nil
}

// Seasonal returns the most popular titles of one broadcast season.
func (c *Client) Seasonal(ctx context.Context, season domain.Season, year int) ([]domain.Anime, error) {
	s, err := domain.ParseSeason(string(season))
	if err != nil {
		return nil, fmt.Errorf("%w: seasonal: %v", domain.ErrUnknown, err)
	}
	data, err := doQuery[PageData](ctx, c, "seasonal", seasonalQuery, map[string]any{
		"season":  string(s),
		"year":    year,
		"page":    1,
		"perPage": c.Config.SeasonalPerPage,
	})
	if err != nil {
		return nil, err
	}
	if data == nil || data.Page == nil {
		return []domain.Anime{}, nil
	}
	return mapMedia(data.Page.Media), nil
}

// Details fetches one title by AniList id.
func (c *Client) Details(ctx context.Context, id int) (domain.Anime, error) {
	if id <= 0 {
		return domain.Anime{}, fmt.Errorf("%w: Anime with ID %d not found", domain.ErrNotFound, id)
	}
	data, err := doQuery[MediaData](ctx, c, "details", detailsQuery, map[string]any{"id": id})
	if err != nil {
		return domain.Anime{}, err
	}
	if data == nil || data.Media == nil {
		return domain.Anime{}, fmt.Errorf("%w: Anime with ID %d not found", domain.ErrNotFound, id)
	}
	return ToDomain(*data.Media), nil
}

// AiringSchedule returns titles with an episode airing in [start, end],
// both in epoch seconds. AniList filters are exclusive 32-bit Ints, so the
// bounds are widened by one and saturated to [-1, MaxInt32]. A window that
// is inverted or lies outside that range yields an empty list.
func (c *Client) AiringSchedule(ctx context.Context, start, end int64) ([]domain.Anime, error) {
	lo, hi, ok := airingBounds(start, end)
	if !ok {
		return []domain.Anime{}, nil
	}
	data, err := doQuery[PageData](ctx, c, "airing_schedule", airingScheduleQuery, map[string]any{
		"start":   lo,
		"end":     hi,
		"page":    1,
		"perPage": c.Config.AiringPerPage,
	})
	if err != nil {
		return nil, err
	}
	if data == nil || data.Page == nil {
		return []domain.Anime{}, nil
	}
	out := make([]domain.Anime, 0, len(data.Page.AiringSchedules))
	for _, s := range data.Page.AiringSchedules {
		if s == nil || s.Media == nil {
			continue
		}
		out = append(out, ToDomain(*s.Media))
	}
	return out, nil
}

// Recommendations returns titles users recommend alongside id.
func (c *Client) Recommendations(ctx context.Context, id int) ([]domain.Anime, error) {
	if id <= 0 {
		return []domain.Anime{}, nil
	}
	data, err := doQuery[MediaData](ctx, c, "recommendations", recommendationsQuery, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	if data == nil || data.Media == nil || data.Media.Recommendations == nil {
		return []domain.Anime{}, nil
	}
	out := make([]domain.Anime, 0, len(data.Media.Recommendations.Nodes))
	for _, n := range data.Media.Recommendations.Nodes {
		if n == nil || n.MediaRecommendation == nil {
			continue
		}
		out = append(out, ToDomain(*n.MediaRecommendation))
	}
	return out, nil
}

func airingBounds(start, end int64) (lo, hi int64, ok bool) {
	if end < start || end < 0 || start > math.MaxInt32 {
		return 0, 0, false
	}
	lo = max(start, 0) - 1
	hi = min(end, math.MaxInt32-1) + 1
	return lo, hi, true
}

func doQuery[T any](ctx context.Context, c *Client, op, query string, vars map[string]any) (*T, error) {
	out, err := roundTrip[T](ctx, c, op, query, vars)
	if err != nil {
		c.Log.Warn("anilist query failed", zap.String("op", op), zap.Error(err))
		return nil, err
	}
	return out, nil
}

func roundTrip[T any](ctx context.Context, c *Client, op, query string, vars map[string]any) (*T, error) {
	if vars == nil {
		vars = map[string]any{}
	}
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: vars})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: encode request: %v", domain.ErrUnknown, op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrUnknown, op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.Config.UserAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrTransport, op, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read body: %v", domain.ErrTransport, op, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s: %s", domain.ErrNotFound, op, firstError(b, "status 404"))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s: status %d: %s", domain.ErrTransport, op, resp.StatusCode,
			firstError(b, fmt.Sprintf("body=%q", string(b[:min(len(b), 200)]))))
	}

	var out graphQLResponse[T]
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("%w: %s: %v body=%q", domain.ErrDeserialization, op, err, string(b[:min(len(b), 200)]))
	}
	if len(out.Errors) > 0 {
		if out.Data == nil {
			return nil, fmt.Errorf("%w: %s: %s", domain.ErrUnknown, op, out.Errors[0].Message)
		}
		c.Log.Warn("anilist partial response", zap.String("op", op), zap.String("error", out.Errors[0].Message))
	}
	return out.Data, nil
}

// firstError extracts the first GraphQL error message from a non-2xx body.
func firstError(b []byte, fallback string) string {
	var env graphQLResponse[json.RawMessage]
	if err := json.Unmarshal(b, &env); err == nil && len(env.Errors) > 0 && env.Errors[0].Message != "" {
		return env.Errors[0].Message
	}
	return fallback
}
