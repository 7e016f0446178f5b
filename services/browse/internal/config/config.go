package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/example/anime-browser/services/browse/internal/anilist"
	"github.com/example/anime-browser/services/browse/internal/domain"
)

// Config holds the browse-specific settings read from the environment.
type Config struct {
	AniListURL    string
	UserAgent     string
	Timeout       time.Duration // 0 leaves requests unbounded
	TrendingLimit int
	SeasonalLimit int
	// Season and Year pin the Home seasonal list. Zero values follow the clock.
	Season      domain.Season
	Year        int
	IdleTimeout time.Duration
	NATSURL     string
}

// Load reads Config from environment variables. Invalid values fall back
// to defaults.
func Load() Config {
	cfg := Config{
		AniListURL:    strings.TrimSpace(os.Getenv("ANILIST_URL")),
		UserAgent:     strings.TrimSpace(os.Getenv("ANILIST_USER_AGENT")),
		Timeout:       envDuration("ANILIST_TIMEOUT", 0),
		TrendingLimit: envInt("TRENDING_LIMIT", 10),
		SeasonalLimit: envInt("SEASONAL_LIMIT", 20),
		Year:          envInt("SEASONAL_YEAR", 0),
		IdleTimeout:   envDuration("STATE_IDLE_TIMEOUT", 5*time.Second),
		NATSURL:       strings.TrimSpace(os.Getenv("NATS_URL")),
	}
	if cfg.AniListURL == "" {
		cfg.AniListURL = anilist.DefaultURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "anime-browser/1.0"
	}
	if v := strings.TrimSpace(os.Getenv("SEASONAL_SEASON")); v != "" {
		if s, err := domain.ParseSeason(v); err == nil {
			cfg.Season = s
		}
	}
	return cfg
}

func (c Config) Client() anilist.ClientConfig {
	return anilist.ClientConfig{
		UserAgent:       c.UserAgent,
		Timeout:         c.Timeout,
		TrendingPerPage: c.TrendingLimit,
		SeasonalPerPage: c.SeasonalLimit,
	}
}

// SeasonFunc returns the Home seasonal selector. Unset parts come from now.
func (c Config) SeasonFunc(now func() time.Time) func() (domain.Season, int) {
	if now == nil {
		now = time.Now
	}
	return func() (domain.Season, int) {
		season, year := domain.SeasonAt(now())
		if c.Season != "" {
			season = c.Season
		}
		if c.Year > 0 {
			year = c.Year
		}
		return season, year
	}
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
