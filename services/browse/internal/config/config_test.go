package config

import (
	"testing"
	"time"

	"github.com/example/anime-browser/services/browse/internal/anilist"
	"github.com/example/anime-browser/services/browse/internal/domain"
)

var browseVars = []string{
	"ANILIST_URL", "ANILIST_USER_AGENT", "ANILIST_TIMEOUT", "TRENDING_LIMIT",
	"SEASONAL_LIMIT", "SEASONAL_SEASON", "SEASONAL_YEAR", "STATE_IDLE_TIMEOUT", "NATS_URL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range browseVars {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg := Load()

	if cfg.AniListURL != anilist.DefaultURL {
		t.Fatalf("unexpected url %q", cfg.AniListURL)
	}
	if cfg.UserAgent != "anime-browser/1.0" {
		t.Fatalf("unexpected user agent %q", cfg.UserAgent)
	}
	if cfg.Timeout != 0 {
		t.Fatalf("expected no timeout by default, got %s", cfg.Timeout)
	}
	if cfg.TrendingLimit != 10 || cfg.SeasonalLimit != 20 {
		t.Fatalf("unexpected limits %d/%d", cfg.TrendingLimit, cfg.SeasonalLimit)
	}
	if cfg.IdleTimeout != 5*time.Second {
		t.Fatalf("unexpected idle %s", cfg.IdleTimeout)
	}
	if cfg.Season != "" || cfg.Year != 0 || cfg.NATSURL != "" {
		t.Fatalf("unexpected optional values %+v", cfg)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANILIST_URL", "http://127.0.0.1:9999/graphql")
	t.Setenv("ANILIST_TIMEOUT", "15s")
	t.Setenv("TRENDING_LIMIT", "5")
	t.Setenv("SEASONAL_SEASON", "fall")
	t.Setenv("SEASONAL_YEAR", "2024")
	t.Setenv("STATE_IDLE_TIMEOUT", "250ms")

	cfg := Load()
	if cfg.AniListURL != "http://127.0.0.1:9999/graphql" || cfg.Timeout != 15*time.Second {
		t.Fatalf("unexpected transport config %+v", cfg)
	}
	if cfg.Season != domain.SeasonFall || cfg.Year != 2024 {
		t.Fatalf("unexpected season pin %s %d", cfg.Season, cfg.Year)
	}
	cc := cfg.Client()
	if cc.TrendingPerPage != 5 || cc.SeasonalPerPage != 20 || cc.Timeout != 15*time.Second {
		t.Fatalf("unexpected client config %+v", cc)
	}
	if cfg.IdleTimeout != 250*time.Millisecond {
		t.Fatalf("unexpected idle %s", cfg.IdleTimeout)
	}
}

func TestLoad_InvalidFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRENDING_LIMIT", "-1")
	t.Setenv("SEASONAL_LIMIT", "lots")
	t.Setenv("SEASONAL_SEASON", "monsoon")
	t.Setenv("ANILIST_TIMEOUT", "-2s")

	cfg := Load()
	if cfg.TrendingLimit != 10 || cfg.SeasonalLimit != 20 {
		t.Fatalf("expected default limits, got %d/%d", cfg.TrendingLimit, cfg.SeasonalLimit)
	}
	if cfg.Season != "" || cfg.Timeout != 0 {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestSeasonFunc(t *testing.T) {
	now := func() time.Time { return time.Date(2025, time.December, 3, 0, 0, 0, 0, time.UTC) }

	season, year := Config{}.SeasonFunc(now)()
	if season != domain.SeasonWinter || year != 2026 {
		t.Fatalf("expected clock season WINTER 2026, got %s %d", season, year)
	}

	season, year = Config{Season: domain.SeasonSummer}.SeasonFunc(now)()
	if season != domain.SeasonSummer || year != 2026 {
		t.Fatalf("expected pinned season with clock year, got %s %d", season, year)
	}

	season, year = Config{Season: domain.SeasonSpring, Year: 2023}.SeasonFunc(now)()
	if season != domain.SeasonSpring || year != 2023 {
		t.Fatalf("expected fully pinned season, got %s %d", season, year)
	}
}
