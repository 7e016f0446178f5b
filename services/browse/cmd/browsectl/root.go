package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/anime-browser/internal/platform/logging"
	"github.com/example/anime-browser/services/browse/internal/anilist"
	browsecfg "github.com/example/anime-browser/services/browse/internal/config"
	"github.com/example/anime-browser/services/browse/internal/domain"
	"github.com/example/anime-browser/services/browse/internal/repository"
)

// Source is everything the commands read.
type Source interface {
	Trending(ctx context.Context) ([]domain.Anime, error)
	Seasonal(ctx context.Context, season domain.Season, year int) ([]domain.Anime, error)
	Featured(ctx context.Context) (domain.Anime, error)
	Details(ctx context.Context, id int) (domain.Anime, error)
	Recommendations(ctx context.Context, id int) ([]domain.Anime, error)
	AiringSchedule(ctx context.Context, start, end int64) ([]domain.Anime, error)
}

type sourceFactory func(cfg browsecfg.Config, log *zap.Logger) Source

func defaultSource(cfg browsecfg.Config, log *zap.Logger) Source {
	client := anilist.New(cfg.AniListURL, cfg.Client(), anilist.WithLogger(log))
	return repository.New(client)
}

type cli struct {
	newSource sourceFactory
	logLevel  string
	url       string
	timeout   time.Duration
	asJSON    bool
	now       func() time.Time

	cfg browsecfg.Config
	log *zap.Logger
	src Source
}

func newRootCmd(factory sourceFactory) *cobra.Command {
	c := &cli{newSource: factory, now: time.Now}

	root := &cobra.Command{
		Use:           "browsectl",
		Short:         "Browse AniList trending, seasonal and detail views",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&c.logLevel, "log-level", "error", "zap log level (written to stderr)")
	pf.StringVar(&c.url, "url", "", "GraphQL endpoint (default ANILIST_URL or "+anilist.DefaultURL+")")
	pf.DurationVar(&c.timeout, "timeout", 0, "per-request timeout (default ANILIST_TIMEOUT, none)")
	pf.BoolVar(&c.asJSON, "json", false, "print JSON instead of text")

	root.AddCommand(
		c.homeCmd(),
		c.detailsCmd(),
		c.trendingCmd(),
		c.seasonalCmd(),
		c.airingCmd(),
		c.recsCmd(),
	)
	return root
}

func (c *cli) init() error {
	c.cfg = browsecfg.Load()
	if u := strings.TrimSpace(c.url); u != "" {
		c.cfg.AniListURL = u
	}
	if c.timeout > 0 {
		c.cfg.Timeout = c.timeout
	}
	log, err := logging.New(c.logLevel, "browsectl")
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	c.log = log
	c.src = c.newSource(c.cfg, log)
	return nil
}

func (c *cli) printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) printList(w io.Writer, title string, items []domain.Anime) error {
	if c.asJSON {
		if items == nil {
			items = []domain.Anime{}
		}
		return c.printJSON(w, items)
	}
	fmt.Fprintf(w, "%s (%d)\n", title, len(items))
	for _, a := range items {
		fmt.Fprintf(w, "  %7d  %3d%%  %s\n", a.ID, a.Rating, a.Title)
	}
	return nil
}

func (c *cli) printAnime(w io.Writer, a domain.Anime) error {
	if c.asJSON {
		return c.printJSON(w, a)
	}
	fmt.Fprintf(w, "%s [%d]\n", a.Title, a.ID)
	fmt.Fprintf(w, "  rating: %d%%\n", a.Rating)
	if a.Season != "" {
		fmt.Fprintf(w, "  season: %s %s\n", a.Season, a.SeasonYear)
	}
	if a.Status != "" {
		fmt.Fprintf(w, "  status: %s\n", a.Status)
	}
	fmt.Fprintf(w, "  cover:  %s\n", a.CoverURL)
	fmt.Fprintf(w, "\n%s\n", a.PlainDescription())
	return nil
}
