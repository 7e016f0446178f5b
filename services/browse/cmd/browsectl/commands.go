package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/anime-browser/services/browse/internal/domain"
	"github.com/example/anime-browser/services/browse/internal/viewstate"
)

func (c *cli) homeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Load the home screen: featured, trending and seasonal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h := viewstate.NewHome(c.src, viewstate.HomeOptions{
				Log:    c.log,
				Idle:   -1,
				Season: c.cfg.SeasonFunc(c.now),
			})
			defer h.Close()

			ch, cancel := h.Subscribe()
			defer cancel()
			st, err := viewstate.Await(cmd.Context(), ch)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if c.asJSON {
				return c.printJSON(w, st)
			}
			if st.Status == viewstate.StatusError {
				return errors.New(st.Message)
			}
			fmt.Fprintf(w, "Featured: %s [%d]\n\n", st.Featured.Title, st.Featured.ID)
			if err := c.printList(w, "Trending", st.Trending); err != nil {
				return err
			}
			season, year := c.cfg.SeasonFunc(c.now)()
			return c.printList(w, fmt.Sprintf("Seasonal %s %d", season, year), st.Seasonal)
		},
	}
}

func (c *cli) detailsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "details <id> [<id>...]",
		Short: "Show details, switching the selection once per id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			d := viewstate.NewDetails(c.src, viewstate.DetailsOptions{Log: c.log, Idle: -1})
			defer d.Close()

			ch, cancel := d.Subscribe()
			defer cancel()

			var failed int
			for _, id := range ids {
				d.Show(id)
				st, err := awaitDetails(cmd.Context(), ch, id)
				if err != nil {
					return err
				}
				if st.Status == viewstate.StatusError {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%d: %s\n", id, st.Message)
					continue
				}
				if err := c.printAnime(cmd.OutOrStdout(), *st.Anime); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d lookups failed", failed, len(ids))
			}
			return nil
		},
	}
}

// awaitDetails reads until the settled state for id arrives.
func awaitDetails(ctx context.Context, ch <-chan viewstate.DetailsState, id int) (viewstate.DetailsState, error) {
	for {
		select {
		case <-ctx.Done():
			return viewstate.DetailsState{}, ctx.Err()
		case st, ok := <-ch:
			if !ok {
				return viewstate.DetailsState{}, viewstate.ErrClosed
			}
			if st.ID == id && st.Settled() {
				return st, nil
			}
		}
	}
}

func (c *cli) trendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trending",
		Short: "List trending titles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := c.src.Trending(cmd.Context())
			if err != nil {
				return err
			}
			return c.printList(cmd.OutOrStdout(), "Trending", items)
		},
	}
}

func (c *cli) seasonalCmd() *cobra.Command {
	var (
		seasonFlag string
		year       int
	)
	cmd := &cobra.Command{
		Use:   "seasonal",
		Short: "List a season's most popular titles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			season, y := c.cfg.SeasonFunc(c.now)()
			if seasonFlag != "" {
				s, err := domain.ParseSeason(seasonFlag)
				if err != nil {
					return err
				}
				season = s
			}
			if year > 0 {
				y = year
			}
			items, err := c.src.Seasonal(cmd.Context(), season, y)
			if err != nil {
				return err
			}
			return c.printList(cmd.OutOrStdout(), fmt.Sprintf("Seasonal %s %d", season, y), items)
		},
	}
	cmd.Flags().StringVar(&seasonFlag, "season", "", "WINTER, SPRING, SUMMER or FALL (default current)")
	cmd.Flags().IntVar(&year, "year", 0, "season year (default current)")
	return cmd
}

func (c *cli) airingCmd() *cobra.Command {
	var hours int
	cmd := &cobra.Command{
		Use:   "airing",
		Short: "List titles with an episode airing in the next hours",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if hours <= 0 {
				return fmt.Errorf("--hours must be positive, got %d", hours)
			}
			start := c.now()
			end := start.Add(time.Duration(hours) * time.Hour)
			items, err := c.src.AiringSchedule(cmd.Context(), start.Unix(), end.Unix())
			if err != nil {
				return err
			}
			return c.printList(cmd.OutOrStdout(), fmt.Sprintf("Airing in the next %dh", hours), items)
		},
	}
	cmd.Flags().IntVar(&hours, "hours", 24, "window length in hours")
	return cmd
}

func (c *cli) recsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recs <id>",
		Short: "List recommendations for a title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			items, err := c.src.Recommendations(cmd.Context(), ids[0])
			if err != nil {
				return err
			}
			return c.printList(cmd.OutOrStdout(), fmt.Sprintf("Recommended for %d", ids[0]), items)
		},
	}
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, a := range args {
		id, err := strconv.Atoi(a)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid anime id %q", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
