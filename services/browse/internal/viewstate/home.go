package viewstate

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/anime-browser/services/browse/internal/domain"
	"github.com/example/anime-browser/services/browse/internal/state"
)

// HomeLoadFailed is the Error message when no trending titles came back.
const HomeLoadFailed = "Failed to load anime. Check connection."

type HomeState struct {
	Status   Status         `json:"state"`
	Featured *domain.Anime  `json:"featured,omitempty"`
	Trending []domain.Anime `json:"trending"`
	Seasonal []domain.Anime `json:"seasonal"`
	Message  string         `json:"message,omitempty"`
}

func (s HomeState) Settled() bool { return s.Status != StatusLoading }

// HomeSource is the slice of the repository the home screen reads.
type HomeSource interface {
	Trending(ctx context.Context) ([]domain.Anime, error)
	Seasonal(ctx context.Context, season domain.Season, year int) ([]domain.Anime, error)
	Featured(ctx context.Context) (domain.Anime, error)
}

type HomeOptions struct {
	Log *zap.Logger
	// Idle defaults to DefaultIdle; a negative value stops the producer as
	// soon as the last subscriber leaves.
	Idle time.Duration
	// Season picks the seasonal list; defaults to the season of time.Now.
	Season func() (domain.Season, int)
	// OnSuccess runs on the producer goroutine after each load that ends
	// in Success. Replays to late subscribers do not trigger it.
	OnSuccess func(HomeState)
}

// Home loads trending, seasonal and featured titles together and reports
// success as long as trending is non-empty.
type Home struct {
	src     HomeSource
	log     *zap.Logger
	season    func() (domain.Season, int)
	onSuccess func(HomeState)
	refresh   chan struct{}
	flow    *state.Flow[HomeState]
}

func NewHome(src HomeSource, opts HomeOptions) *Home {
	h := &Home{
		src:       src,
		log:       opts.Log,
		season:    opts.Season,
		onSuccess: opts.OnSuccess,
		refresh:   make(chan struct{}, 1),
	}
	if h.log == nil {
		h.log = zap.NewNop()
	}
	if h.season == nil {
		h.season = func() (domain.Season, int) { return domain.SeasonAt(time.Now()) }
	}
	idle := opts.Idle
	if idle == 0 {
		idle = DefaultIdle
	}
	h.flow = state.New(HomeState{Status: StatusLoading}, idle, h.produce)
	return h
}

// State returns the latest published state.
func (h *Home) State() HomeState { return h.flow.Value() }

// Subscribe attaches an observer; the current state is delivered first.
func (h *Home) Subscribe() (<-chan HomeState, func()) { return h.flow.Subscribe() }

// Refresh asks the running producer to load again.
func (h *Home) Refresh() {
	select {
	case h.refresh <- struct{}{}:
	default:
	}
}

func (h *Home) Close() { h.flow.Close() }

func (h *Home) produce(ctx context.Context, emit func(HomeState)) {
	select {
	case <-h.refresh:
	default:
	}
	for {
		emit(HomeState{Status: StatusLoading})
		st := h.load(ctx)
		if ctx.Err() != nil {
			return
		}
		emit(st)
		if st.Status == StatusSuccess && h.onSuccess != nil {
			h.onSuccess(st)
		}

		select {
		case <-ctx.Done():
			return
		case <-h.refresh:
		}
	}
}

func (h *Home) load(ctx context.Context) (st HomeState) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("home load panicked", zap.Any("panic", r))
			st = HomeState{Status: StatusError, Message: panicMessage(r)}
		}
	}()

	season, year := h.season()

	var (
		trending    []domain.Anime
		seasonal    []domain.Anime
		featured    domain.Anime
		trendingErr error
		seasonalErr error
		featuredErr error
	)
	var g errgroup.Group
	g.Go(guard(func() { trending, trendingErr = h.src.Trending(ctx) }))
	g.Go(guard(func() { seasonal, seasonalErr = h.src.Seasonal(ctx, season, year) }))
	g.Go(guard(func() { featured, featuredErr = h.src.Featured(ctx) }))
	if err := g.Wait(); err != nil {
		h.log.Error("home load panicked", zap.Error(err))
		return HomeState{Status: StatusError, Message: domain.Message(err)}
	}

	if trendingErr != nil || len(trending) == 0 {
		h.log.Warn("home load failed", zap.Error(trendingErr), zap.Int("trending", len(trending)))
		return HomeState{Status: StatusError, Message: HomeLoadFailed}
	}
	if seasonalErr != nil {
		h.log.Warn("seasonal fetch failed, continuing without it",
			zap.String("season", string(season)), zap.Int("year", year), zap.Error(seasonalErr))
		seasonal = nil
	}
	if seasonal == nil {
		seasonal = []domain.Anime{}
	}

	pick := trending[0]
	if featuredErr == nil {
		pick = featured
	} else {
		h.log.Warn("featured fetch failed, using first trending", zap.Error(featuredErr))
	}
	return HomeState{
		Status:   StatusSuccess,
		Featured: &pick,
		Trending: trending,
		Seasonal: seasonal,
	}
}

// guard turns a panic inside an errgroup task into its error.
func guard(fn func()) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s", panicMessage(r))
			}
		}()
		fn()
		return nil
	}
}
