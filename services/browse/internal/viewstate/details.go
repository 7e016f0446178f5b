package viewstate

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/anime-browser/services/browse/internal/domain"
	"github.com/example/anime-browser/services/browse/internal/state"
)

type DetailsState struct {
	Status  Status        `json:"state"`
	ID      int           `json:"id,omitempty"`
	Anime   *domain.Anime `json:"anime,omitempty"`
	Message string        `json:"message,omitempty"`
}

func (s DetailsState) Settled() bool { return s.Status != StatusLoading }

// DetailsSource is the slice of the repository the details screen reads.
type DetailsSource interface {
	Details(ctx context.Context, id int) (domain.Anime, error)
}

type DetailsOptions struct {
	Log  *zap.Logger
	Idle time.Duration
}

// Details shows one title selected by the host. Every Show issues a new
// fetch; results of superseded fetches are discarded.
type Details struct {
	src  DetailsSource
	log  *zap.Logger
	wake chan struct{}
	flow *state.Flow[DetailsState]

	mu    sync.Mutex
	id    int
	hasID bool
}

type detailsResult struct {
	seq   uint64
	state DetailsState
}

func NewDetails(src DetailsSource, opts DetailsOptions) *Details {
	d := &Details{
		src:  src,
		log:  opts.Log,
		wake: make(chan struct{}, 1),
	}
	if d.log == nil {
		d.log = zap.NewNop()
	}
	idle := opts.Idle
	if idle == 0 {
		idle = DefaultIdle
	}
	d.flow = state.New(DetailsState{Status: StatusLoading}, idle, d.produce)
	return d
}

// Show selects the title to display and triggers a load.
func (d *Details) Show(id int) {
	d.mu.Lock()
	d.id, d.hasID = id, true
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *Details) State() DetailsState { return d.flow.Value() }

func (d *Details) Subscribe() (<-chan DetailsState, func()) { return d.flow.Subscribe() }

func (d *Details) Close() { d.flow.Close() }

func (d *Details) selected() (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.id, d.hasID
}

func (d *Details) produce(ctx context.Context, emit func(DetailsState)) {
	results := make(chan detailsResult)
	var (
		wg     sync.WaitGroup
		latest uint64
	)
	defer wg.Wait()

	start := func() {
		id, ok := d.selected()
		if !ok {
			return
		}
		latest++
		seq := latest
		emit(DetailsState{Status: StatusLoading, ID: id})

		wg.Add(1)
		go func() {
			defer wg.Done()
			st := d.load(ctx, id)
			select {
			case results <- detailsResult{seq: seq, state: st}:
			case <-ctx.Done():
			}
		}()
	}

	select {
	case <-d.wake:
	default:
	}
	start()

	for {
		select {
		case <-ctx.Done():
			return
		case <-d.wake:
			start()
		case r := <-results:
			if r.seq != latest {
				d.log.Debug("dropping superseded details result", zap.Int("id", r.state.ID), zap.Uint64("seq", r.seq), zap.Uint64("latest", latest))
				continue
			}
			emit(r.state)
		}
	}
}

func (d *Details) load(ctx context.Context, id int) (st DetailsState) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("details load panicked", zap.Int("id", id), zap.Any("panic", r))
			st = DetailsState{Status: StatusError, ID: id, Message: panicMessage(r)}
		}
	}()

	a, err := d.src.Details(ctx, id)
	if err != nil {
		d.log.Warn("details load failed", zap.Int("id", id), zap.Error(err))
		return DetailsState{Status: StatusError, ID: id, Message: domain.Message(err)}
	}
	return DetailsState{Status: StatusSuccess, ID: id, Anime: &a}
}
