// Package viewstate holds the per-screen state containers. Each container
// publishes a tri-state (loading, success, error) through a shared,
// replaying state.Flow.
package viewstate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/anime-browser/services/browse/internal/domain"
)

// DefaultIdle is how long a container keeps its producer alive with no
// subscribers.
const DefaultIdle = 5 * time.Second

// ErrClosed is returned by Await when the container shuts down first.
var ErrClosed = errors.New("viewstate: container closed")

type Status string

const (
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Settler is implemented by every view state.
type Settler interface {
	Settled() bool
}

// Await returns the first settled (non-loading) state read from ch.
func Await[S Settler](ctx context.Context, ch <-chan S) (S, error) {
	var zero S
	for {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case s, ok := <-ch:
			if !ok {
				return zero, ErrClosed
			}
			if s.Settled() {
				return s, nil
			}
		}
	}
}

func panicMessage(r any) string {
	switch v := r.(type) {
	case error:
		return domain.Message(v)
	case string:
		if v != "" {
			return v
		}
	case nil:
	default:
		return fmt.Sprint(v)
	}
	return domain.UnknownMessage
}
