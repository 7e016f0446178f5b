// Package state provides a shared, replaying state holder for screen
// containers.
//
// A Flow keeps the latest published value and hands it to every new
// subscriber immediately. Its producer goroutine starts with the first
// subscriber, is shared by all of them, and is cancelled once the flow has
// had no subscribers for the configured idle period. The next subscriber
// starts a fresh producer; the retained value survives the restart.
package state

import (
	"context"
	"sync"
	"time"
)

// Producer publishes values through emit until ctx is cancelled. Emits
// after cancellation are dropped.
type Producer[T any] func(ctx context.Context, emit func(T))

type Flow[T any] struct {
	produce Producer[T]
	idle    time.Duration

	mu      sync.Mutex
	current T
	subs    map[uint64]chan T
	nextSub uint64
	gen     uint64 // bumped on every producer start and stop
	cancel  context.CancelFunc
	timer   *time.Timer
	idleSeq uint64
	closed  bool
	wg      sync.WaitGroup
}

// New returns a Flow holding initial. idle <= 0 stops the producer as soon
// as the last subscriber leaves.
func New[T any](initial T, idle time.Duration, produce Producer[T]) *Flow[T] {
	return &Flow[T]{
		produce: produce,
		idle:    idle,
		current: initial,
		subs:    make(map[uint64]chan T),
	}
}

// Value returns the latest published value.
func (f *Flow[T]) Value() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

// Active reports whether a producer is currently running.
func (f *Flow[T]) Active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancel != nil
}

// Subscribe returns a channel that first yields the current value and then
// every later one. Slow readers only see the newest value. The channel is
// closed by the returned cancel func or by Close.
func (f *Flow[T]) Subscribe() (<-chan T, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan T, 1)
	if f.closed {
		close(ch)
		return ch, func() {}
	}
	ch <- f.current

	id := f.nextSub
	f.nextSub++
	f.subs[id] = ch

	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	if f.cancel == nil {
		f.startLocked()
	}

	var once sync.Once
	return ch, func() { once.Do(func() { f.unsubscribe(id) }) }
}

// Subscribers returns the number of attached subscribers.
func (f *Flow[T]) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// Close stops the producer, closes every subscriber channel and waits for
// the producer goroutine to return.
func (f *Flow[T]) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		f.wg.Wait()
		return
	}
	f.closed = true
	f.stopLocked()
	for id, ch := range f.subs {
		close(ch)
		delete(f.subs, id)
	}
	f.mu.Unlock()
	f.wg.Wait()
}

func (f *Flow[T]) startLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	f.gen++
	gen := f.gen
	f.cancel = cancel

	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		f.produce(ctx, func(v T) { f.emit(gen, v) })
	}()
}

func (f *Flow[T]) stopLocked() {
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
		f.gen++
	}
}

func (f *Flow[T]) emit(gen uint64, v T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || gen != f.gen {
		return
	}
	f.current = v
	for _, ch := range f.subs {
		offer(ch, v)
	}
}

func (f *Flow[T]) unsubscribe(id uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch, ok := f.subs[id]
	if !ok {
		return
	}
	delete(f.subs, id)
	close(ch)

	if len(f.subs) > 0 || f.cancel == nil {
		return
	}
	if f.idle <= 0 {
		f.stopLocked()
		return
	}
	f.idleSeq++
	seq := f.idleSeq
	f.timer = time.AfterFunc(f.idle, func() { f.expire(seq) })
}

func (f *Flow[T]) expire(seq uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if seq != f.idleSeq || f.timer == nil || len(f.subs) > 0 {
		return
	}
	f.stopLocked()
}

// offer replaces whatever is buffered in ch with v. Callers hold f.mu, so
// there is a single sender per channel.
func offer[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}
