// Package poll runs a fetch on a fixed interval as a task that can be stopped.
package poll

import (
	"context"
	"sync"
	"time"
)

// Snapshot is the full result of one fetch. Consumers replace what they
// display with Value; snapshots are never merged.
type Snapshot[T any] struct {
	Value T
	Err   error
	At    time.Time
}

type FetchFunc[T any] func(ctx context.Context) (T, error)

// Subscription is a running poll task.
type Subscription[T any] struct {
	updates chan Snapshot[T]
	cancel  context.CancelFunc
	done    chan struct{}
	once    sync.Once
}

// Subscribe fetches immediately and then once per interval until ctx ends or
// Stop is called. A fetch in flight when the task stops sees its context
// cancelled, and its result is dropped.
func Subscribe[T any](ctx context.Context, interval time.Duration, fetch FetchFunc[T]) *Subscription[T] {
	ctx, cancel := context.WithCancel(ctx)
	s := &Subscription[T]{
		updates: make(chan Snapshot[T]),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go s.run(ctx, interval, fetch)
	return s
}

func (s *Subscription[T]) run(ctx context.Context, interval time.Duration, fetch FetchFunc[T]) {
	defer close(s.done)
	defer close(s.updates)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		v, err := fetch(ctx)
		if ctx.Err() != nil {
			return
		}
		select {
		case s.updates <- Snapshot[T]{Value: v, Err: err, At: time.Now()}:
		case <-ctx.Done():
			return
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

// Updates yields one snapshot per tick. It is closed when the task ends.
func (s *Subscription[T]) Updates() <-chan Snapshot[T] {
	return s.updates
}

// Stop cancels the task and waits for it to exit. Safe to call more than once.
func (s *Subscription[T]) Stop() {
	s.once.Do(s.cancel)
	<-s.done
}

// Done is closed once the task has exited.
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.done
}
