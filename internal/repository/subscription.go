package repository

import (
	"context"
	"sync"
)

// Snapshot is the complete result of a watched query at one point in time
type Snapshot[T any] struct {
	Items []T
	Err   error
}

// Subscription delivers snapshots until cancelled. Only the newest undelivered snapshot
// is kept, so a slow reader skips straight to the latest state.
type Subscription[T any] struct {
	ctx     context.Context
	cancel  context.CancelFunc
	updates chan Snapshot[T]
	once    sync.Once
	closed  sync.Once
}

// NewSubscription returns a subscription and the context its producer must stop on
func NewSubscription[T any](parent context.Context) (*Subscription[T], context.Context) {
	ctx, cancel := context.WithCancel(parent)
	return &Subscription[T]{
		ctx:     ctx,
		cancel:  cancel,
		updates: make(chan Snapshot[T], 1),
	}, ctx
}

// Updates is closed once the subscription ends
func (s *Subscription[T]) Updates() <-chan Snapshot[T] {
	return s.updates
}

// Cancel stops the subscription. It is safe to call more than once.
func (s *Subscription[T]) Cancel() {
	s.once.Do(s.cancel)
}

// Done is closed when the subscription is cancelled
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.ctx.Done()
}

// Publish replaces any pending snapshot with snap
func (s *Subscription[T]) Publish(snap Snapshot[T]) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case s.updates <- snap:
			return
		default:
		}
		select {
		case <-s.updates:
		default:
		}
	}
}

// Close is called by the producer when it stops
func (s *Subscription[T]) Close() {
	s.closed.Do(func() {
		s.Cancel()
		close(s.updates)
	})
}
