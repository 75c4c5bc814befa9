package state

import (
	"sync"

	"github.com/alexisbeaulieu97/shelf/internal/ports"
)

// broadcaster delivers snapshots to subscribers in the order they were
// enqueued. Stores enqueue while holding their own lock, which fixes the
// delivery order to the mutation order, and drain after releasing it so
// subscribers may read the store back.
//
// A snapshot enqueued while a drain is running (from a subscriber, or from
// another goroutine) is delivered by the running drain after the current
// snapshot reaches every subscriber. Deliveries never nest and are never
// coalesced.
//
// When clone is set every subscriber receives its own copy of the snapshot,
// so a subscriber mutating what it was handed cannot reach the store or its
// siblings.
type broadcaster[T any] struct {
	clone    func(T) T
	mu       sync.Mutex
	subs     []subscriberEntry[T]
	nextID   int
	queue    []T
	draining bool
}

type subscriberEntry[T any] struct {
	id int
	fn func(T)
}

// subscribe registers fn and returns a handle that removes it.
func (b *broadcaster[T]) subscribe(fn func(T)) ports.Subscription {
	if fn == nil {
		return noopSubscription{}
	}
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscriberEntry[T]{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return subscription{cancel: func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, entry := range b.subs {
				if entry.id == id {
					next := make([]subscriberEntry[T], 0, len(b.subs)-1)
					next = append(next, b.subs[:i]...)
					b.subs = append(next, b.subs[i+1:]...)
					break
				}
			}
		})
	}}
}

// enqueue appends v to the delivery queue. It must be called while the
// owning store still holds its state lock.
func (b *broadcaster[T]) enqueue(v T) {
	b.mu.Lock()
	b.queue = append(b.queue, v)
	b.mu.Unlock()
}

// drain delivers queued snapshots until the queue is empty. It returns
// immediately when another drain is already running.
func (b *broadcaster[T]) drain() {
	b.mu.Lock()
	if b.draining {
		b.mu.Unlock()
		return
	}
	b.draining = true
	defer func() {
		if r := recover(); r != nil {
			b.mu.Lock()
			b.draining = false
			b.mu.Unlock()
			panic(r)
		}
	}()
	for len(b.queue) > 0 {
		next := b.queue[0]
		var zero T
		b.queue[0] = zero
		b.queue = b.queue[1:]
		subs := append([]subscriberEntry[T](nil), b.subs...)
		b.mu.Unlock()

		for _, entry := range subs {
			if b.clone != nil {
				entry.fn(b.clone(next))
				continue
			}
			entry.fn(next)
		}

		b.mu.Lock()
	}
	b.queue = nil
	b.draining = false
	b.mu.Unlock()
}

type noopSubscription struct{}

func (noopSubscription) Unsubscribe() {}

type subscription struct {
	cancel func()
}

func (s subscription) Unsubscribe() {
	if s.cancel != nil {
		s.cancel()
	}
}
