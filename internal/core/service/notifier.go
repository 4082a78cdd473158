package service

import "sync"

// notifier fans state snapshots out to subscribers without blocking the
// publisher. Each subscriber is drained by its own goroutine through a
// capacity-1 channel: when a new snapshot arrives before the previous one was
// consumed, the stale one is dropped, so observers always converge on the
// latest state.
type notifier[T any] struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan T
	closed bool
}

func newNotifier[T any]() *notifier[T] {
	return &notifier[T]{subs: make(map[int]chan T)}
}

// subscribe registers fn and returns a cancel function. fn runs on a
// dedicated goroutine, never on the publisher's.
func (n *notifier[T]) subscribe(fn func(T)) (cancel func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return func() {}
	}

	id := n.nextID
	n.nextID++
	ch := make(chan T, 1)
	n.subs[id] = ch

	go func() {
		for v := range ch {
			fn(v)
		}
	}()

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if ch, ok := n.subs[id]; ok {
			delete(n.subs, id)
			close(ch)
		}
	}
}

// publish delivers v to every subscriber, replacing any undelivered snapshot.
func (n *notifier[T]) publish(v T) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}
	for _, ch := range n.subs {
		select {
		case ch <- v:
		default:
			// Drop the stale snapshot and queue the latest.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
}

// close stops delivery and releases all subscriber goroutines.
func (n *notifier[T]) close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}
	n.closed = true
	for id, ch := range n.subs {
		delete(n.subs, id)
		close(ch)
	}
}
