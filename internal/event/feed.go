// Package event provides a small typed observer registry used instead of raw
// callback fields. Subscribe returns a cancel func, so teardown is
// deterministic and registration is safe from any goroutine.
package event

import "sync"

type subscriber[T any] struct {
	id int
	fn func(T)
}

// Feed is a broadcast point for values of one event type. The zero value is
// ready to use. Publish calls subscribers synchronously, in subscription
// order, on the publishing goroutine.
type Feed[T any] struct {
	mu   sync.Mutex
	next int
	subs []subscriber[T]
}

// Subscribe registers fn and returns a cancel func. Cancel is idempotent.
func (f *Feed[T]) Subscribe(fn func(T)) (cancel func()) {
	f.mu.Lock()
	id := f.next
	f.next++
	f.subs = append(f.subs, subscriber[T]{id: id, fn: fn})
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			for i, s := range f.subs {
				if s.id == id {
					f.subs = append(f.subs[:i], f.subs[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish delivers v to every current subscriber. The subscriber list is
// snapshotted under the lock, so a subscriber may cancel itself (or others)
// during delivery without deadlocking.
func (f *Feed[T]) Publish(v T) {
	f.mu.Lock()
	snapshot := make([]subscriber[T], len(f.subs))
	copy(snapshot, f.subs)
	f.mu.Unlock()

	for _, s := range snapshot {
		s.fn(v)
	}
}

// Len reports the current number of subscribers.
func (f *Feed[T]) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
