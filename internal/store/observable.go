// Package store holds the application's shared state: observable value
// containers for cross-component state, the chat transcript, and the
// file-backed key-value persistence behind them.
package store

import "sync"

// Observable is a single shared value that visually distant components
// can watch without a central state framework. Writes notify all
// subscribers synchronously, in registration order, before Set returns.
// Instances are owned by the application context and passed down; there
// are no package-level singletons.
type Observable[T any] struct {
	mu    sync.Mutex
	value T
	subs  []*obsSub[T]
}

type obsSub[T any] struct {
	fn     func(T)
	active bool
}

// NewObservable creates an Observable holding initial.
func NewObservable[T any](initial T) *Observable[T] {
	return &Observable[T]{value: initial}
}

// Get returns the current value.
func (o *Observable[T]) Get() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value
}

// Set stores v and notifies every registered subscriber before
// returning. Subscribers added after a Set see the current value via Get
// but are not retroactively notified.
func (o *Observable[T]) Set(v T) {
	o.mu.Lock()
	o.value = v
	snapshot := make([]*obsSub[T], len(o.subs))
	copy(snapshot, o.subs)
	o.mu.Unlock()

	for _, s := range snapshot {
		if s.active {
			s.fn(v)
		}
	}
}

// Subscribe registers fn for future writes and returns a cancel func.
func (o *Observable[T]) Subscribe(fn func(T)) (cancel func()) {
	sub := &obsSub[T]{fn: fn, active: true}

	o.mu.Lock()
	o.subs = append(o.subs, sub)
	o.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			sub.active = false
			for i, s := range o.subs {
				if s == sub {
					o.subs = append(o.subs[:i], o.subs[i+1:]...)
					return
				}
			}
		})
	}
}
