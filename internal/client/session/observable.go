package session

import (
	"context"
	"sync"
)

type subscriber[T any] struct {
	id  uint64
	ctx context.Context
	fn  func(T)
}

// Observable holds a value and pushes every published value to its
// subscribers. It is safe for concurrent use.
//
// Notifications are synchronous and serialized: a subscriber sees values in
// publication order. Callbacks run while the notification lock is held, so
// from inside a callback a subscriber must not publish to the same
// Observable (Set, Transition, Update), must not Subscribe to it, and must
// not call anything that does, such as Manager.ClearSession, Logout,
// LogoutLocal or HandleUnauthorized. Any of these deadlocks. Hand such work
// to another goroutine instead.
type Observable[T any] struct {
	notifyMu sync.Mutex

	mu     sync.Mutex
	value  T
	equal  func(a, b T) bool
	subs   []subscriber[T]
	nextID uint64
}

// NewObservable returns an Observable holding initial. equal decides whether
// Transition has anything to publish.
func NewObservable[T any](initial T, equal func(a, b T) bool) *Observable[T] {
	return &Observable[T]{value: initial, equal: equal}
}

// Get returns the current value.
func (o *Observable[T]) Get() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value
}

// Set stores v and notifies every subscriber, in registration order.
func (o *Observable[T]) Set(v T) {
	o.notifyMu.Lock()
	defer o.notifyMu.Unlock()

	o.mu.Lock()
	o.value = v
	subs := append([]subscriber[T](nil), o.subs...)
	o.mu.Unlock()

	o.notify(subs, v)
}

// Transition is Set when v differs from the current value and a no-op
// otherwise. It reports whether v was published. Concurrent transitions to
// the same value publish it once.
func (o *Observable[T]) Transition(v T) bool {
	o.notifyMu.Lock()
	defer o.notifyMu.Unlock()

	o.mu.Lock()
	if o.equal != nil && o.equal(o.value, v) {
		o.mu.Unlock()
		return false
	}
	o.value = v
	subs := append([]subscriber[T](nil), o.subs...)
	o.mu.Unlock()

	o.notify(subs, v)
	return true
}

// Update publishes the value returned by fn when fn reports true. fn sees the
// current value and runs while no other publication can interleave.
func (o *Observable[T]) Update(fn func(current T) (T, bool)) bool {
	o.notifyMu.Lock()
	defer o.notifyMu.Unlock()

	o.mu.Lock()
	v, ok := fn(o.value)
	if !ok {
		o.mu.Unlock()
		return false
	}
	o.value = v
	subs := append([]subscriber[T](nil), o.subs...)
	o.mu.Unlock()

	o.notify(subs, v)
	return true
}

// Subscribe registers fn and calls it right away with the current value.
// fn is no longer called once ctx is done or the returned function is called.
// It must not be called from inside a callback of the same Observable.
func (o *Observable[T]) Subscribe(ctx context.Context, fn func(T)) (unsubscribe func()) {
	o.notifyMu.Lock()
	defer o.notifyMu.Unlock()

	o.mu.Lock()
	o.nextID++
	id := o.nextID
	o.subs = append(o.subs, subscriber[T]{id: id, ctx: ctx, fn: fn})
	current := o.value
	o.mu.Unlock()

	if ctx.Err() == nil {
		fn(current)
	}

	var once sync.Once
	return func() {
		once.Do(func() { o.remove(id) })
	}
}

func (o *Observable[T]) notify(subs []subscriber[T], v T) {
	var gone []uint64
	for _, s := range subs {
		if s.ctx.Err() != nil {
			gone = append(gone, s.id)
			continue
		}
		s.fn(v)
	}
	if len(gone) > 0 {
		o.remove(gone...)
	}
}

func (o *Observable[T]) remove(ids ...uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	kept := o.subs[:0]
	for _, s := range o.subs {
		drop := false
		for _, id := range ids {
			if s.id == id {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, s)
		}
	}
	clear(o.subs[len(kept):])
	o.subs = kept
}
