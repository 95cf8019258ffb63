// Package viewstate holds the per-screen UI state records and the operations
// that drive them.
package viewstate

import "sync"

// Observable holds one state record. Every change replaces the whole record and
// is offered to watchers; a slow watcher only ever sees the newest record.
type Observable[T any] struct {
	mu       sync.Mutex
	value    T
	watchers map[int]chan T
	nextId   int
}

func NewObservable[T any](initial T) *Observable[T] {
	return &Observable[T]{
		value:    initial,
		watchers: make(map[int]chan T),
	}
}

func (o *Observable[T]) Get() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value
}

func (o *Observable[T]) Set(value T) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.value = value
	o.broadcast()
}

// Update applies fn to the current record atomically and returns the result.
func (o *Observable[T]) Update(fn func(T) T) T {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.value = fn(o.value)
	o.broadcast()
	return o.value
}

// Watch delivers the current record immediately and every later one.
// The returned cancel closes the channel and may be called more than once.
func (o *Observable[T]) Watch() (<-chan T, func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := o.nextId
	o.nextId++
	ch := make(chan T, 1)
	ch <- o.value
	o.watchers[id] = ch

	cancel := func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		if w, ok := o.watchers[id]; ok {
			delete(o.watchers, id)
			close(w)
		}
	}
	return ch, cancel
}

// broadcast must be called with mu held.
func (o *Observable[T]) broadcast() {
	for _, ch := range o.watchers {
		select {
		case ch <- o.value:
		default:
			// Drop the stale record the watcher has not read yet.
			select {
			case <-ch:
			default:
			}
			ch <- o.value
		}
	}
}
